package form

// pageHTML holds the public page and its per-type control sub-templates.
// Styling rides on the --lf-* custom properties set from the owner branding.
const pageHTML = `<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Questionnaire.Title}}</title>
<style>
:root { {{.Style.CSSVars}} }
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6f8; }
main { max-width: 640px; margin: 0 auto; padding: 24px 16px; }
.logo { max-height: 64px; margin-bottom: 16px; }
h1 { color: var(--lf-primary); }
.question { background: #fff; border-radius: 8px; padding: 16px; margin: 12px 0; }
.question label.q { display: block; font-weight: 600; margin-bottom: 8px; }
.required { color: var(--lf-primary); }
.error { color: #b91c1c; font-size: 0.875em; margin-top: 4px; }
input[type=text], input[type=number], input[type=email], input[type=tel], textarea, select {
  width: 100%; box-sizing: border-box; padding: 8px; border: 1px solid #d1d5db; border-radius: 6px;
}
button { background: var(--lf-primary); color: #fff; border: 0; border-radius: 6px;
  padding: 12px 32px; font-size: 1em; cursor: pointer; }
button[disabled] { opacity: 0.6; cursor: default; }
</style>
</head>
<body>
<main>
{{if .Style.LogoURL}}<img class="logo" src="{{.Style.LogoURL}}" alt="">{{end}}
<h1>{{.Questionnaire.Title}}</h1>
{{if .Questionnaire.Description}}<p>{{.Questionnaire.Description}}</p>{{end}}
<form method="post" action="" onsubmit="this.querySelector('button[type=submit]').disabled = true">
<input type="hidden" name="lang" value="{{.Lang}}">
<input type="hidden" name="channel" value="{{.Channel}}">
{{if .Ref}}<input type="hidden" name="ref" value="{{.Ref}}">{{end}}
{{$page := .}}
{{range .Questionnaire.Questions}}
<div class="question">
<label class="q" for="a.{{.ID}}">{{.Label}}{{if .Required}} <span class="required">*</span>{{end}}</label>
{{control $page .}}
{{with $page.Error .ID}}<div class="error">{{.}}</div>{{end}}
</div>
{{end}}
{{if .Questionnaire.RequireContact}}{{template "contact" .}}{{end}}
{{with .Error "submit"}}<div class="error">{{.}}</div>{{end}}
<button type="submit">{{if eq .Lang "he"}}שליחה{{else}}Submit{{end}}</button>
</form>
</main>
</body>
</html>

{{define "control_text"}}<input type="text" id="a.{{.Q.ID}}" name="a.{{.Q.ID}}" value="{{(.Page.Value .Q.ID).Value}}"{{with .Q.Placeholder}} placeholder="{{.}}"{{end}}>{{end}}

{{define "control_textarea"}}<textarea id="a.{{.Q.ID}}" name="a.{{.Q.ID}}" rows="4"{{with .Q.Placeholder}} placeholder="{{.}}"{{end}}>{{(.Page.Value .Q.ID).Value}}</textarea>{{end}}

{{define "control_number"}}<input type="number" id="a.{{.Q.ID}}" name="a.{{.Q.ID}}" value="{{(.Page.Value .Q.ID).Value}}"{{with .Q.Min}} min="{{.}}"{{end}}{{with .Q.Max}} max="{{.}}"{{end}}{{with .Q.Placeholder}} placeholder="{{.}}"{{end}}>{{end}}

{{define "control_select"}}{{$d := .}}<select id="a.{{.Q.ID}}" name="a.{{.Q.ID}}">
<option value=""></option>
{{range .Q.Options}}<option value="{{.Value}}"{{if $d.Page.Checked $d.Q.ID .Value}} selected{{end}}>{{.Label}}</option>
{{end}}</select>{{end}}

{{define "control_radio"}}{{$d := .}}{{range .Q.Options}}<label><input type="radio" name="a.{{$d.Q.ID}}" value="{{.Value}}"{{if $d.Page.Checked $d.Q.ID .Value}} checked{{end}}> {{.Label}}</label><br>
{{end}}{{end}}

{{define "control_checkbox"}}{{$d := .}}{{range .Q.Options}}<label><input type="checkbox" name="a.{{$d.Q.ID}}" value="{{.Value}}"{{if $d.Page.Checked $d.Q.ID .Value}} checked{{end}}> {{.Label}}</label><br>
{{end}}{{end}}

{{define "contact"}}
<div class="question">
<label class="q">{{if eq .Lang "he"}}פרטי התקשרות{{else}}Contact details{{end}} <span class="required">*</span></label>
<input type="text" name="name" placeholder="{{if eq .Lang "he"}}שם{{else}}Name{{end}}">
<input type="email" name="email" placeholder="{{if eq .Lang "he"}}אימייל{{else}}Email{{end}}">
<input type="tel" name="phone" placeholder="{{if eq .Lang "he"}}טלפון{{else}}Phone{{end}}">
{{with .Error "contact"}}<div class="error">{{.}}</div>{{end}}
</div>
{{end}}

{{define "not_found"}}<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head><meta charset="utf-8"><title>{{.Questionnaire.Title}}</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 15vh">
<h1>{{.Questionnaire.Title}}</h1>
<p>{{.Questionnaire.Description}}</p>
</body>
</html>{{end}}

{{define "confirmation"}}<!DOCTYPE html>
<html lang="{{.Lang}}" dir="{{.Dir}}">
<head><meta charset="utf-8"><title>{{.Questionnaire.Title}}</title>
<style>:root { {{.Style.CSSVars}} } h1 { color: var(--lf-primary); }</style></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding-top: 15vh">
<h1>{{if eq .Lang "he"}}תודה!{{else}}Thank you!{{end}}</h1>
<p>{{if eq .Lang "he"}}התשובות נשלחו בהצלחה.{{else}}Your answers were submitted successfully.{{end}}</p>
</body>
</html>{{end}}`
