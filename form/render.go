// Package form renders a canonical question list as an HTML form and decodes
// posted answers back into an answer map. Rendering dispatches on the closed
// question type set; the normalizer guarantees nothing else reaches it, and
// anything else is an error rather than a silently missing control.
package form

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/eyalbz/leadform/branding"
	"github.com/eyalbz/leadform/model"
)

// Page is everything one public questionnaire render needs.
type Page struct {
	Questionnaire model.Questionnaire
	Style         branding.Style
	Lang          model.Lang
	Channel       model.Channel
	Ref           string
	// Errors maps question ids (or submit.ContactField) to a reason, for
	// re-rendering after a failed validation.
	Errors map[string]string
	// Values carries previously entered answers so nothing is lost on
	// re-render.
	Values model.AnswerMap
}

func (p Page) Dir() string {
	if p.Lang.RTL() {
		return "rtl"
	}
	return "ltr"
}

func (p Page) Error(field string) string {
	return p.Errors[field]
}

func (p Page) Value(questionID string) model.Answer {
	return p.Values[questionID]
}

// Checked reports whether an option value is part of the current answer.
func (p Page) Checked(questionID, value string) bool {
	a := p.Values[questionID]
	if a.Multi {
		for _, v := range a.Values {
			if v == value {
				return true
			}
		}
		return false
	}
	return a.Value == value
}

// controlName selects the sub-template for a question type. The switch is
// exhaustive over the six renderable types; an unknown type is an error, not
// an empty control.
func controlName(t model.QuestionType) (string, error) {
	switch t {
	case model.TypeText:
		return "control_text", nil
	case model.TypeTextarea:
		return "control_textarea", nil
	case model.TypeSelect:
		return "control_select", nil
	case model.TypeRadio:
		return "control_radio", nil
	case model.TypeCheckbox:
		return "control_checkbox", nil
	case model.TypeNumber:
		return "control_number", nil
	}
	return "", fmt.Errorf("form: unrenderable question type %q", t)
}

var pageTemplate *template.Template

func init() {
	pageTemplate = template.New("page")
	pageTemplate.Funcs(template.FuncMap{
		"control": func(page Page, q model.Question) (template.HTML, error) {
			name, err := controlName(q.Type)
			if err != nil {
				return "", err
			}
			var buf bytes.Buffer
			err = pageTemplate.ExecuteTemplate(&buf, name, controlData{Page: page, Q: q})
			return template.HTML(buf.String()), err
		},
	})
	template.Must(pageTemplate.Parse(pageHTML))
}

type controlData struct {
	Page Page
	Q    model.Question
}

// Render writes the full public questionnaire page.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

// RenderNotFound writes the dedicated page for tokens that do not resolve.
// There is no retry affordance: from the respondent's side the resource does
// not exist.
func RenderNotFound(w io.Writer, lang model.Lang) error {
	title, msg := "Questionnaire not found", "The link you followed does not exist or is no longer available."
	if lang == model.LangHebrew {
		title, msg = "השאלון לא נמצא", "הקישור שפתחת אינו קיים או שאינו זמין עוד."
	}
	return pageTemplate.ExecuteTemplate(w, "not_found", Page{Lang: lang, Questionnaire: model.Questionnaire{
		Title:       title,
		Description: msg,
	}})
}

// RenderConfirmation writes the terminal thank-you page after a successful
// submission.
func RenderConfirmation(w io.Writer, page Page) error {
	return pageTemplate.ExecuteTemplate(w, "confirmation", page)
}
