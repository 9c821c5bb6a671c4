package form

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eyalbz/leadform/branding"
	"github.com/eyalbz/leadform/model"
)

func renderToString(t *testing.T, page Page) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, page); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func testPage() Page {
	return Page{
		Questionnaire: model.Questionnaire{
			Title:       "Intake",
			Description: "Tell us about you",
			Questions: []model.Question{
				{ID: "q1", Label: "Name?", Type: model.TypeText, Required: true, Options: []model.Option{}},
				{ID: "q2", Label: "Notes", Type: model.TypeTextarea, Options: []model.Option{}},
				{ID: "q3", Label: "City", Type: model.TypeSelect, Options: []model.Option{{Value: "tlv", Label: "Tel Aviv"}, {Value: "jlm", Label: "Jerusalem"}}},
				{ID: "q4", Label: "Plan", Type: model.TypeRadio, Options: []model.Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}},
				{ID: "q5", Label: "Extras", Type: model.TypeCheckbox, Options: []model.Option{{Value: "x", Label: "X"}, {Value: "y", Label: "Y"}}},
				{ID: "q6", Label: "Budget", Type: model.TypeNumber, Options: []model.Option{}},
			},
		},
		Style: branding.Apply(model.Branding{PrimaryColor: "#ff0000"}),
		Lang:  model.LangEnglish,
	}
}

func TestRenderOneControlPerType(t *testing.T) {
	html := renderToString(t, testPage())

	for _, want := range []string{
		`<input type="text" id="a.q1" name="a.q1"`,
		`<textarea id="a.q2" name="a.q2"`,
		`<select id="a.q3" name="a.q3"`,
		`<input type="radio" name="a.q4" value="a"`,
		`<input type="checkbox" name="a.q5" value="x"`,
		`<input type="number" id="a.q6" name="a.q6"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderRequiredMarkAndBranding(t *testing.T) {
	html := renderToString(t, testPage())

	if !strings.Contains(html, `<span class="required">*</span>`) {
		t.Error("required question should carry an asterisk")
	}
	if !strings.Contains(html, "--lf-primary: #ff0000;") {
		t.Error("branding CSS variable missing")
	}
	if !strings.Contains(html, `dir="ltr"`) {
		t.Error("English page should be ltr")
	}
}

func TestRenderSelectHasUnselectedState(t *testing.T) {
	html := renderToString(t, testPage())
	// the empty option represents "nothing selected", distinct from any real option
	if !strings.Contains(html, `<option value=""></option>`) {
		t.Error("select should render an empty unselected option")
	}
}

func TestRenderKeepsEnteredValues(t *testing.T) {
	page := testPage()
	page.Values = model.AnswerMap{}
	page.Values.Set("q1", "Dana")
	page.Values.Set("q4", "b")
	page.Values.Toggle("q5", "y")

	html := renderToString(t, page)
	if !strings.Contains(html, `value="Dana"`) {
		t.Error("text value lost on re-render")
	}
	if !strings.Contains(html, `name="a.q4" value="b" checked`) {
		t.Error("radio selection lost on re-render")
	}
	if !strings.Contains(html, `name="a.q5" value="y" checked`) {
		t.Error("checkbox selection lost on re-render")
	}
	if strings.Contains(html, `name="a.q5" value="x" checked`) {
		t.Error("unchecked checkbox option should not be checked")
	}
}

func TestRenderFieldScopedErrors(t *testing.T) {
	page := testPage()
	page.Errors = map[string]string{"q1": "required"}

	html := renderToString(t, page)
	if !strings.Contains(html, `<div class="error">required</div>`) {
		t.Error("field error missing from re-render")
	}
}

func TestRenderContactBlock(t *testing.T) {
	page := testPage()
	page.Questionnaire.RequireContact = true

	html := renderToString(t, page)
	for _, want := range []string{`name="name"`, `name="email"`, `name="phone"`} {
		if !strings.Contains(html, want) {
			t.Errorf("contact block missing %q", want)
		}
	}
}

func TestRenderRejectsUnknownType(t *testing.T) {
	page := testPage()
	page.Questionnaire.Questions = []model.Question{
		{ID: "q1", Label: "?", Type: "mystery", Options: []model.Option{}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, page); err == nil {
		t.Error("unknown type should fail rendering, not draw nothing")
	}
}

func TestRenderNotFound(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderNotFound(&buf, model.LangEnglish); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Questionnaire not found") {
		t.Errorf("not found page = %q", buf.String())
	}
}

func TestRenderHebrewIsRTL(t *testing.T) {
	page := testPage()
	page.Lang = model.LangHebrew

	if !strings.Contains(renderToString(t, page), `dir="rtl"`) {
		t.Error("Hebrew page should be rtl")
	}
}
