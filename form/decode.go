package form

import (
	"net/http"
	"net/url"
	"strings"

	ajgform "github.com/ajg/form"
	"github.com/go-chi/render"

	"github.com/eyalbz/leadform/model"
)

// answerPrefix namespaces posted answer inputs: one "a.<question id>" entry
// per control, repeated entries for checkbox groups.
const answerPrefix = "a."

// Posted is a decoded public submission request, before validation.
type Posted struct {
	Answers model.AnswerMap
	Contact model.Contact
	Lang    model.Lang
	Channel model.Channel
	Ref     string
}

type jsonBody struct {
	Answers model.AnswerMap `json:"answers"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Lang    string          `json:"lang"`
	Channel string          `json:"channel"`
	Ref     string          `json:"ref"`
}

type formBody struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	Lang    string `form:"lang"`
	Channel string `form:"channel"`
	Ref     string `form:"ref"`
}

// DecodeRequest reads a submission from either wire shape: the JSON body the
// embedded client posts, or the urlencoded body the rendered HTML form posts.
// Questions decide the answer shape: multi-select questions get list answers,
// everything else scalars.
func DecodeRequest(r *http.Request, questions []model.Question) (Posted, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return decodeJSON(r)
	}
	return decodeForm(r, questions)
}

func decodeJSON(r *http.Request) (Posted, error) {
	var body jsonBody
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		return Posted{}, err
	}
	answers := body.Answers
	if answers == nil {
		answers = model.AnswerMap{}
	}
	return Posted{
		Answers: answers,
		Contact: model.Contact{Name: body.Name, Email: body.Email, Phone: body.Phone},
		Lang:    model.ParseLang(body.Lang),
		Channel: model.ParseChannel(body.Channel),
		Ref:     body.Ref,
	}, nil
}

func decodeForm(r *http.Request, questions []model.Question) (Posted, error) {
	if err := r.ParseForm(); err != nil {
		return Posted{}, err
	}

	var body formBody
	dec := ajgform.NewDecoder(strings.NewReader(r.PostForm.Encode()))
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&body); err != nil {
		return Posted{}, err
	}

	return Posted{
		Answers: ParseAnswerValues(r.PostForm, questions),
		Contact: model.Contact{Name: body.Name, Email: body.Email, Phone: body.Phone},
		Lang:    model.ParseLang(body.Lang),
		Channel: model.ParseChannel(body.Channel),
		Ref:     body.Ref,
	}, nil
}

// ParseAnswerValues collects "a.<id>" form entries into an answer map.
// Untouched controls post empty strings; those stay out of the map so that
// "unanswered" remains distinct from "answered with empty".
func ParseAnswerValues(values url.Values, questions []model.Question) model.AnswerMap {
	multi := make(map[string]bool, len(questions))
	for _, q := range questions {
		multi[q.ID] = q.Type.Multi()
	}

	answers := model.AnswerMap{}
	for key, vs := range values {
		if !strings.HasPrefix(key, answerPrefix) {
			continue
		}
		id := key[len(answerPrefix):]

		if multi[id] {
			for _, v := range vs {
				if v != "" {
					answers.Toggle(id, v)
				}
			}
			continue
		}
		if len(vs) > 0 && vs[0] != "" {
			answers.Set(id, vs[0])
		}
	}
	return answers
}
