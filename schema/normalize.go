// Package schema converts the heterogeneous raw questionnaire shapes stored
// by older builder versions into the one canonical form the public renderer
// dispatches on. Field names drifted across schema generations
// (question_text/text/label, is_required/required/isRequired, options as bare
// strings or value/label pairs); all of that is absorbed here, in one place,
// instead of leaking fallback chains into rendering code.
package schema

import (
	"fmt"
	"strconv"

	"github.com/eyalbz/leadform/log"
	"github.com/eyalbz/leadform/model"
)

// Raw is a questionnaire record as decoded from the data service, before any
// shape guarantees hold.
type Raw map[string]any

// Normalize maps a raw questionnaire to the canonical model. It never fails:
// missing fields fall back to safe defaults, unknown question types are
// coerced to text so the question count always matches what the owner
// configured. RequireContact defaults to true when absent, since asking for
// contact is preferable to silently losing a lead.
func Normalize(raw Raw) model.Questionnaire {
	q := model.Questionnaire{
		Title:          stringAt(raw, "title", "name"),
		Description:    stringAt(raw, "description", "desc"),
		RequireContact: boolAt(raw, true, "require_contact", "requireContact"),
		Questions:      []model.Question{},
	}

	if id, ok := intAt(raw, "id"); ok {
		q.ID = id
	}

	rawQuestions, _ := raw["questions"].([]any)
	for i, rq := range rawQuestions {
		m, ok := rq.(map[string]any)
		if !ok {
			log.Warnf("schema.normalize: question %d is not an object (%T), skipping", i, rq)
			continue
		}
		q.Questions = append(q.Questions, normalizeQuestion(m, i))
	}

	return q
}

// NormalizeQuestion maps one raw question record to its canonical shape.
// Post-conditions: Type is always one of the six known tags, Options is never
// nil, Label is never null (empty string at worst).
func NormalizeQuestion(raw map[string]any) model.Question {
	return normalizeQuestion(raw, 0)
}

func normalizeQuestion(raw map[string]any, idx int) model.Question {
	q := model.Question{
		ID:          questionID(raw, idx),
		Label:       stringAt(raw, "question_text", "text", "label"),
		Required:    boolAt(raw, false, "is_required", "required", "isRequired"),
		Placeholder: stringAt(raw, "placeholder"),
		Options:     []model.Option{},
	}

	typ := model.QuestionType(stringAt(raw, "type", "question_type"))
	if !typ.Known() {
		if typ != "" {
			log.Debugf("schema.normalize: unknown question type %q on %s, coercing to text", typ, q.ID)
		}
		typ = model.TypeText
	}
	q.Type = typ

	if q.Type.HasOptions() {
		q.Options = NormalizeOptions(raw["options"])
	}
	if q.Type == model.TypeNumber {
		q.Min = floatAt(raw, "min")
		q.Max = floatAt(raw, "max")
	}

	return q
}

// NormalizeOptions accepts both historical option shapes, a bare string list
// and a list of value/label objects, and always emits value/label pairs. For
// a bare string, value and label are that string.
func NormalizeOptions(v any) []model.Option {
	opts := []model.Option{}
	list, ok := v.([]any)
	if !ok {
		if v != nil {
			log.Debugf("schema.normalize: options have unexpected shape %T", v)
		}
		return opts
	}

	for _, o := range list {
		switch o := o.(type) {
		case string:
			opts = append(opts, model.Option{Value: o, Label: o})
		case map[string]any:
			opt := model.Option{
				Value: stringAt(o, "value"),
				Label: stringAt(o, "label", "text"),
			}
			if opt.Value == "" {
				opt.Value = opt.Label
			}
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			if opt.Value != "" {
				opts = append(opts, opt)
			}
		default:
			log.Debugf("schema.normalize: option has unexpected shape %T", o)
		}
	}
	return opts
}

func questionID(raw map[string]any, idx int) string {
	if id := stringAt(raw, "id"); id != "" {
		return id
	}
	if id, ok := intAt(raw, "id"); ok {
		return strconv.Itoa(id)
	}
	return fmt.Sprintf("q%d", idx+1)
}

// stringAt returns the first key holding a non-empty string.
func stringAt(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// boolAt returns the first key holding a boolean, else def. Numeric 0/1 are
// accepted too: some schema generations stored flags as integers.
func boolAt(raw map[string]any, def bool, keys ...string) bool {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case bool:
			return v
		case float64:
			return v != 0
		}
	}
	return def
}

func intAt(raw map[string]any, key string) (int, bool) {
	switch v := raw[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func floatAt(raw map[string]any, key string) *float64 {
	switch v := raw[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}
