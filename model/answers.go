package model

import "encoding/json"

// Answer holds one respondent answer. A checkbox question stores a value
// list, every other type a single string (numbers travel as strings too,
// the way form inputs produce them).
type Answer struct {
	Value  string
	Values []string
	Multi  bool
}

// Empty reports whether the answer counts as "not given" for required-field
// validation. An empty string and an empty list are both absent.
func (a Answer) Empty() bool {
	if a.Multi {
		return len(a.Values) == 0
	}
	return a.Value == ""
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		vs := a.Values
		if vs == nil {
			vs = []string{}
		}
		return json.Marshal(vs)
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts both wire shapes: a bare string for scalar answers
// and a string array for multi-select answers.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Answer{Value: s}
		return nil
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	*a = Answer{Values: vs, Multi: true}
	return nil
}

// AnswerMap maps question ids to the respondent's current answers. Keys are
// added lazily as controls are touched: a missing key means "unanswered",
// which is not the same as an explicit empty value.
type AnswerMap map[string]Answer

// Set replaces the scalar answer for a question (text, textarea, select,
// radio, number controls).
func (m AnswerMap) Set(questionID, value string) {
	m[questionID] = Answer{Value: value}
}

// Toggle flips membership of value in a checkbox question's answer list.
// Toggling the same value twice restores the prior state.
func (m AnswerMap) Toggle(questionID, value string) {
	a := m[questionID]
	a.Multi = true
	for i, v := range a.Values {
		if v == value {
			a.Values = append(a.Values[:i:i], a.Values[i+1:]...)
			m[questionID] = a
			return
		}
	}
	a.Values = append(a.Values, value)
	m[questionID] = a
}

// Answered reports whether the question has a present, non-empty answer.
func (m AnswerMap) Answered(questionID string) bool {
	a, ok := m[questionID]
	return ok && !a.Empty()
}
