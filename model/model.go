package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned by data service lookups when a token or id does not
// resolve to a published questionnaire.
var ErrNotFound = errors.New("not found")

// QuestionType is the closed set of control types the public renderer knows
// how to draw. Anything else coming out of storage is coerced to TypeText
// during normalization, so downstream code can switch on it exhaustively.
type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeTextarea QuestionType = "textarea"
	TypeSelect   QuestionType = "select"
	TypeRadio    QuestionType = "radio"
	TypeCheckbox QuestionType = "checkbox"
	TypeNumber   QuestionType = "number"
)

var questionTypes = map[QuestionType]bool{
	TypeText:     true,
	TypeTextarea: true,
	TypeSelect:   true,
	TypeRadio:    true,
	TypeCheckbox: true,
	TypeNumber:   true,
}

func (t QuestionType) Known() bool {
	return questionTypes[t]
}

// HasOptions reports whether controls of this type carry an option list.
func (t QuestionType) HasOptions() bool {
	return t == TypeSelect || t == TypeRadio || t == TypeCheckbox
}

// Multi reports whether answers for this type are a list rather than a scalar.
func (t QuestionType) Multi() bool {
	return t == TypeCheckbox
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Options     []Option     `json:"options"`
	Min         *float64     `json:"min,omitempty"`
	Max         *float64     `json:"max,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

type Branding struct {
	PrimaryColor string `json:"primaryColor"`
	LogoURL      string `json:"logoUrl"`
}

type Questionnaire struct {
	ID             int        `json:"id,omitempty"`
	Version        int        `json:"version,omitempty"`
	PublicToken    string     `json:"publicToken,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RequireContact bool       `json:"requireContact"`
	Published      bool       `json:"published,omitempty"`
	Branding       Branding   `json:"branding"`
	Questions      []Question `json:"questions"`
}

// Contact is the respondent identification block collected alongside answers
// when the questionnaire demands it.
type Contact struct {
	Name  string `json:"name,omitempty" form:"name"`
	Email string `json:"email,omitempty" form:"email"`
	Phone string `json:"phone,omitempty" form:"phone"`
}

// Identified reports whether the contact carries at least one identifying
// field. A bare name is not enough to follow up on a lead.
func (c Contact) Identified() bool {
	return c.Email != "" || c.Phone != ""
}

// Submission is the one-shot payload sent to the data service. It is built
// client-side, sent once, and never mutated afterwards.
type Submission struct {
	Token    string    `json:"token"`
	Answers  AnswerMap `json:"answers"`
	Contact  Contact   `json:"contact"`
	Lang     Lang      `json:"lang"`
	Channel  Channel   `json:"channel"`
	Ref      string    `json:"ref,omitempty"`
	RemoteIP string    `json:"-"`
}

// Lead is a stored response joined with its contact block, as listed and
// exported on the owner side.
type Lead struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Contact Contact   `json:"contact"`
	Lang    Lang      `json:"lang"`
	Channel Channel   `json:"channel"`
	Ref     string    `json:"ref,omitempty"`
	Answers AnswerMap `json:"answers"`
}
