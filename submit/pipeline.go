// Package submit validates and delivers questionnaire responses. Validation
// failures stay local and never reach the data service; delivery failures are
// retryable with the answer map intact.
package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/atomic"

	"github.com/eyalbz/leadform/model"
)

// Sender is the write side of the backing data service.
type Sender interface {
	SubmitResponse(ctx context.Context, sub model.Submission) (responseID string, err error)
}

// State models the pipeline lifecycle:
// Idle -> Validating -> (Invalid -> Idle | Submitting -> (Succeeded | Failed -> Idle)).
// Succeeded is terminal; Failed returns control to Idle for retry.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
)

// ErrInFlight rejects a duplicate submit while a previous one has not
// settled, guarding against rapid repeated clicks.
var ErrInFlight = errors.New("submission already in flight")

// ErrAlreadySubmitted rejects submits after the pipeline reached its terminal
// state. There is no edit-after-submit in this flow.
var ErrAlreadySubmitted = errors.New("response already submitted")

// FieldError scopes a validation failure to the field it belongs to, so the
// renderer can mark the control instead of showing a generic failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ContactField is the field name used for contact-block validation errors.
const ContactField = "contact"

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.Field
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// SubmitError wraps a data service or transport failure. It is retryable:
// the caller keeps its answer map and may submit again.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit failed: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Validate checks the local preconditions: every required question answered
// (empty string and empty list count as absent) and, when the questionnaire
// demands contact, at least one identifying contact field present. Pure, no
// network involvement.
func Validate(q model.Questionnaire, answers model.AnswerMap, contact model.Contact) *ValidationError {
	var fields []FieldError
	for _, question := range q.Questions {
		if question.Required && !answers.Answered(question.ID) {
			fields = append(fields, FieldError{Field: question.ID, Reason: "required"})
		}
	}
	if q.RequireContact && !contact.Identified() {
		fields = append(fields, FieldError{Field: ContactField, Reason: "contact required"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Pipeline carries one respondent session's submission through validation and
// delivery. It performs at most one successful data service call over its
// lifetime.
type Pipeline struct {
	sender Sender
	state  *atomic.Int32
}

func New(sender Sender) *Pipeline {
	return &Pipeline{sender: sender, state: atomic.NewInt32(int32(StateIdle))}
}

func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Submit runs the full pipeline for one user action. Exactly one
// SubmitResponse call is made per invocation that passes validation; a
// concurrent duplicate gets ErrInFlight, a submit after success gets
// ErrAlreadySubmitted. On failure the state returns to Idle and the same
// answers may be submitted again.
func (p *Pipeline) Submit(ctx context.Context, q model.Questionnaire, sub model.Submission) (string, error) {
	if State(p.state.Load()) == StateSucceeded {
		return "", ErrAlreadySubmitted
	}
	if !p.state.CAS(int32(StateIdle), int32(StateValidating)) {
		return "", ErrInFlight
	}

	if verr := Validate(q, sub.Answers, sub.Contact); verr != nil {
		p.state.Store(int32(StateIdle))
		return "", verr
	}

	p.state.Store(int32(StateSubmitting))
	id, err := p.sender.SubmitResponse(ctx, sub)
	if err != nil {
		p.state.Store(int32(StateIdle))
		return "", &SubmitError{Err: err}
	}

	p.state.Store(int32(StateSucceeded))
	return id, nil
}
