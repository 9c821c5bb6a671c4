package submit

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/eyalbz/leadform/model"
)

type fakeSender struct {
	calls   int
	lastSub model.Submission
	err     error
	block   chan struct{}
}

func (f *fakeSender) SubmitResponse(ctx context.Context, sub model.Submission) (string, error) {
	f.calls++
	f.lastSub = sub
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return "resp-1", nil
}

func questionnaire(required bool) model.Questionnaire {
	return model.Questionnaire{
		Title: "Intake",
		Questions: []model.Question{
			{ID: "q1", Label: "Name?", Type: model.TypeText, Required: required, Options: []model.Option{}},
		},
	}
}

func TestSubmitHappyPath(t *testing.T) {
	sender := &fakeSender{}
	p := New(sender)

	answers := model.AnswerMap{}
	answers.Set("q1", "hello")

	id, err := p.Submit(context.Background(), questionnaire(true), model.Submission{
		Token:   "abc123",
		Answers: answers,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if id != "resp-1" {
		t.Errorf("response id = %q", id)
	}
	if sender.calls != 1 {
		t.Errorf("SubmitResponse calls = %d, want exactly 1", sender.calls)
	}
	if got := sender.lastSub.Answers["q1"].Value; got != "hello" {
		t.Errorf("submitted answer = %q, want hello", got)
	}
	if p.State() != StateSucceeded {
		t.Errorf("state = %v, want Succeeded", p.State())
	}
}

func TestSubmitRequiredGate(t *testing.T) {
	sender := &fakeSender{}
	p := New(sender)

	_, err := p.Submit(context.Background(), questionnaire(true), model.Submission{
		Token:   "abc123",
		Answers: model.AnswerMap{},
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "q1" {
		t.Errorf("validation fields = %+v, want one error naming q1", verr.Fields)
	}
	if sender.calls != 0 {
		t.Errorf("SubmitResponse calls = %d, want zero on validation failure", sender.calls)
	}
	if p.State() != StateIdle {
		t.Errorf("state = %v, want back to Idle", p.State())
	}
}

func TestSubmitEmptyAnswerCountsAsAbsent(t *testing.T) {
	sender := &fakeSender{}
	p := New(sender)

	answers := model.AnswerMap{}
	answers.Set("q1", "")

	_, err := p.Submit(context.Background(), questionnaire(true), model.Submission{Answers: answers})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("empty string should fail the required gate, got %v", err)
	}
	if sender.calls != 0 {
		t.Errorf("SubmitResponse calls = %d, want zero", sender.calls)
	}
}

func TestSubmitContactGate(t *testing.T) {
	sender := &fakeSender{}
	p := New(sender)

	q := questionnaire(false)
	q.RequireContact = true

	_, err := p.Submit(context.Background(), q, model.Submission{
		Answers: model.AnswerMap{},
		Contact: model.Contact{Name: "Dana"},
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != ContactField {
		t.Errorf("validation fields = %+v, want one contact error", verr.Fields)
	}
	if sender.calls != 0 {
		t.Errorf("SubmitResponse calls = %d, want zero before contact is provided", sender.calls)
	}
}

func TestSubmitFailureIsRetryable(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection reset")}
	p := New(sender)

	answers := model.AnswerMap{}
	answers.Set("q1", "hello")
	sub := model.Submission{Token: "abc123", Answers: answers}

	_, err := p.Submit(context.Background(), questionnaire(true), sub)
	var serr *SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("Submit() error = %v, want SubmitError", err)
	}
	if p.State() != StateIdle {
		t.Fatalf("state after failure = %v, want Idle for retry", p.State())
	}

	// same answers, second attempt succeeds
	sender.err = nil
	id, err := p.Submit(context.Background(), questionnaire(true), sub)
	if err != nil || id != "resp-1" {
		t.Fatalf("retry = (%q, %v), want success", id, err)
	}
	if sender.calls != 2 {
		t.Errorf("SubmitResponse calls = %d, want 2", sender.calls)
	}
}

func TestSubmitTerminalAfterSuccess(t *testing.T) {
	sender := &fakeSender{}
	p := New(sender)

	answers := model.AnswerMap{}
	answers.Set("q1", "hello")
	sub := model.Submission{Token: "abc123", Answers: answers}

	if _, err := p.Submit(context.Background(), questionnaire(true), sub); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Submit(context.Background(), questionnaire(true), sub); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit = %v, want ErrAlreadySubmitted", err)
	}
	if sender.calls != 1 {
		t.Errorf("SubmitResponse calls = %d, want 1", sender.calls)
	}
}

func TestSubmitDuplicateClickGuard(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	p := New(sender)

	answers := model.AnswerMap{}
	answers.Set("q1", "hello")
	sub := model.Submission{Token: "abc123", Answers: answers}

	firstDone := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), questionnaire(true), sub)
		firstDone <- err
	}()

	// wait for the first submit to reach the sender
	for p.State() != StateSubmitting {
		runtime.Gosched()
	}

	if _, err := p.Submit(context.Background(), questionnaire(true), sub); !errors.Is(err, ErrInFlight) {
		t.Errorf("concurrent submit = %v, want ErrInFlight", err)
	}

	close(sender.block)
	if err := <-firstDone; err != nil {
		t.Errorf("first submit = %v, want success", err)
	}
	if sender.calls != 1 {
		t.Errorf("SubmitResponse calls = %d, want 1", sender.calls)
	}
}

func TestValidateMultipleMissingFields(t *testing.T) {
	q := model.Questionnaire{
		RequireContact: true,
		Questions: []model.Question{
			{ID: "q1", Type: model.TypeText, Required: true},
			{ID: "q2", Type: model.TypeCheckbox, Required: true},
			{ID: "q3", Type: model.TypeText, Required: false},
		},
	}

	verr := Validate(q, model.AnswerMap{}, model.Contact{})
	if verr == nil {
		t.Fatal("Validate() = nil, want errors")
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("fields = %+v, want q1, q2 and contact", verr.Fields)
	}
	for i, want := range []string{"q1", "q2", ContactField} {
		if verr.Fields[i].Field != want {
			t.Errorf("fields[%d] = %q, want %q", i, verr.Fields[i].Field, want)
		}
	}
}
