package public

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eyalbz/leadform/model"
	"github.com/eyalbz/leadform/schema"
)

type fakeDataService struct {
	branding     model.Branding
	brandingErr  error
	raw          schema.Raw
	rawErr       error
	brandingLag  time.Duration
	questionLag  time.Duration
	brandingDone int32
	questionDone int32
}

func (f *fakeDataService) GetPublicBranding(ctx context.Context, token string) (model.Branding, error) {
	if f.brandingLag > 0 {
		select {
		case <-time.After(f.brandingLag):
		case <-ctx.Done():
			return model.Branding{}, ctx.Err()
		}
	}
	atomic.AddInt32(&f.brandingDone, 1)
	return f.branding, f.brandingErr
}

func (f *fakeDataService) GetPublicQuestionnaire(ctx context.Context, token string) (schema.Raw, error) {
	if f.questionLag > 0 {
		select {
		case <-time.After(f.questionLag):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	atomic.AddInt32(&f.questionDone, 1)
	return f.raw, f.rawErr
}

func TestResolveHappyPath(t *testing.T) {
	ds := &fakeDataService{
		branding: model.Branding{PrimaryColor: "#ff0000", LogoURL: "https://cdn.example.com/logo.png"},
		raw: schema.Raw{
			"title": "Intake",
			"questions": []any{
				map[string]any{"id": "q1", "question_text": "Name?", "is_required": true, "type": "text"},
			},
		},
	}

	got, err := NewResolver(ds).Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Questionnaire.Title != "Intake" {
		t.Errorf("title = %q", got.Questionnaire.Title)
	}
	if got.Questionnaire.PublicToken != "abc123" {
		t.Errorf("token = %q", got.Questionnaire.PublicToken)
	}
	if len(got.Questionnaire.Questions) != 1 || got.Questionnaire.Questions[0].ID != "q1" {
		t.Errorf("questions = %+v", got.Questionnaire.Questions)
	}
	if got.Branding.PrimaryColor != "#ff0000" {
		t.Errorf("branding = %+v", got.Branding)
	}
}

func TestResolveNotFound(t *testing.T) {
	ds := &fakeDataService{
		branding: model.Branding{PrimaryColor: "#ff0000"},
		rawErr:   model.ErrNotFound,
	}

	_, err := NewResolver(ds).Resolve(context.Background(), "doesnotexist")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveEitherFailureIsTotal(t *testing.T) {
	ds := &fakeDataService{
		brandingErr: errors.New("branding query failed"),
		raw:         schema.Raw{"title": "Intake"},
	}

	if _, err := NewResolver(ds).Resolve(context.Background(), "abc123"); err == nil {
		t.Error("branding failure should fail the whole resolve, got nil")
	}
}

func TestResolveWaitsForBothLookups(t *testing.T) {
	ds := &fakeDataService{
		branding:    model.Branding{PrimaryColor: "#ff0000"},
		raw:         schema.Raw{"title": "Intake"},
		brandingLag: 30 * time.Millisecond,
	}

	_, err := NewResolver(ds).Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if atomic.LoadInt32(&ds.brandingDone) != 1 || atomic.LoadInt32(&ds.questionDone) != 1 {
		t.Error("Resolve returned before both lookups settled")
	}
}

func TestResolveCancelledContextDiscardsResult(t *testing.T) {
	ds := &fakeDataService{
		branding:    model.Branding{PrimaryColor: "#ff0000"},
		raw:         schema.Raw{"title": "Intake"},
		brandingLag: time.Second,
		questionLag: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(ds).Resolve(ctx, "abc123")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolveEmptyToken(t *testing.T) {
	ds := &fakeDataService{}
	if _, err := NewResolver(ds).Resolve(context.Background(), ""); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("empty token = %v, want ErrNotFound", err)
	}
}
