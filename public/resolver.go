// Package public implements the respondent-facing side of a questionnaire:
// resolving an opaque share token to its questionnaire and branding, and
// building the public URLs and embed snippets that carry such tokens.
package public

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/eyalbz/leadform/model"
	"github.com/eyalbz/leadform/schema"
)

// DataService is the read side of the backing data service as seen from the
// public path. Implementations must return model.ErrNotFound when the token
// does not resolve to a published questionnaire.
type DataService interface {
	GetPublicBranding(ctx context.Context, token string) (model.Branding, error)
	GetPublicQuestionnaire(ctx context.Context, token string) (schema.Raw, error)
}

// Resolved is the complete public view for one token: the canonical
// questionnaire and its raw branding. Either everything resolved or nothing
// did; there is no partial-render state.
type Resolved struct {
	Questionnaire model.Questionnaire
	Branding      model.Branding
}

type Resolver struct {
	ds DataService
}

func NewResolver(ds DataService) *Resolver {
	return &Resolver{ds: ds}
}

// Resolve issues the branding and questionnaire lookups concurrently and
// waits for both to settle before returning. The two lookups are independent
// and may finish in either order. Cancelling ctx abandons both: a result
// arriving after cancellation is discarded, never applied.
func (r *Resolver) Resolve(ctx context.Context, token string) (Resolved, error) {
	if token == "" {
		return Resolved{}, model.ErrNotFound
	}

	var (
		brand model.Branding
		raw   schema.Raw
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		brand, err = r.ds.GetPublicBranding(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		raw, err = r.ds.GetPublicQuestionnaire(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return Resolved{}, err
	}
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}

	q := schema.Normalize(raw)
	q.PublicToken = token
	q.Branding = brand
	return Resolved{Questionnaire: q, Branding: brand}, nil
}
