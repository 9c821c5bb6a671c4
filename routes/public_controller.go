package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/eyalbz/leadform/branding"
	"github.com/eyalbz/leadform/form"
	"github.com/eyalbz/leadform/httpx"
	"github.com/eyalbz/leadform/log"
	"github.com/eyalbz/leadform/model"
	"github.com/eyalbz/leadform/public"
	"github.com/eyalbz/leadform/submit"
	"github.com/eyalbz/leadform/utils"
)

// PublicService is what the respondent-facing handlers need from the data
// service. Narrow by design: tests substitute a fake.
type PublicService interface {
	public.DataService
	submit.Sender
}

// pageParams reads the attribution query parameters of a public URL. All are
// optional and never required for correct rendering.
func pageParams(r *http.Request) (model.Lang, model.Channel, string) {
	q := r.URL.Query()
	ch := q.Get("ch")
	if ch == "" {
		ch = q.Get("channel")
	}
	return model.ParseLang(q.Get("lang")), model.ParseChannel(ch), q.Get("ref")
}

// QuestionnairePage serves the rendered public questionnaire.
func QuestionnairePage(svc PublicService) http.HandlerFunc {
	resolver := public.NewResolver(svc)

	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		lang, channel, ref := pageParams(r)

		resolved, err := resolver.Resolve(r.Context(), token)
		if errors.Is(err, model.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			form.RenderNotFound(w, lang)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "public.get_page", err)
			return
		}

		page := form.Page{
			Questionnaire: resolved.Questionnaire,
			Style:         branding.Apply(resolved.Branding),
			Lang:          lang,
			Channel:       channel,
			Ref:           ref,
		}
		if err := form.Render(w, page); err != nil {
			log.Errorf("public.render_page: %s", err)
		}
	}
}

// SubmitPage handles the rendered form posting back to its own URL. On
// validation failure the page is re-rendered with field-scoped errors and the
// entered values intact; on success the terminal confirmation page is shown.
func SubmitPage(svc PublicService) http.HandlerFunc {
	resolver := public.NewResolver(svc)

	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		lang, channel, ref := pageParams(r)

		resolved, err := resolver.Resolve(r.Context(), token)
		if errors.Is(err, model.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			form.RenderNotFound(w, lang)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "public.submit_page", err)
			return
		}

		posted, err := form.DecodeRequest(r, resolved.Questionnaire.Questions)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "public.submit_page.parse_body")
			return
		}
		if posted.Lang != "" {
			lang = posted.Lang
		}
		if posted.Channel != "" {
			channel = posted.Channel
		}
		if posted.Ref != "" {
			ref = posted.Ref
		}
		posted.Contact.Phone = utils.NormalizePhone(posted.Contact.Phone)

		page := form.Page{
			Questionnaire: resolved.Questionnaire,
			Style:         branding.Apply(resolved.Branding),
			Lang:          lang,
			Channel:       channel,
			Ref:           ref,
			Values:        posted.Answers,
		}

		pipeline := submit.New(svc)
		_, err = pipeline.Submit(r.Context(), resolved.Questionnaire, model.Submission{
			Token:    token,
			Answers:  posted.Answers,
			Contact:  posted.Contact,
			Lang:     lang,
			Channel:  channel,
			Ref:      ref,
			RemoteIP: remoteIP(r),
		})

		var verr *submit.ValidationError
		switch {
		case errors.As(err, &verr):
			page.Errors = map[string]string{}
			for _, f := range verr.Fields {
				page.Errors[f.Field] = f.Reason
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			form.Render(w, page)
		case err != nil:
			log.Errorf("public.submit_page.submit: %s", err)
			page.Errors = map[string]string{"submit": "Submission failed, please try again."}
			w.WriteHeader(http.StatusBadGateway)
			form.Render(w, page)
		default:
			form.RenderConfirmation(w, page)
		}
	}
}

// PublicGetQuestionnaire serves the canonical questionnaire JSON consumed by
// embedded clients.
func PublicGetQuestionnaire(svc PublicService) http.HandlerFunc {
	resolver := public.NewResolver(svc)

	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		resolved, err := resolver.Resolve(r.Context(), token)
		if errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "public.get_questionnaire", token)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "public.get_questionnaire", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"questionnaire": resolved.Questionnaire,
			"branding":      resolved.Branding,
		})
	}
}

// PublicSubmit is the submission RPC behind the embedded client: validates,
// stores, and answers with the assigned response id.
func PublicSubmit(svc PublicService) http.HandlerFunc {
	resolver := public.NewResolver(svc)

	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		resolved, err := resolver.Resolve(r.Context(), token)
		if errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "public.submit", token)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "public.submit", err)
			return
		}

		posted, err := form.DecodeRequest(r, resolved.Questionnaire.Questions)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "public.submit.parse_body")
			return
		}
		posted.Contact.Phone = utils.NormalizePhone(posted.Contact.Phone)

		pipeline := submit.New(svc)
		id, err := pipeline.Submit(r.Context(), resolved.Questionnaire, model.Submission{
			Token:    token,
			Answers:  posted.Answers,
			Contact:  posted.Contact,
			Lang:     posted.Lang,
			Channel:  posted.Channel,
			Ref:      posted.Ref,
			RemoteIP: remoteIP(r),
		})

		var verr *submit.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.RenderValidationError(w, r, verr)
		case err != nil:
			log.Errorf("public.submit.store: %s", err)
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]any{"error": "submit failed", "retryable": true})
		default:
			render.Status(r, http.StatusCreated)
			render.JSON(w, r, map[string]any{"id": id})
		}
	}
}

func remoteIP(r *http.Request) string {
	return strings.Split(r.RemoteAddr, ":")[0]
}
