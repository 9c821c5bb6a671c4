package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/eyalbz/leadform/app"
	"github.com/eyalbz/leadform/database"
	"github.com/eyalbz/leadform/export"
	"github.com/eyalbz/leadform/httpx"
	"github.com/eyalbz/leadform/log"
	"github.com/eyalbz/leadform/model"
	"github.com/eyalbz/leadform/public"
	"github.com/eyalbz/leadform/schema"
)

// questionnaireBody is the owner-side write payload. Questions arrive as raw
// objects and run through the normalizer, so payloads from older builder
// clients (legacy field names, bare string options) are still accepted.
type questionnaireBody struct {
	Version        int              `json:"version"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	RequireContact *bool            `json:"requireContact"`
	Branding       model.Branding   `json:"branding"`
	Questions      []map[string]any `json:"questions"`
}

func (body questionnaireBody) toModel() model.Questionnaire {
	q := model.Questionnaire{
		Version:        body.Version,
		Title:          body.Title,
		Description:    body.Description,
		RequireContact: true,
		Branding:       body.Branding,
		Questions:      []model.Question{},
	}
	if body.RequireContact != nil {
		q.RequireContact = *body.RequireContact
	}

	seen := map[string]bool{}
	for i, raw := range body.Questions {
		question := schema.NormalizeQuestion(raw)
		if question.ID == "" || seen[question.ID] {
			question.ID = fmt.Sprintf("q%d", i+1)
		}
		seen[question.ID] = true
		q.Questions = append(q.Questions, question)
	}
	return q
}

func CreateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body questionnaireBody
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		id, err := app.Store.CreateQuestionnaire(r.Context(), body.toModel())
		if err != nil {
			httpx.LogInternalError(w, "db.insert_questionnaire", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": id,
		})
	}
}

func ListQuestionnaires(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := app.Store.ListQuestionnaires(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaires", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"questionnaires": list,
		})
	}
}

func GetQuestionnaireById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamId(w, r)
		if !ok {
			return
		}

		q, err := app.Store.GetQuestionnaire(r.Context(), id)
		if errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "get_questionnaire", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		render.JSON(w, r, q)
	}
}

func UpdateQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamId(w, r)
		if !ok {
			return
		}

		var body questionnaireBody
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.Store.UpdateQuestionnaire(r.Context(), id, body.toModel())
		switch {
		case errors.Is(err, model.ErrNotFound):
			httpx.LogNotFound(w, "update_questionnaire", id)
		case errors.Is(err, database.ErrVersionConflict):
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "db.update_questionnaire.conflict")
		case err != nil:
			httpx.LogInternalError(w, "db.update_questionnaire", err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func DeleteQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamId(w, r)
		if !ok {
			return
		}

		err := app.Store.DeleteQuestionnaire(r.Context(), id)
		if errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "delete_questionnaire", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.delete_questionnaire", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// PublishQuestionnaire makes the questionnaire publicly reachable and
// answers with its share link. The public token is assigned on first publish
// and immutable afterwards.
func PublishQuestionnaire(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamId(w, r)
		if !ok {
			return
		}

		token, err := app.Store.Publish(r.Context(), id)
		if errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "publish_questionnaire", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.publish_questionnaire", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"token": token,
			"url":   public.URL(app.BaseURL, token, "", ""),
		})
	}
}

// QuestionnaireEmbed answers with the iframe snippet for the questionnaire.
func QuestionnaireEmbed(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := publishedQuestionnaire(app, w, r)
		if !ok {
			return
		}

		lang := model.ParseLang(r.URL.Query().Get("lang"))
		render.JSON(w, r, map[string]any{
			"embed": public.EmbedSnippet(app.BaseURL, q.PublicToken, lang),
		})
	}
}

// QuestionnaireQR serves a PNG QR code of the public URL, for print
// distribution.
func QuestionnaireQR(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := publishedQuestionnaire(app, w, r)
		if !ok {
			return
		}

		url := public.URL(app.BaseURL, q.PublicToken, "", model.ChannelQR)
		png, err := qrcode.Encode(url, qrcode.Medium, 512)
		if err != nil {
			httpx.LogInternalError(w, "qr.encode", err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

func ListLeads(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamId(w, r)
		if !ok {
			return
		}

		if _, err := app.Store.GetQuestionnaire(r.Context(), id); errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "get_leads", id)
			return
		}

		leads, err := app.Store.ListLeads(r.Context(), id)
		if err != nil {
			httpx.LogInternalError(w, "db.get_leads", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"leads": leads,
		})
	}
}

// ExportLeads streams the lead export in the spreadsheet-friendly TSV flavor.
func ExportLeads(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlParamId(w, r)
		if !ok {
			return
		}

		q, err := app.Store.GetQuestionnaire(r.Context(), id)
		if errors.Is(err, model.ErrNotFound) {
			httpx.LogNotFound(w, "export_leads", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_questionnaire", err)
			return
		}

		leads, err := app.Store.ListLeads(r.Context(), id)
		if err != nil {
			httpx.LogInternalError(w, "db.get_leads", err)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.ms-excel; charset=utf-16le")
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(q.Title)+`"`)
		if err := export.LeadsXLS(w, q.Questions, leads); err != nil {
			log.Errorf("export_leads.write: %s", err)
		}
	}
}

func publishedQuestionnaire(app app.App, w http.ResponseWriter, r *http.Request) (model.Questionnaire, bool) {
	id, ok := urlParamId(w, r)
	if !ok {
		return model.Questionnaire{}, false
	}

	q, err := app.Store.GetQuestionnaire(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		httpx.LogNotFound(w, "get_questionnaire", id)
		return model.Questionnaire{}, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db.get_questionnaire", err)
		return model.Questionnaire{}, false
	}
	if !q.Published || q.PublicToken == "" {
		httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "questionnaire.not_published")
		return model.Questionnaire{}, false
	}
	return q, true
}

func urlParamId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
		return 0, false
	}
	return id, true
}
