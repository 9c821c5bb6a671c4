package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/eyalbz/leadform/app"
	"github.com/eyalbz/leadform/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	// public questionnaire pages
	root.Get("/q/{token}", QuestionnairePage(app.Store))
	root.Post("/q/{token}", SubmitPage(app.Store))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/public/{token}", PublicGetQuestionnaire(app.Store))
	api.Post("/public/{token}/submissions", PublicSubmit(app.Store))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD questionnaire
		r.Post("/questionnaires", CreateQuestionnaire(app))
		r.Get("/questionnaires", ListQuestionnaires(app))
		r.Get(`/questionnaires/{id:^\d+$}`, GetQuestionnaireById(app))
		r.Put(`/questionnaires/{id:^\d+$}`, UpdateQuestionnaire(app))
		r.Delete(`/questionnaires/{id:^\d+$}`, DeleteQuestionnaire(app))

		// distribution
		r.Post(`/questionnaires/{id:^\d+$}/publish`, PublishQuestionnaire(app))
		r.Get(`/questionnaires/{id:^\d+$}/embed`, QuestionnaireEmbed(app))
		r.Get(`/questionnaires/{id:^\d+$}/qr`, QuestionnaireQR(app))

		// leads
		r.Get(`/questionnaires/{id:^\d+$}/leads`, ListLeads(app))
		r.Get(`/questionnaires/{id:^\d+$}/leads/export`, ExportLeads(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
