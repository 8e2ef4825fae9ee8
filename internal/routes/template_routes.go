package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"maildesk/internal/auth"
	"maildesk/internal/handlers"
	"maildesk/internal/middleware"
	"maildesk/internal/repository"
)

func RegisterTemplateRoutes(router chi.Router, db *sql.DB, svc *auth.Service) {
	templateRepo := repository.NewTemplateRepository(db)
	templateHandler := handlers.NewTemplateHandler(templateRepo)

	router.Route("/templates", func(r chi.Router) {
		r.Use(middleware.RequireSession(svc))

		r.Get("/", templateHandler.ListTemplates)
		r.Post("/", templateHandler.CreateTemplate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", templateHandler.GetTemplate)
			r.Put("/", templateHandler.UpdateTemplate)
			r.Delete("/", templateHandler.DeleteTemplate)
		})
	})
}
