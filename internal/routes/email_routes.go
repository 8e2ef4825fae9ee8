package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"maildesk/internal/auth"
	"maildesk/internal/handlers"
	"maildesk/internal/middleware"
	"maildesk/internal/repository"
)

func RegisterEmailRoutes(router chi.Router, db *sql.DB, svc *auth.Service) {
	emailRepo := repository.NewEmailRepository(db)
	emailHandler := handlers.NewEmailHandler(emailRepo)

	router.Route("/emails", func(r chi.Router) {
		r.Use(middleware.RequireSession(svc))

		r.Get("/", emailHandler.ListEmails)
		r.Post("/", emailHandler.CreateEmail)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", emailHandler.GetEmail)
			r.Put("/", emailHandler.UpdateEmail)
			r.Delete("/", emailHandler.DeleteEmail)
		})
	})
}
