package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"maildesk/internal/auth"
	"maildesk/internal/handlers"
	"maildesk/internal/middleware"
	"maildesk/internal/repository"
)

func RegisterUserRoutes(router chi.Router, db *sql.DB, svc *auth.Service) {
	userRepo := repository.NewUserRepository(db)
	loginRepo := repository.NewLoginHistoryRepository(db)
	userHandler := handlers.NewUserHandler(userRepo, loginRepo, svc)

	router.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireSession(svc))

		r.Get("/me", userHandler.Me)
		r.Put("/me", userHandler.UpdateMe)
		r.Post("/change-password", userHandler.ChangePassword)
		r.Get("/login-history", userHandler.LoginHistory)
	})
}
