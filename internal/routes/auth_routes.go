package routes

import (
	"github.com/go-chi/chi/v5"
	"maildesk/internal/auth"
	"maildesk/internal/config"
	"maildesk/internal/handlers"
)

func RegisterAuthRoutes(router chi.Router, svc *auth.Service, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(svc, cfg)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
	})
}
