package api

import (
	"net/http"
	"time"

	"quickfeedback/internal/api/handler"
	"quickfeedback/internal/api/middleware"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	formService *service.FormService,
	responseService *service.ResponseService,
	analyticsService *service.AnalyticsService,
	templateService *service.TemplateService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Verifies "Authorization: Bearer T" tokens and puts claims in context.
	// Routes decide individually whether a valid token is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		// Auth routes (register/login public, /me protected)
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		// Owner-facing form management (authenticated)
		formHandler := handler.NewFormHandler(formService)
		responseHandler := handler.NewResponseHandler(responseService, analyticsService)
		api.Route("/forms", func(forms chi.Router) {
			forms.Use(middleware.Authenticator)
			formHandler.RegisterRoutes(forms)
			responseHandler.RegisterRoutes(forms)
		})

		// Respondent-facing form surface (public by share slug)
		publicHandler := handler.NewPublicHandler(formService, responseService)
		api.Route("/f", publicHandler.RegisterRoutes)

		// Template catalog (authenticated)
		templateHandler := handler.NewTemplateHandler(templateService)
		api.Route("/templates", templateHandler.RegisterRoutes)

		// Admin routes
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.Authenticator)
			admin.Use(middleware.AdminOnly)
			authHandler.RegisterAdminRoutes(admin)
		})
	})

	return r
}
