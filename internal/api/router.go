package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(MetricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
		})
		r.Post("/users/register", apiHandler.RegisterHandler)
		r.Post("/users/login", apiHandler.LoginHandler)
		r.Get("/modes", apiHandler.ListModesHandler)
		r.Get("/modes/{name}", apiHandler.GetModeHandler)

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Get("/users/profile", apiHandler.GetProfileHandler)
			r.Put("/users/profile", apiHandler.UpdateProfileHandler)
			r.Get("/users/preferences", apiHandler.GetPreferencesHandler)
			r.Put("/users/preferences", apiHandler.UpdatePreferencesHandler)
			r.Get("/users/stats", apiHandler.GetStatsHandler)

			r.Post("/chats", apiHandler.CreateChatHandler)
			r.Get("/chats", apiHandler.ListChatsHandler)
			r.Delete("/chats", apiHandler.DeleteAllChatsHandler)
			r.Get("/chats/{chatID}", apiHandler.GetChatHandler)
			r.Post("/chats/{chatID}/message", apiHandler.PostMessageHandler)
			r.Put("/chats/{chatID}", apiHandler.UpdateChatHandler)
			r.Delete("/chats/{chatID}", apiHandler.DeleteChatHandler)
		})
	})

	return r
}
