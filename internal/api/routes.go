package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router with all routes.
func NewRouter(handlers *Handlers, config *ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)

	if config.HasCORS() {
		r.Use(CORS(config.CORSOrigins))
	}
	if config.HasAuth() {
		r.Use(APIKeyAuth(config.APIKey))
	}

	r.Get("/health", handlers.HealthCheck)

	r.Route("/v1/loads", func(r chi.Router) {
		r.Post("/", handlers.CreateLoad)
		r.Get("/", handlers.ListLoads)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetLoad)
			r.Post("/stop", handlers.StopLoad)
			r.Get("/events", handlers.StreamEvents)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, APIError{Code: 404, Message: "not found", Details: "endpoint does not exist"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, APIError{Code: 405, Message: "method not allowed"})
	})

	return r
}
