package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"nexus-chat/internal/handlers"
	"nexus-chat/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	metricsHandler http.Handler,
	corsOrigin string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(corsOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// The handler owns method dispatch so preflight and 405 bodies follow
	// the chat contract.
	r.HandleFunc("/api/chat", chatHandler.Chat)
	r.MethodNotAllowed(chatHandler.MethodNotAllowed)

	return r
}
