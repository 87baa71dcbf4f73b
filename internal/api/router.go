package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careerprep/backend/internal/metrics"
)

func NewRouter(h *Handler, logger *slog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		Logging(logger),
		middleware.Recoverer,
		CORS(allowedOrigins),
		metrics.Middleware,
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/categories", h.listCategories)
	r.Get("/questions", h.listQuestions)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Put("/draft", h.editDraft)
			r.Delete("/draft", h.clearDraft)
			r.Post("/recording", h.toggleRecording)
			r.Post("/advance", h.advance)
			r.Post("/skip", h.skip)
			r.Post("/cancel", h.cancel)
		})
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.listHistory)
		r.Get("/stats", h.historyStats)
		r.Get("/{sessionID}", h.getHistory)
	})

	return r
}
