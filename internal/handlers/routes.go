package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes wires the prediction endpoint. CORS sits in front of routing so
// preflight requests succeed on any path.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(CORS)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.HandleFunc("/predict", h.Predict)
	return r
}
