package api

import (
	"errors"
	"net/http"

	"github.com/careerprep/backend/internal/domain/category"
	"github.com/careerprep/backend/internal/domain/questionbank"
)

// GET /categories
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, category.All())
}

// GET /questions?category=technical
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	cat, err := category.ParseOptional(r.URL.Query().Get("category"))
	if h.handleError(w, err) {
		return
	}

	if cat == nil {
		respondJSON(w, http.StatusOK, h.bank.Questions())
		return
	}

	questions, err := h.bank.Filter(cat, 0)
	if errors.Is(err, questionbank.ErrNoQuestions) {
		respondJSON(w, http.StatusOK, []questionbank.Question{})
		return
	}
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, questions)
}
