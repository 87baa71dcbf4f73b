package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/careerprep/backend/internal/domain/category"
	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/service"
	"github.com/careerprep/backend/internal/store"
)

const maxBodyBytes = 1 << 20

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	sessions *service.SessionService
	bank     *questionbank.Bank
	store    store.Store
	logger   *slog.Logger
}

func NewHandler(sessions *service.SessionService, bank *questionbank.Bank, s store.Store, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		bank:     bank,
		store:    s,
		logger:   logger,
	}
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// decodeJSON reads the request body into v. An empty body leaves v
// untouched. Returns false after writing a 400 when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return false
	}
	return true
}

// handleError maps domain and store errors to HTTP responses. Returns true
// if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "result not found")
	case errors.Is(err, practicesession.ErrSessionClosed):
		respondError(w, http.StatusConflict, "session_closed", err.Error())
	case errors.Is(err, practicesession.ErrSkipLastQuestion):
		respondError(w, http.StatusConflict, "skip_last_question", err.Error())
	case errors.Is(err, practicesession.ErrEmptyDraft):
		respondError(w, http.StatusUnprocessableEntity, "empty_draft", err.Error())
	case errors.Is(err, questionbank.ErrNoQuestions):
		respondError(w, http.StatusUnprocessableEntity, "no_questions", err.Error())
	case errors.Is(err, category.ErrUnknown):
		respondError(w, http.StatusBadRequest, "unknown_category", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "unavailable", "service is shutting down")
	default:
		h.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
	return true
}
