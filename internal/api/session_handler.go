package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/careerprep/backend/internal/domain/category"
	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	Category string `json:"category,omitempty"`
}

type EditDraftRequest struct {
	Text string `json:"text"`
}

type SessionResponse struct {
	ID             string                   `json:"id"`
	State          string                   `json:"state"`
	Question       questionbank.Question    `json:"question"`
	Index          int                      `json:"index"`
	Total          int                      `json:"total"`
	IsLast         bool                     `json:"is_last"`
	Progress       int                      `json:"progress"`
	Draft          string                   `json:"draft"`
	Recording      bool                     `json:"recording"`
	ElapsedSeconds int                      `json:"elapsed_seconds"`
	Elapsed        string                   `json:"elapsed"`
	Answered       int                      `json:"answered"`
	Remaining      int                      `json:"remaining"`
	Answers        []practicesession.Answer `json:"answers"`
	Score          *int                     `json:"score,omitempty"`
}

func toSessionResponse(s practicesession.Snapshot) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		State:          s.State.String(),
		Question:       s.Question,
		Index:          s.Index,
		Total:          s.Total,
		IsLast:         s.IsLast,
		Progress:       s.Progress,
		Draft:          s.Draft,
		Recording:      s.Recording,
		ElapsedSeconds: s.ElapsedSeconds,
		Elapsed:        s.Elapsed(),
		Answered:       s.Answered,
		Remaining:      s.Remaining,
		Answers:        s.Answers,
		Score:          s.Score,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cat, err := category.ParseOptional(req.Category)
	if h.handleError(w, err) {
		return
	}

	snap, err := h.sessions.Start(r.Context(), cat)
	if h.handleError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, toSessionResponse(snap))
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// PUT /sessions/{sessionID}/draft
func (h *Handler) editDraft(w http.ResponseWriter, r *http.Request) {
	var req EditDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	snap, err := h.sessions.EditDraft(r.Context(), chi.URLParam(r, "sessionID"), req.Text)
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// DELETE /sessions/{sessionID}/draft
func (h *Handler) clearDraft(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.ClearDraft(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// POST /sessions/{sessionID}/recording
func (h *Handler) toggleRecording(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.ToggleRecording(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// POST /sessions/{sessionID}/advance
func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Advance(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// POST /sessions/{sessionID}/skip
func (h *Handler) skip(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Skip(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}

// POST /sessions/{sessionID}/cancel
func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Cancel(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toSessionResponse(snap))
}
