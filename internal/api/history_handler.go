package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/store"
)

const maxHistoryLimit = 200

type ResultResponse struct {
	SessionID      string                   `json:"session_id"`
	Category       string                   `json:"category,omitempty"`
	Status         string                   `json:"status"`
	Score          *int                     `json:"score,omitempty"`
	QuestionCount  int                      `json:"question_count"`
	ElapsedSeconds int                      `json:"elapsed_seconds"`
	Elapsed        string                   `json:"elapsed"`
	Answers        []practicesession.Answer `json:"answers,omitempty"`
	FinishedAt     time.Time                `json:"finished_at"`
}

type CategoryStatsResponse struct {
	Category     string `json:"category"`
	Sessions     int    `json:"sessions"`
	Cancelled    int    `json:"cancelled"`
	AverageScore int    `json:"average_score"`
	BestScore    int    `json:"best_score"`
}

func toResultResponse(r store.Result) ResultResponse {
	return ResultResponse{
		SessionID:      r.SessionID,
		Category:       r.Category,
		Status:         string(r.Status),
		Score:          r.Score,
		QuestionCount:  r.QuestionCount,
		ElapsedSeconds: r.ElapsedSeconds,
		Elapsed:        practicesession.FormatElapsed(r.ElapsedSeconds),
		Answers:        r.Answers,
		FinishedAt:     r.FinishedAt,
	}
}

// GET /history?limit=20
func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	results, err := h.store.ListResults(r.Context(), limit)
	if h.handleError(w, err) {
		return
	}

	resp := make([]ResultResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, toResultResponse(res))
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /history/{sessionID}
func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.GetResult(r.Context(), chi.URLParam(r, "sessionID"))
	if h.handleError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, toResultResponse(*res))
}

// GET /history/stats
func (h *Handler) historyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.CategoryStats(r.Context())
	if h.handleError(w, err) {
		return
	}

	resp := make([]CategoryStatsResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, CategoryStatsResponse{
			Category:     s.Category,
			Sessions:     s.Sessions,
			Cancelled:    s.Cancelled,
			AverageScore: s.AverageScore,
			BestScore:    s.BestScore,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
