package service

import (
	"context"
	"time"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/events"
	"github.com/careerprep/backend/internal/metrics"
	"github.com/careerprep/backend/internal/store"
)

// outcomeRecorder is the session boundary for HTTP-hosted sessions. Its
// callbacks run on the session's runner goroutine.
type outcomeRecorder struct {
	svc      *SessionService
	session  *practicesession.PracticeSession
	category string
	finished bool
}

func (o *outcomeRecorder) OnComplete(score int, answers []practicesession.Answer) {
	o.finished = true
	metrics.SessionCompleted(o.category, score)
	o.record(store.StatusCompleted, &score, answers)
}

// OnCancel keeps whatever was answered so abandoned attempts show up in history.
func (o *outcomeRecorder) OnCancel() {
	o.finished = true
	metrics.SessionCancelled(o.category)
	o.record(store.StatusCancelled, nil, o.session.Answers())
}

func (o *outcomeRecorder) record(status store.Status, score *int, answers []practicesession.Answer) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	logger := o.svc.logger.With("session_id", o.session.ID)
	result := &store.Result{
		SessionID:      o.session.ID,
		Category:       o.category,
		Status:         status,
		Score:          score,
		QuestionCount:  o.session.Len(),
		ElapsedSeconds: o.session.Elapsed(),
		Answers:        answers,
		FinishedAt:     time.Now().UTC(),
	}

	if err := o.svc.store.SaveResult(ctx, result); err != nil {
		logger.Error("failed to save session result", "error", err)
	}

	kind := events.KindCompleted
	if status == store.StatusCancelled {
		kind = events.KindCancelled
	}
	err := o.svc.publisher.Publish(ctx, events.Outcome{
		SessionID:      result.SessionID,
		Kind:           kind,
		Category:       result.Category,
		Score:          result.Score,
		QuestionCount:  result.QuestionCount,
		ElapsedSeconds: result.ElapsedSeconds,
		Answers:        result.Answers,
		FinishedAt:     result.FinishedAt,
	})
	if err != nil {
		logger.Warn("failed to publish session outcome", "error", err)
	}

	if score != nil {
		logger.Info("session completed", "score", *score, "answered", len(answers))
	} else {
		logger.Info("session cancelled", "answered", len(answers))
	}
}
