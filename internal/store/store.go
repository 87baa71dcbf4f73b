package store

import (
	"context"
	"errors"
	"time"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
)

var (
	ErrNotFound = errors.New("not found")
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Result is the recorded outcome of one practice session.
type Result struct {
	SessionID      string
	Category       string // empty for an unfiltered sample
	Status         Status
	Score          *int // nil unless completed
	QuestionCount  int
	ElapsedSeconds int
	Answers        []practicesession.Answer
	FinishedAt     time.Time
}

// CategoryStats aggregates completed sessions of one category.
type CategoryStats struct {
	Category     string
	Sessions     int
	Cancelled    int
	AverageScore int
	BestScore    int
}

// Store persists session outcomes. Live sessions are never stored.
type Store interface {
	SaveResult(ctx context.Context, r *Result) error
	GetResult(ctx context.Context, sessionID string) (*Result, error)
	ListResults(ctx context.Context, limit int) ([]Result, error)
	CategoryStats(ctx context.Context) ([]CategoryStats, error)
	Close() error
}
