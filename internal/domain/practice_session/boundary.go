package practicesession

import "github.com/careerprep/backend/internal/domain/questionbank"

const (
	MinScore = 0
	MaxScore = 100
)

// ScoringPolicy turns a finished transcript into a score.
// Implementations must always return; the session clamps the result to
// [MinScore, MaxScore].
type ScoringPolicy interface {
	Score(questions []questionbank.Question, answers []Answer) int
}

// Boundary receives the outcome of a session. Exactly one of the two
// methods is called, exactly once, after which the session must be discarded.
type Boundary interface {
	OnComplete(score int, answers []Answer)
	OnCancel()
}

// BoundaryFuncs adapts plain functions to Boundary. Nil fields are ignored.
type BoundaryFuncs struct {
	Complete func(score int, answers []Answer)
	Cancel   func()
}

func (b BoundaryFuncs) OnComplete(score int, answers []Answer) {
	if b.Complete != nil {
		b.Complete(score, answers)
	}
}

func (b BoundaryFuncs) OnCancel() {
	if b.Cancel != nil {
		b.Cancel()
	}
}
