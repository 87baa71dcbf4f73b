package grader

import (
	"context"

	"github.com/careerprep/backend/internal/domain/questionbank"
)

// GradeResult is the structured rating of a single answer.
type GradeResult struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Grader rates one answer to one interview question.
// Implementations may call an LLM or return canned results (for tests).
type Grader interface {
	GradeAnswer(ctx context.Context, question questionbank.Question, answer string) (GradeResult, error)
}
