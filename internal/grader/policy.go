package grader

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/worker"
)

// Clamp bounds a score to [0, 100].
func Clamp(score int) int {
	return max(practicesession.MinScore, min(practicesession.MaxScore, score))
}

// ── Random ──────────────────────────────────────────────────────────────────

const (
	randomMin = 70
	randomMax = 100
)

// RandomPolicy is the placeholder scorer: a uniform score in [70, 100]
// that ignores the transcript.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ practicesession.ScoringPolicy = (*RandomPolicy)(nil)

// NewRandomPolicy seeds the generator; seed 0 uses the current time.
func NewRandomPolicy(seed int64) *RandomPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) Score([]questionbank.Question, []practicesession.Answer) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return randomMin + p.rng.Intn(randomMax-randomMin+1)
}

// ── Fixed ───────────────────────────────────────────────────────────────────

// FixedPolicy always returns the same score.
type FixedPolicy int

func (p FixedPolicy) Score([]questionbank.Question, []practicesession.Answer) int {
	return Clamp(int(p))
}

// ── LLM ─────────────────────────────────────────────────────────────────────

type gradeOutcome struct {
	score int
	err   error
}

// LLMPolicy rates every answer through a Grader, in parallel, and averages
// the ratings over all questions in the session (a skipped question counts
// as 0). Any failure falls back to another policy, so Score never fails.
type LLMPolicy struct {
	grader   Grader
	fallback practicesession.ScoringPolicy
	timeout  time.Duration
	workers  int
	logger   *slog.Logger
}

var _ practicesession.ScoringPolicy = (*LLMPolicy)(nil)

func NewLLMPolicy(g Grader, fallback practicesession.ScoringPolicy, timeout time.Duration, workers int, logger *slog.Logger) *LLMPolicy {
	if fallback == nil {
		fallback = NewRandomPolicy(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMPolicy{
		grader:   g,
		fallback: fallback,
		timeout:  timeout,
		workers:  workers,
		logger:   logger,
	}
}

func (p *LLMPolicy) Score(questions []questionbank.Question, answers []practicesession.Answer) int {
	if len(questions) == 0 || len(answers) == 0 {
		return p.fallbackScore(questions, answers, fmt.Errorf("nothing to grade"))
	}

	byID := make(map[string]questionbank.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	// Results are buffered for every answer so an early return never
	// leaves a worker blocked.
	pool := worker.NewPool[gradeOutcome](p.workers, len(answers))
	defer pool.Close()

	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return p.fallbackScore(questions, answers, fmt.Errorf("answer for unknown question %s", a.QuestionID))
		}
		text := a.AnswerText
		pool.Submit(a.QuestionID, func() gradeOutcome {
			res, err := p.grader.GradeAnswer(ctx, q, text)
			return gradeOutcome{score: res.Score, err: err}
		})
	}

	total := 0
	for range answers {
		res := <-pool.Results()
		if res.Output.err != nil {
			return p.fallbackScore(questions, answers, fmt.Errorf("question %s: %w", res.JobID, res.Output.err))
		}
		total += Clamp(res.Output.score)
	}

	return Clamp(total / len(questions))
}

func (p *LLMPolicy) fallbackScore(questions []questionbank.Question, answers []practicesession.Answer, reason error) int {
	p.logger.Warn("llm scoring unavailable, using fallback policy", "error", reason)
	return Clamp(p.fallback.Score(questions, answers))
}
