package practicesession

import (
	"errors"
	"strings"

	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/id"
)

var (
	// ErrNoQuestions is returned when a session would start with nothing to ask.
	ErrNoQuestions = questionbank.ErrNoQuestions

	ErrEmptyDraft       = errors.New("draft answer is empty")
	ErrSkipLastQuestion = errors.New("cannot skip the last question")
	ErrSessionClosed    = errors.New("session is no longer active")
	ErrNoPolicy         = errors.New("scoring policy is required")
	ErrNoBoundary       = errors.New("session boundary is required")
)

type State int

const (
	StatePresenting State = iota
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Answer is a committed response to one question. Skipped questions have none.
type Answer struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer"`
}

// PracticeSession is one attempt at a fixed sequence of questions.
//
// It is not safe for concurrent use: a single owner (a Runner or a UI
// event loop) drives every transition.
type PracticeSession struct {
	ID string

	questions []questionbank.Question
	index     int
	answers   []Answer
	draft     string
	recording bool
	elapsed   int
	progress  int
	score     int
	state     State

	policy   ScoringPolicy
	boundary Boundary
}

// New creates a session over the given questions. The slice is copied and
// never changes for the lifetime of the session.
func New(questions []questionbank.Question, policy ScoringPolicy, boundary Boundary) (*PracticeSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if policy == nil {
		return nil, ErrNoPolicy
	}
	if boundary == nil {
		return nil, ErrNoBoundary
	}

	qs := make([]questionbank.Question, len(questions))
	copy(qs, questions)

	return &PracticeSession{
		ID:        id.GenerateID(),
		questions: qs,
		answers:   make([]Answer, 0, len(qs)),
		progress:  Progress(0, len(qs)),
		state:     StatePresenting,
		policy:    policy,
		boundary:  boundary,
	}, nil
}

// NewFromBank filters the bank with the config and creates a session over the result.
func NewFromBank(bank *questionbank.Bank, config SessionConfig, policy ScoringPolicy, boundary Boundary) (*PracticeSession, error) {
	questions, err := bank.Filter(config.Category, config.SampleSize)
	if err != nil {
		return nil, err
	}
	return New(questions, policy, boundary)
}

// ── Transitions ─────────────────────────────────────────────────────────────

// EditDraft replaces the in-progress answer for the current question.
func (s *PracticeSession) EditDraft(text string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.draft = text
	return nil
}

func (s *PracticeSession) ClearDraft() error {
	return s.EditDraft("")
}

// ToggleRecording flips the recording indicator. It has no effect on
// answers or scoring.
func (s *PracticeSession) ToggleRecording() (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return s.recording, err
	}
	s.recording = !s.recording
	return s.recording, nil
}

// Advance commits the draft and moves to the next question, or completes
// the session when the current question is the last one. A blank draft is
// rejected and leaves the session untouched.
func (s *PracticeSession) Advance() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if strings.TrimSpace(s.draft) == "" {
		return ErrEmptyDraft
	}

	s.answers = append(s.answers, Answer{
		QuestionID: s.questions[s.index].ID,
		AnswerText: s.draft,
	})

	if s.IsLast() {
		s.complete()
		return nil
	}
	s.next()
	return nil
}

// Skip moves on without recording an answer. The last question cannot be
// skipped; it has to be answered through Advance.
func (s *PracticeSession) Skip() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if s.IsLast() {
		return ErrSkipLastQuestion
	}
	s.next()
	return nil
}

// Cancel abandons the session. Answers collected so far stay readable.
func (s *PracticeSession) Cancel() error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	s.state = StateCancelled
	s.draft = ""
	s.boundary.OnCancel()
	return nil
}

// Tick adds one second of elapsed time. It reports false once the session
// is terminal, at which point the caller must stop scheduling ticks.
func (s *PracticeSession) Tick() bool {
	if s.state != StatePresenting {
		return false
	}
	s.elapsed++
	return true
}

func (s *PracticeSession) next() {
	s.index++
	s.draft = ""
	s.progress = Progress(s.index, len(s.questions))
}

// complete runs exactly once: the state check in ensureOpen keeps every
// later transition out.
func (s *PracticeSession) complete() {
	s.state = StateCompleted
	s.draft = ""

	questions := s.Questions()
	answers := s.Answers()
	s.score = clampScore(s.policy.Score(questions, answers))

	s.boundary.OnComplete(s.score, answers)
}

func (s *PracticeSession) ensureOpen() error {
	if s.state != StatePresenting {
		return ErrSessionClosed
	}
	return nil
}

func clampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// ── Accessors ───────────────────────────────────────────────────────────────

func (s *PracticeSession) State() State { return s.state }

func (s *PracticeSession) CurrentIndex() int { return s.index }

func (s *PracticeSession) Len() int { return len(s.questions) }

func (s *PracticeSession) CurrentQuestion() questionbank.Question {
	return s.questions[s.index]
}

func (s *PracticeSession) IsLast() bool {
	return s.index == len(s.questions)-1
}

func (s *PracticeSession) Draft() string { return s.draft }

func (s *PracticeSession) Recording() bool { return s.recording }

// Elapsed is the number of ticks received while presenting, in seconds.
func (s *PracticeSession) Elapsed() int { return s.elapsed }

// Progress is the completion percentage, frozen once the session ends.
func (s *PracticeSession) Progress() int { return s.progress }

// Remaining counts questions without a committed answer.
func (s *PracticeSession) Remaining() int {
	return len(s.questions) - len(s.answers)
}

// Score returns the final score once the session has completed.
func (s *PracticeSession) Score() (int, bool) {
	return s.score, s.state == StateCompleted
}

func (s *PracticeSession) Questions() []questionbank.Question {
	out := make([]questionbank.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *PracticeSession) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}
