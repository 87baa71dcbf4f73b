package questionbank

import (
	"errors"
	"fmt"

	"github.com/careerprep/backend/internal/domain/category"
)

// DefaultSampleSize is how many questions an unfiltered session gets.
const DefaultSampleSize = 3

var (
	ErrNoQuestions  = errors.New("no questions available")
	ErrDuplicateID  = errors.New("duplicate question id")
	ErrInvalidInput = errors.New("invalid question")
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is an immutable practice prompt.
type Question struct {
	ID         string            `json:"id" yaml:"id"`
	Text       string            `json:"text" yaml:"text"`
	Category   category.Category `json:"category" yaml:"category"`
	Difficulty Difficulty        `json:"difficulty" yaml:"difficulty"`
}

func (q Question) validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidInput)
	}
	if q.Text == "" {
		return fmt.Errorf("%w: question %s: text cannot be empty", ErrInvalidInput, q.ID)
	}
	if !q.Category.Valid() {
		return fmt.Errorf("%w: question %s: unknown category %q", ErrInvalidInput, q.ID, q.Category)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: question %s: unknown difficulty %q", ErrInvalidInput, q.ID, q.Difficulty)
	}
	return nil
}

// Bank is the ordered question corpus. Sessions only ever read from it.
type Bank struct {
	questions []Question
	index     map[string]int
}

// New builds a bank from the given questions, keeping their order.
func New(questions ...Question) (*Bank, error) {
	b := &Bank{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		if err := b.AddQuestion(q); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddQuestion appends a question to the end of the corpus.
func (b *Bank) AddQuestion(q Question) error {
	if err := q.validate(); err != nil {
		return err
	}
	if _, ok := b.index[q.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, q.ID)
	}
	b.index[q.ID] = len(b.questions)
	b.questions = append(b.questions, q)
	return nil
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// Questions returns a copy of the corpus in order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

func (b *Bank) Get(id string) (Question, bool) {
	i, ok := b.index[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// Filter selects the question sequence for one session.
//
// With a category it returns every matching question in corpus order.
// Without one it returns the first sampleSize questions; a non-positive
// sampleSize falls back to DefaultSampleSize. An empty result is an error
// so a session can never start without a current question.
func (b *Bank) Filter(cat *category.Category, sampleSize int) ([]Question, error) {
	if cat == nil {
		if sampleSize <= 0 {
			sampleSize = DefaultSampleSize
		}
		n := min(sampleSize, len(b.questions))
		if n == 0 {
			return nil, ErrNoQuestions
		}
		out := make([]Question, n)
		copy(out, b.questions[:n])
		return out, nil
	}

	var out []Question
	for _, q := range b.questions {
		if q.Category == *cat {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for category %q", ErrNoQuestions, *cat)
	}
	return out, nil
}
