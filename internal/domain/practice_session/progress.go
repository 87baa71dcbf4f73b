package practicesession

import (
	"fmt"

	"github.com/careerprep/backend/internal/domain/questionbank"
)

// Progress is floor(100 * (index+1) / total).
func Progress(index, total int) int {
	if total <= 0 {
		return 0
	}
	return 100 * (index + 1) / total
}

// FormatElapsed renders seconds as mm:ss. Minutes keep growing past 59.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	ID             string
	State          State
	Question       questionbank.Question
	Index          int
	Total          int
	IsLast         bool
	Progress       int
	Draft          string
	Recording      bool
	ElapsedSeconds int
	Answered       int
	Remaining      int
	Answers        []Answer
	Score          *int
}

func (s *PracticeSession) Snapshot() Snapshot {
	snap := Snapshot{
		ID:             s.ID,
		State:          s.state,
		Question:       s.CurrentQuestion(),
		Index:          s.index,
		Total:          len(s.questions),
		IsLast:         s.IsLast(),
		Progress:       s.progress,
		Draft:          s.draft,
		Recording:      s.recording,
		ElapsedSeconds: s.elapsed,
		Answered:       len(s.answers),
		Remaining:      s.Remaining(),
		Answers:        s.Answers(),
	}
	if score, ok := s.Score(); ok {
		snap.Score = &score
	}
	return snap
}

// Elapsed formats the snapshot's elapsed time as mm:ss.
func (s Snapshot) Elapsed() string {
	return FormatElapsed(s.ElapsedSeconds)
}
