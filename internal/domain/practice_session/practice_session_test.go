package practicesession_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/careerprep/backend/internal/domain/category"
	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/grader"
)

// recorder is a Boundary that remembers every callback.
type recorder struct {
	completed   int
	cancelled   int
	lastScore   int
	lastAnswers []practicesession.Answer
}

func (r *recorder) OnComplete(score int, answers []practicesession.Answer) {
	r.completed++
	r.lastScore = score
	r.lastAnswers = answers
}

func (r *recorder) OnCancel() {
	r.cancelled++
}

type constPolicy int

func (c constPolicy) Score([]questionbank.Question, []practicesession.Answer) int {
	return int(c)
}

func createQuestions(n int) []questionbank.Question {
	qs := make([]questionbank.Question, n)
	for i := range qs {
		qs[i] = questionbank.Question{
			ID:         "q" + string(rune('1'+i)),
			Text:       "Question " + string(rune('A'+i)),
			Category:   category.General,
			Difficulty: questionbank.DifficultyEasy,
		}
	}
	return qs
}

func newSession(t *testing.T, n int, policy practicesession.ScoringPolicy) (*practicesession.PracticeSession, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := practicesession.New(createQuestions(n), policy, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, rec
}

func answer(t *testing.T, s *practicesession.PracticeSession, text string) {
	t.Helper()
	if err := s.EditDraft(text); err != nil {
		t.Fatalf("edit draft: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
}

func TestFullCompletion_AnswerSkipAnswer(t *testing.T) {
	s, rec := newSession(t, 3, grader.NewRandomPolicy(42))

	answer(t, s, "A")
	if err := s.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	answer(t, s, "B")

	want := []practicesession.Answer{
		{QuestionID: "q1", AnswerText: "A"},
		{QuestionID: "q3", AnswerText: "B"},
	}

	if rec.completed != 1 {
		t.Fatalf("expected OnComplete once, got %d", rec.completed)
	}
	if len(rec.lastAnswers) != len(want) {
		t.Fatalf("expected %d answers, got %+v", len(want), rec.lastAnswers)
	}
	for i := range want {
		if rec.lastAnswers[i] != want[i] {
			t.Errorf("answer %d: expected %+v, got %+v", i, want[i], rec.lastAnswers[i])
		}
	}
	if rec.lastScore < 70 || rec.lastScore > 100 {
		t.Errorf("expected score in [70,100], got %d", rec.lastScore)
	}
	if s.State() != practicesession.StateCompleted {
		t.Errorf("expected completed, got %s", s.State())
	}
	if s.CurrentIndex() != 2 {
		t.Errorf("expected final index 2, got %d", s.CurrentIndex())
	}
	if rec.cancelled != 0 {
		t.Error("expected OnCancel not to fire")
	}
}

func TestAdvance_WhitespaceDraftRejected(t *testing.T) {
	s, rec := newSession(t, 3, constPolicy(80))

	if err := s.EditDraft("  "); err != nil {
		t.Fatal(err)
	}
	err := s.Advance()

	if !errors.Is(err, practicesession.ErrEmptyDraft) {
		t.Fatalf("expected ErrEmptyDraft, got %v", err)
	}
	if s.CurrentIndex() != 0 || s.State() != practicesession.StatePresenting {
		t.Errorf("expected Presenting(0), got %s(%d)", s.State(), s.CurrentIndex())
	}
	if len(s.Answers()) != 0 {
		t.Errorf("expected no answers, got %d", len(s.Answers()))
	}
	if s.Draft() != "  " {
		t.Errorf("expected draft to be kept, got %q", s.Draft())
	}
	if rec.completed != 0 {
		t.Error("expected no completion")
	}
}

func TestCancel_MidSession(t *testing.T) {
	s, rec := newSession(t, 3, constPolicy(80))

	answer(t, s, "first")
	if err := s.EditDraft("half written"); err != nil {
		t.Fatal(err)
	}

	if err := s.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := s.Cancel(); !errors.Is(err, practicesession.ErrSessionClosed) {
		t.Errorf("expected second cancel to be rejected, got %v", err)
	}

	if rec.cancelled != 1 {
		t.Errorf("expected OnCancel once, got %d", rec.cancelled)
	}
	if rec.completed != 0 {
		t.Error("expected OnComplete never to fire")
	}
	if s.Draft() != "" {
		t.Errorf("expected draft to be discarded, got %q", s.Draft())
	}
	if len(s.Answers()) != 1 {
		t.Errorf("expected collected answers to be kept, got %d", len(s.Answers()))
	}
}

func TestNewFromBank_CategoryWithoutMatches(t *testing.T) {
	bank, err := questionbank.New(
		questionbank.Question{ID: "g", Text: "general", Category: category.General, Difficulty: questionbank.DifficultyEasy},
		questionbank.Question{ID: "t", Text: "technical", Category: category.Technical, Difficulty: questionbank.DifficultyHard},
	)
	if err != nil {
		t.Fatal(err)
	}

	cfg := practicesession.DefaultConfig()
	soft := category.SoftSkills
	cfg.Category = &soft

	s, err := practicesession.NewFromBank(bank, cfg, constPolicy(80), &recorder{})
	if !errors.Is(err, practicesession.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if s != nil {
		t.Error("expected no session")
	}
}

func TestNewFromBank_DefaultSample(t *testing.T) {
	bank, err := questionbank.New(createQuestions(5)...)
	if err != nil {
		t.Fatal(err)
	}

	s, err := practicesession.NewFromBank(bank, practicesession.DefaultConfig(), constPolicy(80), &recorder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != questionbank.DefaultSampleSize {
		t.Errorf("expected %d questions, got %d", questionbank.DefaultSampleSize, s.Len())
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := practicesession.New(nil, constPolicy(1), &recorder{}); !errors.Is(err, practicesession.ErrNoQuestions) {
		t.Errorf("expected ErrNoQuestions, got %v", err)
	}
	if _, err := practicesession.New(createQuestions(1), nil, &recorder{}); !errors.Is(err, practicesession.ErrNoPolicy) {
		t.Errorf("expected ErrNoPolicy, got %v", err)
	}
	if _, err := practicesession.New(createQuestions(1), constPolicy(1), nil); !errors.Is(err, practicesession.ErrNoBoundary) {
		t.Errorf("expected ErrNoBoundary, got %v", err)
	}
}

func TestSkip_LastQuestionRejected(t *testing.T) {
	s, rec := newSession(t, 2, constPolicy(80))

	if err := s.Skip(); err != nil {
		t.Fatal(err)
	}
	if err := s.Skip(); !errors.Is(err, practicesession.ErrSkipLastQuestion) {
		t.Fatalf("expected ErrSkipLastQuestion, got %v", err)
	}
	if s.CurrentIndex() != 1 || s.State() != practicesession.StatePresenting {
		t.Errorf("expected Presenting(1), got %s(%d)", s.State(), s.CurrentIndex())
	}
	if rec.completed != 0 {
		t.Error("expected no completion")
	}
}

func TestSkip_ClearsDraft(t *testing.T) {
	s, _ := newSession(t, 2, constPolicy(80))

	_ = s.EditDraft("not committed")
	if err := s.Skip(); err != nil {
		t.Fatal(err)
	}
	if s.Draft() != "" {
		t.Errorf("expected empty draft, got %q", s.Draft())
	}
	if len(s.Answers()) != 0 {
		t.Error("expected skip not to record an answer")
	}
}

func TestCompletion_FiresOnceAndClosesSession(t *testing.T) {
	s, rec := newSession(t, 1, constPolicy(90))

	answer(t, s, "only answer")

	for name, act := range map[string]func() error{
		"advance": s.Advance,
		"skip":    s.Skip,
		"cancel":  s.Cancel,
		"edit":    func() error { return s.EditDraft("late") },
		"toggle":  func() error { _, err := s.ToggleRecording(); return err },
	} {
		if err := act(); !errors.Is(err, practicesession.ErrSessionClosed) {
			t.Errorf("%s after completion: expected ErrSessionClosed, got %v", name, err)
		}
	}

	if rec.completed != 1 {
		t.Errorf("expected OnComplete once, got %d", rec.completed)
	}
	if rec.cancelled != 0 {
		t.Error("expected OnCancel never to fire")
	}
	score, ok := s.Score()
	if !ok || score != 90 {
		t.Errorf("expected score 90, got %d (ok=%v)", score, ok)
	}
}

func TestCompletion_ClampsScore(t *testing.T) {
	for _, tc := range []struct {
		raw, want int
	}{
		{150, 100},
		{-20, 0},
		{55, 55},
	} {
		s, rec := newSession(t, 1, constPolicy(tc.raw))
		answer(t, s, "x")
		if rec.lastScore != tc.want {
			t.Errorf("policy %d: expected %d, got %d", tc.raw, tc.want, rec.lastScore)
		}
	}
}

func TestToggleRecording_IsCosmetic(t *testing.T) {
	s, _ := newSession(t, 2, constPolicy(80))

	on, err := s.ToggleRecording()
	if err != nil || !on {
		t.Fatalf("expected recording on, got %v (%v)", on, err)
	}
	off, _ := s.ToggleRecording()
	if off {
		t.Error("expected recording off")
	}
	if len(s.Answers()) != 0 || s.CurrentIndex() != 0 {
		t.Error("expected toggle not to change answers or position")
	}
}

func TestTick_StopsAfterTerminal(t *testing.T) {
	s, _ := newSession(t, 1, constPolicy(80))

	for i := 0; i < 3; i++ {
		if !s.Tick() {
			t.Fatal("expected tick to be accepted while presenting")
		}
	}
	answer(t, s, "done")

	if s.Tick() {
		t.Error("expected tick to be refused after completion")
	}
	if s.Elapsed() != 3 {
		t.Errorf("expected elapsed frozen at 3, got %d", s.Elapsed())
	}
}

func TestProgress_FrozenOnTerminal(t *testing.T) {
	s, _ := newSession(t, 3, constPolicy(80))

	if s.Progress() != 33 {
		t.Errorf("expected 33, got %d", s.Progress())
	}
	_ = s.Skip()
	if s.Progress() != 66 {
		t.Errorf("expected 66, got %d", s.Progress())
	}
	_ = s.Cancel()
	if s.Progress() != 66 {
		t.Errorf("expected progress frozen at 66, got %d", s.Progress())
	}
}

// Random Advance/Skip/Edit sequences must keep the index monotonic, the
// answers bounded and the progress within (0, 100].
func TestRandomActions_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(6)
		s, rec := newSession(t, n, constPolicy(75))
		steps := 0

		for s.State() == practicesession.StatePresenting {
			before := s.CurrentIndex()
			answersBefore := len(s.Answers())

			switch rng.Intn(3) {
			case 0:
				_ = s.EditDraft([]string{"", " ", "answer"}[rng.Intn(3)])
				if s.CurrentIndex() != before {
					t.Fatal("edit must not move the index")
				}
				continue
			case 1:
				err := s.Skip()
				if err != nil {
					if s.CurrentIndex() != before {
						t.Fatal("rejected skip must not move the index")
					}
					continue
				}
				if len(s.Answers()) != answersBefore {
					t.Fatal("skip must not add answers")
				}
			case 2:
				err := s.Advance()
				if err != nil {
					if len(s.Answers()) != answersBefore {
						t.Fatal("rejected advance must not add answers")
					}
					continue
				}
				if len(s.Answers()) != answersBefore+1 {
					t.Fatal("advance must add exactly one answer")
				}
			}
			steps++

			if s.State() == practicesession.StatePresenting && s.CurrentIndex() != before+1 {
				t.Fatalf("expected index %d, got %d", before+1, s.CurrentIndex())
			}
			if len(s.Answers()) > n || len(s.Answers()) > s.CurrentIndex()+1 {
				t.Fatalf("answer bound violated: %d answers at index %d of %d", len(s.Answers()), s.CurrentIndex(), n)
			}
			if p := s.Progress(); p <= 0 || p > 100 {
				t.Fatalf("progress out of range: %d", p)
			}
		}

		if rec.completed != 1 {
			t.Fatalf("run %d: expected one completion, got %d", run, rec.completed)
		}
		if steps != n {
			t.Fatalf("run %d: expected completion after %d moves, got %d", run, n, steps)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := newSession(t, 2, constPolicy(80))
	_ = s.EditDraft("draft")
	s.Tick()

	snap := s.Snapshot()

	if snap.Question.ID != "q1" || snap.Total != 2 || snap.IsLast {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Draft != "draft" || snap.Elapsed() != "00:01" || snap.Remaining != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Score != nil {
		t.Error("expected no score before completion")
	}
}
