package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
	"github.com/careerprep/backend/internal/domain/questionbank"
	"github.com/careerprep/backend/internal/grader"
)

type blockingPolicy struct{ release chan struct{} }

func (p blockingPolicy) Score([]questionbank.Question, []practicesession.Answer) int {
	<-p.release
	return 55
}

func newModel(t *testing.T) PracticeModel {
	t.Helper()
	m, err := NewPracticeModel(func(b practicesession.Boundary) (*practicesession.PracticeSession, error) {
		return practicesession.NewFromBank(questionbank.Default(), practicesession.DefaultConfig(), grader.FixedPolicy(90), b)
	}, time.Second)
	require.NoError(t, err)
	return m
}

func update(t *testing.T, m PracticeModel, msg tea.Msg) (PracticeModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(PracticeModel)
	require.True(t, ok)
	return pm, cmd
}

func typeText(t *testing.T, m PracticeModel, text string) PracticeModel {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func TestTyping_UpdatesDraft(t *testing.T) {
	m := newModel(t)

	m = typeText(t, m, "hello")

	assert.Equal(t, "hello", m.Session().Draft())
}

func TestAdvance_EmptyDraftShowsNotice(t *testing.T) {
	m := newModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, 0, m.Session().CurrentIndex())
	assert.NotEmpty(t, m.notice)
}

func TestFullRun_RecordsOutcome(t *testing.T) {
	m := newModel(t)

	m = typeText(t, m, "first")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, 1, m.Session().CurrentIndex())
	assert.Empty(t, m.input.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, 2, m.Session().CurrentIndex())

	// The last question cannot be skipped.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, 2, m.Session().CurrentIndex())
	assert.NotEmpty(t, m.notice)

	m = typeText(t, m, "last")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, m.scoring)
	assert.Contains(t, m.View(), "Scoring")

	// Keys and ticks are held back while the score is computed.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, tickCmd := update(t, m, tickMsg{})
	assert.NotNil(t, tickCmd)

	m, _ = update(t, m, cmd())
	assert.False(t, m.scoring)

	out := m.Outcome()
	assert.True(t, out.Completed)
	assert.False(t, out.Cancelled)
	assert.Equal(t, 90, out.Score)
	require.Len(t, out.Answers, 2)
	assert.Equal(t, "first", out.Answers[0].AnswerText)
	assert.Equal(t, "last", out.Answers[1].AnswerText)
	assert.Contains(t, m.View(), "Score: 90/100")
}

func TestEsc_CancelsAndQuits(t *testing.T) {
	m := newModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.Outcome().Cancelled)
	assert.Equal(t, practicesession.StateCancelled, m.Session().State())
}

func TestCtrlC_QuitsWithoutOutcome(t *testing.T) {
	m := newModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, Outcome{}, m.Outcome())
	assert.Equal(t, practicesession.StatePresenting, m.Session().State())
}

func TestTick_StopsAfterTerminal(t *testing.T) {
	m := newModel(t)

	m, cmd := update(t, m, tickMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.Session().Elapsed())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m, cmd = update(t, m, tickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Session().Elapsed())
}

func TestToggleRecording(t *testing.T) {
	m := newModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.True(t, m.Session().Recording())
	assert.Contains(t, m.View(), "REC")
}

func TestScoring_DoesNotBlockUpdate(t *testing.T) {
	release := make(chan struct{})
	m, err := NewPracticeModel(func(b practicesession.Boundary) (*practicesession.PracticeSession, error) {
		return practicesession.New(questionbank.Default().Questions()[:1], blockingPolicy{release: release}, b)
	}, time.Second)
	require.NoError(t, err)

	m = typeText(t, m, "only answer")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case <-done:
		t.Fatal("scoring finished before the policy was released")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	m, _ = update(t, m, <-done)

	assert.True(t, m.Outcome().Completed)
	assert.Equal(t, 55, m.Outcome().Score)
}

func TestSkipLast_KeepsTypedAnswer(t *testing.T) {
	m := newModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(t, m, "half")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})

	assert.Equal(t, "half", m.input.Value())
	assert.Equal(t, "half", m.Session().Draft())
	assert.NotEmpty(t, m.notice)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.input.Value())
	assert.Empty(t, m.Session().Draft())
}

func TestRenderProgressBar(t *testing.T) {
	assert.Contains(t, renderProgressBar(33, 30), "33%")
	assert.Contains(t, renderProgressBar(100, 10), "100%")
}
