package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	practicesession "github.com/careerprep/backend/internal/domain/practice_session"
)

// Outcome is what the session reported when it ended. Neither flag is set
// when the user quit with ctrl+c.
type Outcome struct {
	Completed bool
	Cancelled bool
	Score     int
	Answers   []practicesession.Answer
}

// PracticeModel hosts one practice session. Bubbletea runs Update on a
// single goroutine, so the session is driven directly without a Runner.
type PracticeModel struct {
	width  int
	height int

	session  *practicesession.PracticeSession
	outcome  *Outcome
	input    textarea.Model
	interval time.Duration

	notice  string
	scoring bool // last answer submitted, waiting for the score
}

// tickMsg advances the session clock by one second.
type tickMsg struct{}

// scoredMsg reports that the final Advance, and with it scoring, returned.
type scoredMsg struct{ err error }

// NewPracticeModel creates the session through build, handing it a
// boundary that records into the model's Outcome.
func NewPracticeModel(build func(practicesession.Boundary) (*practicesession.PracticeSession, error), interval time.Duration) (PracticeModel, error) {
	outcome := &Outcome{}
	boundary := practicesession.BoundaryFuncs{
		Complete: func(score int, answers []practicesession.Answer) {
			outcome.Completed = true
			outcome.Score = score
			outcome.Answers = answers
		},
		Cancel: func() {
			outcome.Cancelled = true
		},
	}

	s, err := build(boundary)
	if err != nil {
		return PracticeModel{}, err
	}

	if interval <= 0 {
		interval = time.Second
	}

	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.Focus()

	return PracticeModel{
		session:  s,
		outcome:  outcome,
		input:    ta,
		interval: interval,
	}, nil
}

func (m PracticeModel) Session() *practicesession.PracticeSession { return m.session }

func (m PracticeModel) Outcome() Outcome { return *m.outcome }

func (m PracticeModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m PracticeModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), textarea.Blink)
}

func (m PracticeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// The session belongs to the scoring command; keep the chain alive
		// without touching it.
		if m.scoring {
			return m, m.tick()
		}
		// Stop rescheduling once the session is over.
		if m.session.Tick() {
			return m, m.tick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(20, msg.Width-4))
		return m, nil

	case scoredMsg:
		m.scoring = false
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case tea.KeyMsg:
		if m.scoring {
			return m, nil
		}
		if m.session.State().Terminal() {
			switch msg.String() {
			case "enter", "q", "esc", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m PracticeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if err := m.session.Cancel(); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+r":
		if _, err := m.session.ToggleRecording(); err != nil {
			m.notice = err.Error()
		}
		return m, nil

	case "ctrl+l":
		if err := m.session.ClearDraft(); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case "ctrl+k":
		switch err := m.session.Skip(); {
		case errors.Is(err, practicesession.ErrSkipLastQuestion):
			m.notice = "The last question has to be answered."
		case err != nil:
			m.notice = err.Error()
		default:
			m.input.Reset()
		}
		return m, nil

	case "ctrl+s":
		if strings.TrimSpace(m.session.Draft()) == "" {
			m.notice = "Write an answer before moving on."
			return m, nil
		}
		if m.session.IsLast() {
			return m.finish()
		}
		if err := m.session.Advance(); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if err := m.session.EditDraft(m.input.Value()); err != nil {
		m.notice = err.Error()
	}
	return m, cmd
}

// finish commits the last answer off the update loop, since scoring may
// call out to a model. The session is not touched again until scoredMsg.
func (m PracticeModel) finish() (tea.Model, tea.Cmd) {
	m.scoring = true
	session := m.session
	return m, func() tea.Msg {
		return scoredMsg{err: session.Advance()}
	}
}

// ── Rendering ───────────────────────────────────────────────────────────────

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	recStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true)
	badgeStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(1, 2)
)

func (m PracticeModel) View() string {
	if m.scoring {
		return cardStyle.Render(titleStyle.Render("Scoring your answers…"))
	}
	snap := m.session.Snapshot()

	var body string
	switch snap.State {
	case practicesession.StateCompleted:
		body = m.renderSummary(snap)
	case practicesession.StateCancelled:
		body = mutedStyle.Render("Session cancelled.")
	default:
		body = m.renderQuestion(snap)
	}
	return cardStyle.Render(body)
}

func (m PracticeModel) renderQuestion(snap practicesession.Snapshot) string {
	var b strings.Builder

	header := titleStyle.Render(fmt.Sprintf("Question %d of %d", snap.Index+1, snap.Total))
	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		badgeStyle.Render(snap.Question.Category.String()),
		" ",
		badgeStyle.Render(string(snap.Question.Difficulty)),
	)
	timer := mutedStyle.Render("⏱ " + snap.Elapsed())
	if snap.Recording {
		timer += "  " + recStyle.Render("● REC")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", badges, "  ", timer))
	b.WriteString("\n")
	b.WriteString(renderProgressBar(snap.Progress, 30))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(snap.Question.Text))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	help := "ctrl+s next"
	if snap.IsLast {
		help = "ctrl+s finish"
	} else {
		help += " • ctrl+k skip"
	}
	help += " • ctrl+r record • ctrl+l clear • esc cancel"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m PracticeModel) renderSummary(snap practicesession.Snapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Interview complete"))
	b.WriteString("\n\n")
	if snap.Score != nil {
		b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d/100", *snap.Score)))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Answered:  %d", snap.Answered)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Skipped:   %d", snap.Remaining)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Progress:  %d%%", snap.Progress)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Time:      " + snap.Elapsed()))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter to exit"))

	return b.String()
}

func renderProgressBar(percent, width int) string {
	filled := percent * width / 100
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render(strings.Repeat("░", width-filled))
	return bar + mutedStyle.Render(fmt.Sprintf(" %d%%", percent))
}
