package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunPractice runs the model until the user leaves and returns the
// session outcome.
func RunPractice(model PracticeModel) (Outcome, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}

	m, ok := finalModel.(PracticeModel)
	if !ok {
		return Outcome{}, fmt.Errorf("unexpected model type %T", finalModel)
	}
	return m.Outcome(), nil
}
