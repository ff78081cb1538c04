package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputModel struct {
	message string
	input   textinput.Model
	value   string
	done    bool
	aborted bool
}

func newInputModel(message, placeholder string) inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 60
	ti.Focus()
	return inputModel{message: message, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			v := strings.TrimSpace(m.input.Value())
			if v == "" {
				return m, nil
			}
			m.value, m.done = v, true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return titleStyle.Render(m.message) + "\n"
	}
	return titleStyle.Render(m.message) + "\n" + m.input.View() + "\n"
}
