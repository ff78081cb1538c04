package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Choice is an entry of a multi-select prompt.
type Choice struct {
	Title string
	Value string
}

type multiSelectModel struct {
	message string
	choices []Choice
	checked []bool
	cursor  int
	min     int
	hint    string
	done    bool
	aborted bool
}

func newMultiSelectModel(message string, choices []Choice, min int) multiSelectModel {
	return multiSelectModel{
		message: message,
		choices: choices,
		checked: make([]bool, len(choices)),
		min:     min,
	}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.choices) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
			m.hint = ""
		}
	case "enter":
		if len(m.selected()) < m.min {
			m.hint = fmt.Sprintf("select at least %d", m.min)
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m multiSelectModel) selected() []string {
	var out []string
	for i, c := range m.choices {
		if m.checked[i] {
			out = append(out, c.Value)
		}
	}
	return out
}

func (m multiSelectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.message))
	if m.done {
		titles := make([]string, 0, len(m.choices))
		for i, c := range m.choices {
			if m.checked[i] {
				titles = append(titles, c.Title)
			}
		}
		b.WriteString(" " + strings.Join(titles, ", ") + "\n")
		return b.String()
	}
	b.WriteString(" " + hintStyle.Render("- Space to select. Return to submit") + "\n")
	for i, c := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if m.checked[i] {
			box = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, c.Title)
	}
	if m.hint != "" {
		b.WriteString(errorStyle.Render(m.hint) + "\n")
	}
	return b.String()
}
