package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-scripts/coursecrawl/internal/dom"
)

// optionItem adapts a select option to list.Item.
type optionItem struct {
	opt dom.Option
}

// FilterValue implements list.Item interface
func (i optionItem) FilterValue() string { return i.opt.Text }

// Title returns the item's title
func (i optionItem) Title() string { return i.opt.Text }

// Description returns the item's description
func (i optionItem) Description() string { return i.opt.Value }

// selectModel is a single-choice list of options.
type selectModel struct {
	list    list.Model
	chosen  *dom.Option
	aborted bool
}

func newSelectModel(message string, options []dom.Option) selectModel {
	items := make([]list.Item, 0, len(options))
	for _, o := range options {
		items = append(items, optionItem{opt: o})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("170"))

	height := len(items) + 6
	if height > 20 {
		height = 20
	}
	l := list.New(items, delegate, 60, height)
	l.Title = message
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	return selectModel{list: l}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)

	case tea.KeyMsg:
		// While a filter is being typed, keys belong to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem); ok {
				opt := item.opt
				m.chosen = &opt
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.chosen != nil {
		return titleStyle.Render(m.list.Title) + " " + m.chosen.Text + "\n"
	}
	return m.list.View()
}
