package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/coursecrawl/internal/dom"
)

var campuses = []dom.Option{
	{Value: "N", Text: "Nottingham"},
	{Value: "M", Text: "Malaysia"},
	{Value: "C", Text: "China"},
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestSelectModel(t *testing.T) {
	m, cmd := send(newSelectModel("Which campus?", campuses), key(tea.KeyDown), key(tea.KeyEnter))
	sm := m.(selectModel)
	require.NotNil(t, sm.chosen)
	assert.Equal(t, campuses[1], *sm.chosen)
	assert.False(t, sm.aborted)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Contains(t, sm.View(), "Malaysia")
}

func TestSelectModelAbort(t *testing.T) {
	m, _ := send(newSelectModel("Which campus?", campuses), key(tea.KeyCtrlC))
	sm := m.(selectModel)
	assert.True(t, sm.aborted)
	assert.Nil(t, sm.chosen)
}

func TestMultiSelectModel(t *testing.T) {
	choices := []Choice{{"MongoDB", "mongo"}, {"Local JSON file", "local"}, {"SQLite database", "sqlite"}}

	t.Run("requires a minimum", func(t *testing.T) {
		m, cmd := send(newMultiSelectModel("Select output methods", choices, 1), key(tea.KeyEnter))
		mm := m.(multiSelectModel)
		assert.Nil(t, cmd)
		assert.False(t, mm.done)
		assert.Contains(t, mm.View(), "select at least 1")
	})

	t.Run("keeps offered order", func(t *testing.T) {
		m, cmd := send(newMultiSelectModel("Select output methods", choices, 1),
			key(tea.KeyDown), key(tea.KeyDown), key(tea.KeySpace),
			key(tea.KeyUp), key(tea.KeyUp), runes("x"),
			key(tea.KeyEnter),
		)
		mm := m.(multiSelectModel)
		assert.True(t, mm.done)
		assert.Equal(t, []string{"mongo", "sqlite"}, mm.selected())
		require.NotNil(t, cmd)
		assert.Contains(t, mm.View(), "MongoDB, SQLite database")
	})

	t.Run("toggle off", func(t *testing.T) {
		m, _ := send(newMultiSelectModel("Select output methods", choices, 0), key(tea.KeySpace), key(tea.KeySpace))
		assert.Empty(t, m.(multiSelectModel).selected())
	})

	t.Run("abort", func(t *testing.T) {
		m, _ := send(newMultiSelectModel("Select output methods", choices, 1), key(tea.KeyEsc))
		assert.True(t, m.(multiSelectModel).aborted)
	})
}

func TestInputModel(t *testing.T) {
	m, cmd := send(newInputModel("MongoDB URI", "mongodb://"), key(tea.KeyEnter))
	assert.Nil(t, cmd, "empty input is not accepted")
	assert.False(t, m.(inputModel).done)

	m, cmd = send(m, runes("mongodb://db:27017/courses "), key(tea.KeyEnter))
	im := m.(inputModel)
	assert.True(t, im.done)
	assert.Equal(t, "mongodb://db:27017/courses", im.value)
	require.NotNil(t, cmd)

	m, _ = send(newInputModel("MongoDB URI", ""), key(tea.KeyCtrlC))
	assert.True(t, m.(inputModel).aborted)
}
