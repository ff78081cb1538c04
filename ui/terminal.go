// Package ui asks the operator for whatever the command line left open:
// campus, academic year, output methods and the MongoDB URI.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-scripts/coursecrawl/internal/dom"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("ui: prompt aborted")

// Terminal runs prompts as small bubbletea programs.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal prompts on the given streams. Nil streams default to stdin and
// stderr.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &Terminal{in: in, out: out}
}

// Choose asks for one of options.
func (t *Terminal) Choose(ctx context.Context, message string, options []dom.Option) (dom.Option, error) {
	if len(options) == 0 {
		return dom.Option{}, fmt.Errorf("ui: nothing to choose for %q", message)
	}
	final, err := t.run(ctx, newSelectModel(message, options))
	if err != nil {
		return dom.Option{}, err
	}
	m := final.(selectModel)
	if m.aborted || m.chosen == nil {
		return dom.Option{}, ErrAborted
	}
	return *m.chosen, nil
}

// ChooseMany asks for at least min of choices and returns their values in
// the order offered.
func (t *Terminal) ChooseMany(ctx context.Context, message string, choices []Choice, min int) ([]string, error) {
	final, err := t.run(ctx, newMultiSelectModel(message, choices, min))
	if err != nil {
		return nil, err
	}
	m := final.(multiSelectModel)
	if m.aborted {
		return nil, ErrAborted
	}
	return m.selected(), nil
}

// Input asks for a line of text.
func (t *Terminal) Input(ctx context.Context, message, placeholder string) (string, error) {
	final, err := t.run(ctx, newInputModel(message, placeholder))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.value, nil
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}
