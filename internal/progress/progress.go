// Package progress reports how far a traversal has got.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/log"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/go-scripts/coursecrawl/pkg/common"
)

// Tracker reports traversal progress as log lines, with a spinner on the
// terminal while a record is being fetched.
type Tracker struct {
	out     io.Writer
	log     *log.Logger
	bar     progress.Model
	spinner *spinner.Spinner
	mu      sync.Mutex

	groups    int
	processed int
}

// New creates a Tracker. If animate is false no spinner is drawn, which is
// what non-terminal output wants.
func New(out io.Writer, logger *log.Logger, animate bool) *Tracker {
	t := &Tracker{
		out: out,
		log: logger,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
	if animate {
		t.spinner = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return t
}

// SetTotalGroups sets the number of groups the run will visit.
func (t *Tracker) SetTotalGroups(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.groups = total
	t.processed = 0
}

// StartGroup reports group i (0-based) of the run.
func (t *Tracker) StartGroup(i int, g common.Group) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log.Info(fmt.Sprintf("School <%s> [%d/%d]", g.Name, i+1, t.groups), "code", g.Code)
}

// EmptyGroup reports a group whose search returned nothing.
func (t *Tracker) EmptyGroup(g common.Group) {
	t.log.Info("No courses", "school", g.Name)
}

// Listing reports how many rows a group's listing has.
func (t *Tracker) Listing(g common.Group, rows int) {
	t.log.Info(fmt.Sprintf("%d Courses loaded", rows), "school", g.Name)
}

// StartRow reports row j (0-based) of total and spins until FinishRow.
func (t *Tracker) StartRow(j, total int, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log.Info(fmt.Sprintf("Course <%s> [%d/%d]", title, j+1, total))
	if t.spinner != nil {
		t.spinner.Suffix = fmt.Sprintf(" [%d/%d] %s", j+1, total, title)
		t.spinner.Start()
	}
}

// FinishRow stops the spinner and reports the written record.
func (t *Tracker) FinishRow(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.spinner != nil {
		t.spinner.Stop()
	}
	t.log.Info("Uploaded", "code", code)
}

// FinishGroup advances the overall bar.
func (t *Tracker) FinishGroup(g common.Group) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processed++
	if t.groups > 0 {
		fmt.Fprintf(t.out, "Progress: %s %d/%d schools\n",
			t.bar.ViewAs(float64(t.processed)/float64(t.groups)), t.processed, t.groups)
	}
}

// GetProgress returns the fraction of groups processed.
func (t *Tracker) GetProgress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.groups == 0 {
		return 0
	}
	return float64(t.processed) / float64(t.groups)
}

// Stop halts the spinner if one is running.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.spinner != nil {
		t.spinner.Stop()
	}
}

// Summary writes a per-school table of the run.
func (t *Tracker) Summary(s common.RunSummary) {
	fmt.Fprint(t.out, RenderSummary(s))
}

// RenderSummary formats s as a table.
func RenderSummary(s common.RunSummary) string {
	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Course_%s_%s  run %s", s.Config.Campus.Label, s.Config.Year.Label, s.RunID))
	tw.AppendHeader(table.Row{"#", "Code", "School", "Courses", "NaN fields"})
	nan := 0
	for i, g := range s.Groups {
		courses := fmt.Sprint(g.Records)
		if g.Empty {
			courses = "none"
		}
		tw.AppendRow(table.Row{i + 1, g.Group.Code, g.Group.Name, courses, g.NaNFields})
		nan += g.NaNFields
	}
	status := "incomplete"
	if s.Done {
		status = "complete"
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d/%d schools, %s", len(s.Groups), s.Total, status), s.Records(), nan})
	tw.SetStyle(table.StyleRounded)
	return tw.Render() + "\n"
}

// LogWriter wraps w so that writes clear the spinner first and redraw it
// afterwards. Route log output through it to keep lines and frames apart.
func (t *Tracker) LogWriter(w io.Writer) io.Writer {
	return &pausingWriter{spinner: t.spinner, w: w}
}

type pausingWriter struct {
	spinner *spinner.Spinner
	w       io.Writer
}

func (p *pausingWriter) Write(b []byte) (int, error) {
	if p.spinner == nil || !p.spinner.Active() {
		return p.w.Write(b)
	}
	p.spinner.Stop()
	defer p.spinner.Start()
	return p.w.Write(b)
}
