// Package navigator drives the catalogue's search form.
//
// The form is session-stateful and does not survive back-navigation from a
// detail view, so every detail visit is followed by a full reload and a
// replay of the search from the home page with the same, already resolved,
// campus and year.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

// State is where the navigator believes the page is.
type State int

const (
	Home State = iota
	SearchCriteriaLoaded
	Results
	Empty
	DetailOpen
)

func (s State) String() string {
	switch s {
	case Home:
		return "home"
	case SearchCriteriaLoaded:
		return "search-criteria"
	case Results:
		return "results"
	case Empty:
		return "empty"
	case DetailOpen:
		return "detail"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is the fragment a group search rendered. Exactly one is produced
// per submission.
type Outcome int

const (
	OutcomeResults Outcome = iota + 1
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResults:
		return "results"
	case OutcomeEmpty:
		return "empty"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ErrState is returned when an operation is called from the wrong state.
var ErrState = errors.New("navigator: operation not valid in current state")

// ErrUnknownOption is returned when a pinned code is not offered by the form.
var ErrUnknownOption = errors.New("navigator: option not offered")

// WaitError reports a wait that never resolved.
type WaitError struct {
	Step     string
	Selector string
	Err      error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("%s: waiting for %s: %v", e.Step, e.Selector, e.Err)
}

func (e *WaitError) Unwrap() error { return e.Err }

// Prompter asks the operator to pick one of the options a select offers.
type Prompter interface {
	Choose(ctx context.Context, message string, options []dom.Option) (dom.Option, error)
}

// Navigator owns the page and its state machine.
type Navigator struct {
	page     dom.Page
	prompter Prompter
	urls     []string
	log      *log.Logger

	cfg      common.TraversalConfig
	resolved bool
	state    State
}

// New returns a Navigator for page. pins carries whatever campus and year the
// caller already knows; the rest is asked of prompter the first time the
// search form is reached. urls are visited in order by Open.
func New(page dom.Page, prompter Prompter, pins common.TraversalConfig, urls []string, logger *log.Logger) *Navigator {
	return &Navigator{
		page:     page,
		prompter: prompter,
		urls:     urls,
		log:      logger,
		cfg:      pins,
	}
}

// State returns the current state.
func (n *Navigator) State() State { return n.state }

// Config returns the traversal config. It is only complete once EnterSearch
// has succeeded.
func (n *Navigator) Config() common.TraversalConfig { return n.cfg }

// Open loads the catalogue.
func (n *Navigator) Open(ctx context.Context) error {
	for _, u := range n.urls {
		if u == "" {
			continue
		}
		n.log.Debug("navigating", "url", u)
		if err := n.page.Navigate(ctx, u); err != nil {
			return fmt.Errorf("opening %s: %w", u, err)
		}
	}
	n.state = Home
	return nil
}

// EnterSearch moves from the home page to a search form primed with campus
// and year. The first call resolves the traversal config; later calls reuse
// it without reading labels from the page again.
func (n *Navigator) EnterSearch(ctx context.Context) error {
	if n.state != Home {
		return fmt.Errorf("%w: enter search from %s", ErrState, n.state)
	}

	n.log.Debug("clicking 'Search for Courses'")
	if err := n.wait(ctx, "home", dom.ByID(dom.EntryButton)); err != nil {
		return err
	}
	if err := n.page.Click(ctx, dom.EntryButton); err != nil {
		return fmt.Errorf("clicking entry button: %w", err)
	}
	if err := n.wait(ctx, "search form", dom.ByID(dom.CampusSelect)); err != nil {
		return err
	}

	cfg := n.cfg
	if err := n.applyAxis(ctx, &cfg.Campus, dom.CampusSelect, "Which campus?", campusLabel); err != nil {
		return err
	}
	n.log.Debug("waiting for academic year data")
	if err := n.wait(ctx, "year options", dom.YearOptionsLoaded); err != nil {
		return err
	}
	if err := n.applyAxis(ctx, &cfg.Year, dom.YearSelect, "Which year?", yearLabel); err != nil {
		return err
	}
	if !n.resolved {
		n.cfg, n.resolved = cfg, true
		n.log.Info("config selected", "campus", cfg.Campus.Label, "year", cfg.Year.Label)
	}

	n.state = SearchCriteriaLoaded
	return nil
}

// applyAxis selects the axis value, resolving it first if this is the
// initial pass.
func (n *Navigator) applyAxis(ctx context.Context, axis *common.Axis, selectID, message string, label func(string) string) error {
	if !n.resolved && (axis.Code == "" || axis.Label == "") {
		opts, err := n.page.Options(ctx, selectID)
		if err != nil {
			return fmt.Errorf("reading %s options: %w", selectID, err)
		}
		opts = nonEmpty(opts)

		var chosen dom.Option
		if axis.Code == "" {
			if chosen, err = n.prompter.Choose(ctx, message, opts); err != nil {
				return err
			}
		} else {
			var ok bool
			if chosen, ok = find(opts, axis.Code); !ok {
				return fmt.Errorf("%w: %s has no option %q", ErrUnknownOption, selectID, axis.Code)
			}
		}
		axis.Code, axis.Label = chosen.Value, label(chosen.Text)
	}

	if err := n.page.Select(ctx, selectID, axis.Code); err != nil {
		return fmt.Errorf("selecting %q in %s: %w", axis.Code, selectID, err)
	}
	return nil
}

// Groups lists the schools offered by the group filter in page order.
func (n *Navigator) Groups(ctx context.Context) ([]common.Group, error) {
	if n.state != SearchCriteriaLoaded {
		return nil, fmt.Errorf("%w: list groups from %s", ErrState, n.state)
	}
	opts, err := n.page.Options(ctx, dom.GroupSelect)
	if err != nil {
		return nil, fmt.Errorf("reading groups: %w", err)
	}
	opts = nonEmpty(opts)
	groups := make([]common.Group, 0, len(opts))
	for _, o := range opts {
		groups = append(groups, common.Group{Code: o.Value, Name: o.Text})
	}
	return groups, nil
}

// Search submits the form for g and reports which fragment came back.
func (n *Navigator) Search(ctx context.Context, g common.Group) (Outcome, error) {
	if n.state != SearchCriteriaLoaded {
		return 0, fmt.Errorf("%w: search from %s", ErrState, n.state)
	}
	if err := n.page.Select(ctx, dom.GroupSelect, g.Code); err != nil {
		return 0, fmt.Errorf("selecting group %s: %w", g.Code, err)
	}
	if err := n.page.Click(ctx, dom.SearchButton); err != nil {
		return 0, fmt.Errorf("submitting search for %s: %w", g.Code, err)
	}

	// The site renders exactly one of these two fragments and gives no
	// earlier hint of which.
	results, empty := dom.ByID(dom.ResultsPanel), dom.ByID(dom.EmptyPanel)
	i, err := n.page.WaitFirst(ctx, results, empty)
	if err != nil {
		return 0, &WaitError{Step: "search " + g.Code, Selector: results + " | " + empty, Err: err}
	}
	if i == 0 {
		n.state = Results
		return OutcomeResults, nil
	}
	n.state = Empty
	return OutcomeEmpty, nil
}

// OpenDetail opens the detail view of listing row i.
func (n *Navigator) OpenDetail(ctx context.Context, i int) error {
	if n.state != Results {
		return fmt.Errorf("%w: open detail from %s", ErrState, n.state)
	}
	if err := n.page.Click(ctx, dom.CodeLink(i)); err != nil {
		return fmt.Errorf("opening row %d: %w", i, err)
	}
	if err := n.wait(ctx, fmt.Sprintf("detail %d", i), dom.ByID(dom.DetailAnchor)); err != nil {
		return err
	}
	n.state = DetailOpen
	return nil
}

// Reset reloads the page and primes a fresh search form.
func (n *Navigator) Reset(ctx context.Context) error {
	n.log.Debug("reloading page")
	if err := n.page.Reload(ctx); err != nil {
		return fmt.Errorf("reloading: %w", err)
	}
	n.state = Home
	return n.EnterSearch(ctx)
}

// Resume reloads and replays the search for g, leaving a freshly rendered
// listing. Row indices read before the call are no longer valid.
func (n *Navigator) Resume(ctx context.Context, g common.Group) (Outcome, error) {
	if err := n.Reset(ctx); err != nil {
		return 0, err
	}
	return n.Search(ctx, g)
}

// Page exposes the underlying page for extraction.
func (n *Navigator) Page() dom.Reader { return n.page }

func (n *Navigator) wait(ctx context.Context, step, selector string) error {
	if err := n.page.WaitFor(ctx, selector); err != nil {
		return &WaitError{Step: step, Selector: selector, Err: err}
	}
	return nil
}

func campusLabel(text string) string {
	return strings.TrimSpace(text)
}

// yearLabel keeps the leading token of an option like "2025/26 Academic Year".
func yearLabel(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func nonEmpty(opts []dom.Option) []dom.Option {
	out := opts[:0:0]
	for _, o := range opts {
		if o.Value != "" {
			out = append(out, o)
		}
	}
	return out
}

func find(opts []dom.Option, value string) (dom.Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return dom.Option{}, false
}
