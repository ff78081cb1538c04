// Package testsite is an in-memory catalogue that behaves like the live one
// closely enough to drive the navigator: the search form must be primed
// before searching, year options appear only after a campus is picked, and
// the session breaks if a second detail view is opened without a reload.
package testsite

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/internal/snapshot"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

var (
	// ErrNotRendered is returned when clicking or selecting an element the
	// current view does not contain.
	ErrNotRendered = errors.New("testsite: element not rendered")
	// ErrSessionDrift is returned when a detail view is opened from a listing
	// that was not reloaded since the previous detail visit.
	ErrSessionDrift = errors.New("testsite: view state drifted")
	// ErrTimeout stands in for a wait bound elapsing.
	ErrTimeout = fmt.Errorf("testsite: %w", context.DeadlineExceeded)
)

// Course is one catalogue entry. Empty strings are rendered as empty
// elements; bases listed in Omit are not rendered at all.
type Course struct {
	Level    string
	Code     string
	Title    string
	Semester string

	Credits     string
	LevelNumber string
	Summary     string
	Aims        string
	Offering    string
	Requisites  string
	Outcome     string
	Convenors   []string
	Classes     [][4]string
	Assessments [][3]string
	Omit        []string
}

// Group is a school and its courses.
type Group struct {
	common.Group
	Courses []Course
}

type view int

const (
	viewHome view = iota
	viewCriteria
	viewResults
	viewEmpty
	viewDetail
)

// Site is a fake catalogue session. It implements dom.Page.
type Site struct {
	Campuses []dom.Option
	// Years are the year options offered once a campus is selected.
	Years  []dom.Option
	Groups []Group
	// OnReload, if set, runs after every reload with the reload count.
	OnReload func(s *Site, reloads int)

	Reloads     int
	Navigations []string
	Opened      []string
	Searches    []string
	Closed      bool

	view               view
	campus, year       string
	group              string
	detail             int
	detailsSinceReload int
}

// Navigate records url and shows the home page.
func (s *Site) Navigate(_ context.Context, url string) error {
	s.Navigations = append(s.Navigations, url)
	s.toHome()
	return nil
}

// Reload returns to the home page and clears the session.
func (s *Site) Reload(context.Context) error {
	s.Reloads++
	s.toHome()
	if s.OnReload != nil {
		s.OnReload(s, s.Reloads)
	}
	return nil
}

// Close marks the site closed.
func (s *Site) Close() error {
	s.Closed = true
	return nil
}

func (s *Site) toHome() {
	s.view = viewHome
	s.campus, s.year, s.group = "", "", ""
	s.detailsSinceReload = 0
}

// Click acts on a rendered control.
func (s *Site) Click(ctx context.Context, id string) error {
	if !s.rendered(dom.ByID(id)) {
		return fmt.Errorf("%w: %s in %s view", ErrNotRendered, id, s.viewName())
	}
	switch {
	case id == dom.EntryButton:
		s.view = viewCriteria
		s.campus, s.year, s.group = "", "", ""
	case id == dom.SearchButton:
		if s.campus == "" || s.year == "" || s.group == "" {
			return fmt.Errorf("testsite: search submitted without campus, year and group")
		}
		s.Searches = append(s.Searches, s.group)
		if g := s.findGroup(s.group); g != nil && len(g.Courses) > 0 {
			s.view = viewResults
		} else {
			s.view = viewEmpty
		}
	case strings.HasPrefix(id, dom.ListingCode+dom.Delimiter):
		if s.detailsSinceReload > 0 {
			return ErrSessionDrift
		}
		var i int
		if _, err := fmt.Sscanf(strings.TrimPrefix(id, dom.ListingCode+dom.Delimiter), "%d", &i); err != nil {
			return err
		}
		s.view, s.detail = viewDetail, i
		s.detailsSinceReload++
		s.Opened = append(s.Opened, s.findGroup(s.group).Courses[i].Code)
	}
	return nil
}

// Select picks an offered option.
func (s *Site) Select(ctx context.Context, id, value string) error {
	opts, err := s.Options(ctx, id)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("%w: select %s in %s view", ErrNotRendered, id, s.viewName())
	}
	if _, ok := findOption(opts, value); !ok {
		return fmt.Errorf("testsite: %s has no option %q", id, value)
	}
	switch id {
	case dom.CampusSelect:
		s.campus, s.year = value, ""
	case dom.YearSelect:
		s.year = value
	case dom.GroupSelect:
		s.group = value
	}
	return nil
}

// WaitFor fails with ErrTimeout unless selector is rendered.
func (s *Site) WaitFor(_ context.Context, selector string) error {
	if s.rendered(selector) {
		return nil
	}
	return fmt.Errorf("%s in %s view: %w", selector, s.viewName(), ErrTimeout)
}

// WaitFirst reports the first rendered selector.
func (s *Site) WaitFirst(_ context.Context, selectors ...string) (int, error) {
	for i, sel := range selectors {
		if s.rendered(sel) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("none of %v in %s view: %w", selectors, s.viewName(), ErrTimeout)
}

// InnerHTML reads the current view.
func (s *Site) InnerHTML(ctx context.Context, id string) (string, bool, error) {
	return s.snapshot().InnerHTML(ctx, id)
}

// RowIDs lists the row ids of tableID in the current view.
func (s *Site) RowIDs(ctx context.Context, tableID string) ([]string, error) {
	return s.snapshot().RowIDs(ctx, tableID)
}

// Options lists the select's options in the current view.
func (s *Site) Options(ctx context.Context, selectID string) ([]dom.Option, error) {
	return s.snapshot().Options(ctx, selectID)
}

// HTML renders the current view.
func (s *Site) HTML() string {
	var b strings.Builder
	b.WriteString("<html><body>")
	switch s.view {
	case viewHome:
		fmt.Fprintf(&b, `<a id="%s">Search for Courses</a>`, dom.EntryButton)
	case viewCriteria:
		s.renderCriteria(&b)
	case viewResults:
		s.renderResults(&b)
	case viewEmpty:
		fmt.Fprintf(&b, `<div id="%s">No modules match your search.</div>`, dom.EmptyPanel)
	case viewDetail:
		s.renderDetail(&b, s.findGroup(s.group).Courses[s.detail])
	}
	b.WriteString("</body></html>")
	return b.String()
}

func (s *Site) renderCriteria(b *strings.Builder) {
	writeSelect(b, dom.CampusSelect, s.Campuses)
	var years []dom.Option
	if s.campus != "" {
		years = s.Years
	}
	writeSelect(b, dom.YearSelect, years)
	groups := make([]dom.Option, 0, len(s.Groups))
	for _, g := range s.Groups {
		groups = append(groups, dom.Option{Value: g.Code, Text: g.Name})
	}
	writeSelect(b, dom.GroupSelect, groups)
	fmt.Fprintf(b, `<input type="button" id="%s" value="Search">`, dom.SearchButton)
}

func (s *Site) renderResults(b *strings.Builder) {
	g := s.findGroup(s.group)
	fmt.Fprintf(b, `<div id="%s"><table id="%s"><tbody>`, dom.ResultsPanel, dom.ResultsTable)
	b.WriteString("<tr><th>Level</th><th>Code</th><th>Title</th><th>Semester</th></tr>")
	for j, c := range g.Courses {
		fmt.Fprintf(b, `<tr id="trUN_PAM_CRSE_VW$0_row%d">`, j+1)
		cell(b, dom.ListingLevel, j, c.Level)
		fmt.Fprintf(b, `<td><a id="%s">%s</a></td>`, dom.CodeLink(j), html.EscapeString(c.Code))
		cell(b, dom.ListingTitle, j, c.Title)
		cell(b, dom.ListingSemester, j, c.Semester)
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div>")
}

func (s *Site) renderDetail(b *strings.Builder, c Course) {
	omit := make(map[string]bool, len(c.Omit))
	for _, o := range c.Omit {
		omit[o] = true
	}
	scalar := func(base, v string) {
		if !omit[base] {
			fmt.Fprintf(b, `<span id="%s">%s</span>`, dom.ID(base, dom.At(0)), html.EscapeString(v))
		}
	}
	scalar(dom.DetailCode, c.Code)
	scalar(dom.DetailTitle, c.Title)
	scalar(dom.DetailCredits, c.Credits)
	scalar(dom.DetailLevel, c.LevelNumber)
	scalar(dom.DetailSummary, c.Summary)
	scalar(dom.DetailAims, c.Aims)
	scalar(dom.DetailOffering, c.Offering)
	scalar(dom.DetailSemester, c.Semester)
	scalar(dom.DetailRequisites, c.Requisites)
	scalar(dom.DetailOutcome, c.Outcome)

	rows := make([][]string, 0, len(c.Convenors))
	for _, name := range c.Convenors {
		rows = append(rows, []string{name})
	}
	writeTable(b, dom.ConvenorTable, []string{dom.ConvenorName}, rows, omit)

	rows = rows[:0]
	for _, cl := range c.Classes {
		cl := cl // per-iteration copy; go directive is below 1.22
		rows = append(rows, cl[:])
	}
	writeTable(b, dom.ClassTable, []string{dom.ClassActivity, dom.ClassWeeks, dom.ClassSessions, dom.ClassSessionDuration}, rows, omit)

	rows = rows[:0]
	for _, a := range c.Assessments {
		a := a // per-iteration copy; go directive is below 1.22
		rows = append(rows, a[:])
	}
	writeTable(b, dom.AssessTable, []string{dom.AssessType, dom.AssessWeight, dom.AssessRequirements}, rows, omit)
}

func (s *Site) snapshot() *snapshot.Page {
	p, err := snapshot.FromString(s.HTML())
	if err != nil {
		panic(err)
	}
	return p
}

func (s *Site) rendered(selector string) bool {
	return s.snapshot().Has(selector)
}

func (s *Site) findGroup(code string) *Group {
	for i := range s.Groups {
		if s.Groups[i].Code == code {
			return &s.Groups[i]
		}
	}
	return nil
}

func (s *Site) viewName() string {
	return [...]string{"home", "criteria", "results", "empty", "detail"}[s.view]
}

func writeSelect(b *strings.Builder, id string, opts []dom.Option) {
	fmt.Fprintf(b, `<select id="%s"><option value=""></option>`, id)
	for _, o := range opts {
		fmt.Fprintf(b, `<option value="%s">%s</option>`, html.EscapeString(o.Value), html.EscapeString(o.Text))
	}
	b.WriteString("</select>")
}

func writeTable(b *strings.Builder, id string, bases []string, rows [][]string, omit map[string]bool) {
	fmt.Fprintf(b, `<table id="%s"><tbody><tr>`, id)
	for range bases {
		b.WriteString("<th></th>")
	}
	b.WriteString("</tr>")
	for k, row := range rows {
		fmt.Fprintf(b, `<tr id="tr%s_row%d">`, id, k+1)
		for c, base := range bases {
			if omit[base] {
				b.WriteString("<td></td>")
				continue
			}
			cell(b, base, k, row[c])
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func cell(b *strings.Builder, base string, i int, v string) {
	fmt.Fprintf(b, `<td><span id="%s">%s</span></td>`, dom.ID(base, dom.At(i)), html.EscapeString(v))
}

func findOption(opts []dom.Option, value string) (dom.Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return dom.Option{}, false
}
