package testsite

import (
	"context"
	"fmt"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/internal/snapshot"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

// Prompter answers prompts from a fixed table keyed by message. A message
// with no answer gets the first option.
type Prompter struct {
	Answers map[string]string
	Calls   []string
	Err     error
}

// Choose records message and returns the scripted answer.
func (p *Prompter) Choose(_ context.Context, message string, options []dom.Option) (dom.Option, error) {
	p.Calls = append(p.Calls, message)
	if p.Err != nil {
		return dom.Option{}, p.Err
	}
	want, ok := p.Answers[message]
	for _, o := range options {
		if !ok || o.Value == want {
			return o, nil
		}
	}
	return dom.Option{}, fmt.Errorf("testsite: no option %q for %q", want, message)
}

// NewCourse returns a fully populated course for code.
func NewCourse(code, title string) Course {
	return Course{
		Level:       "Level 1",
		Code:        code,
		Title:       title,
		Semester:    "Autumn",
		Credits:     "10",
		LevelNumber: "1",
		Summary:     "Summary of " + title,
		Aims:        "Aims of " + title,
		Offering:    "School of " + title,
		Requisites:  "None",
		Outcome:     "Outcomes of " + title,
		Convenors:   []string{"Ada Lovelace"},
		Classes:     [][4]string{{"Lecture", "11 weeks", "1 per week", "2 hours"}},
		Assessments: [][3]string{{"Exam", "100", "2 hour written exam"}},
	}
}

// New returns a site offering one campus and one year with the given
// groups.
func New(groups ...Group) *Site {
	return &Site{
		Campuses: []dom.Option{{Value: "N", Text: "Nottingham"}},
		Years:    []dom.Option{{Value: "25", Text: "2025"}},
		Groups:   groups,
	}
}

// NewGroup returns a group with courses.
func NewGroup(code, name string, courses ...Course) Group {
	return Group{Group: common.Group{Code: code, Name: name}, Courses: courses}
}

// DetailPage renders the detail view of c on its own.
func DetailPage(c Course) *snapshot.Page {
	s := &Site{Groups: []Group{{Courses: []Course{c}}}, view: viewDetail}
	return s.snapshot()
}

// ListingPage renders the results listing of courses on its own.
func ListingPage(courses ...Course) *snapshot.Page {
	s := &Site{Groups: []Group{{Courses: courses}}, view: viewResults}
	return s.snapshot()
}
