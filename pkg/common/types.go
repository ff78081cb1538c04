package common

import (
	"math"
	"strconv"
	"time"
)

// Axis is one of the two global filter selections (campus, academic year).
// The zero value means the axis has not been pinned yet.
type Axis struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// IsZero reports whether no code has been chosen for the axis.
func (a Axis) IsZero() bool {
	return a.Code == ""
}

// TraversalConfig scopes every search of a run. Before the run starts it only
// carries whatever the caller pinned; once the navigator has resolved it the
// value is never changed again.
type TraversalConfig struct {
	Campus Axis `json:"campus"`
	Year   Axis `json:"year"`
}

// Resolved reports whether both axes carry a code and a label.
func (c TraversalConfig) Resolved() bool {
	return c.Campus.Code != "" && c.Campus.Label != "" &&
		c.Year.Code != "" && c.Year.Label != ""
}

// Group is a school whose code selects a subset of the catalogue.
type Group struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

// ListingRow is one row of a group's result listing. It only lives long
// enough to drive navigation to the matching detail view.
type ListingRow struct {
	Level    *string `json:"level,omitempty"`
	Code     *string `json:"code,omitempty"`
	Title    *string `json:"title,omitempty"`
	Semester *string `json:"semester,omitempty"`
}

// Number is a numeric course field. Unparseable text is kept as NaN.
type Number float64

// NaN is the sentinel for numeric text that could not be parsed.
var NaN = Number(math.NaN())

// IsNaN reports whether n is the not-a-number sentinel.
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// MarshalJSON encodes NaN as null, the same way a browser serialises it.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsNaN() || math.IsInf(float64(n), 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// UnmarshalJSON decodes null back into NaN.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NaN
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Convenor is a member of staff running the course.
type Convenor struct {
	Name *string `json:"name,omitempty" bson:"name,omitempty"`
}

// Class is one teaching activity of a course.
type Class struct {
	Activity        *string `json:"activity,omitempty" bson:"activity,omitempty"`
	NumOfWeeks      *string `json:"numOfWeeks,omitempty" bson:"numOfWeeks,omitempty"`
	NumOfSessions   *string `json:"numOfSessions,omitempty" bson:"numOfSessions,omitempty"`
	SessionDuration *string `json:"sessionDuration,omitempty" bson:"sessionDuration,omitempty"`
}

// Assessment is one assessed component of a course.
type Assessment struct {
	Type         *string `json:"type,omitempty" bson:"type,omitempty"`
	Weight       *string `json:"weight,omitempty" bson:"weight,omitempty"`
	Requirements *string `json:"requirements,omitempty" bson:"requirements,omitempty"`
}

// DetailRecord is the fully extracted course. Nil string fields were not
// rendered on the detail page.
type DetailRecord struct {
	Code       *string      `json:"code,omitempty" bson:"code,omitempty"`
	Title      *string      `json:"title,omitempty" bson:"title,omitempty"`
	Credits    Number       `json:"credits" bson:"credits"`
	Level      Number       `json:"level" bson:"level"`
	Summary    *string      `json:"summary,omitempty" bson:"summary,omitempty"`
	Aims       *string      `json:"aims,omitempty" bson:"aims,omitempty"`
	Offering   *string      `json:"offering,omitempty" bson:"offering,omitempty"`
	Convenor   []Convenor   `json:"convenor" bson:"convenor"`
	Semester   *string      `json:"semester,omitempty" bson:"semester,omitempty"`
	Requisites *string      `json:"requisites,omitempty" bson:"requisites,omitempty"`
	Outcome    *string      `json:"outcome,omitempty" bson:"outcome,omitempty"`
	Class      []Class      `json:"class" bson:"class"`
	Assessment []Assessment `json:"assessment" bson:"assessment"`
	BelongsTo  Group        `json:"belongsTo" bson:"belongsTo"`
}

// GroupResult is what a run did with one group.
type GroupResult struct {
	Group   Group
	Empty   bool
	Records int
	// NaNFields counts numeric fields that fell back to NaN.
	NaNFields int
}

// RunSummary is the outcome of one traversal, complete or not.
type RunSummary struct {
	RunID    string
	Config   TraversalConfig
	Groups   []GroupResult
	Total    int
	Started  time.Time
	Finished time.Time
	// Done is set only when every group and row finished without a fatal error.
	Done bool
}

// Records returns the number of records written across all groups.
func (s RunSummary) Records() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Records
	}
	return n
}

// Str returns a pointer to s, for building records in code.
func Str(s string) *string {
	return &s
}
