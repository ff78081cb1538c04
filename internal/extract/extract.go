// Package extract turns the currently rendered catalogue page into records.
// Nothing here navigates.
package extract

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

// Extractor reads listing rows and detail records.
type Extractor struct {
	log *log.Logger
}

// New returns an Extractor that reports lossy numeric fields to logger.
func New(logger *log.Logger) *Extractor {
	return &Extractor{log: logger}
}

// Listing reads every row of the results table in page order as plain
// text. Row indices are only valid for the page state they were read from.
func (e *Extractor) Listing(ctx context.Context, r dom.Reader) ([]common.ListingRow, error) {
	indices, err := dom.RowIndices(ctx, r, dom.ResultsTable)
	if err != nil {
		return nil, fmt.Errorf("enumerating listing rows: %w", err)
	}

	rows := make([]common.ListingRow, 0, len(indices))
	for _, i := range indices {
		idx := dom.At(i)
		var row common.ListingRow
		fields := []struct {
			base string
			dst  **string
		}{
			{dom.ListingLevel, &row.Level},
			{dom.ListingCode, &row.Code},
			{dom.ListingTitle, &row.Title},
			{dom.ListingSemester, &row.Semester},
		}
		for _, f := range fields {
			if *f.dst, err = dom.TextField(ctx, r, f.base, idx); err != nil {
				return nil, fmt.Errorf("reading listing row %d: %w", i, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Detail reads the open detail view into a record owned by g.
func (e *Extractor) Detail(ctx context.Context, r dom.Reader, g common.Group) (common.DetailRecord, error) {
	rec := common.DetailRecord{BelongsTo: g}
	first := dom.At(0)

	scalars := []struct {
		base string
		dst  **string
	}{
		{dom.DetailCode, &rec.Code},
		{dom.DetailTitle, &rec.Title},
		{dom.DetailSummary, &rec.Summary},
		{dom.DetailAims, &rec.Aims},
		{dom.DetailOffering, &rec.Offering},
		{dom.DetailSemester, &rec.Semester},
		{dom.DetailRequisites, &rec.Requisites},
		{dom.DetailOutcome, &rec.Outcome},
	}
	var err error
	for _, f := range scalars {
		if *f.dst, err = dom.Field(ctx, r, f.base, first); err != nil {
			return rec, fmt.Errorf("reading %s: %w", f.base, err)
		}
	}

	numbers := []struct {
		name string
		base string
		dst  *common.Number
	}{
		{"credits", dom.DetailCredits, &rec.Credits},
		{"level", dom.DetailLevel, &rec.Level},
	}
	for _, f := range numbers {
		raw, err := dom.Field(ctx, r, f.base, first)
		if err != nil {
			return rec, fmt.Errorf("reading %s: %w", f.base, err)
		}
		*f.dst = ParseNumber(raw)
		if f.dst.IsNaN() {
			e.log.Warn("numeric field not parseable, storing NaN",
				"field", f.name, "raw", deref(raw), "code", deref(rec.Code), "group", g.Code)
		}
	}

	if rec.Convenor, err = convenors(ctx, r); err != nil {
		return rec, err
	}
	if rec.Class, err = classes(ctx, r); err != nil {
		return rec, err
	}
	if rec.Assessment, err = assessments(ctx, r); err != nil {
		return rec, err
	}
	return rec, nil
}

// NaNFields counts the numeric fields of rec that hold the NaN sentinel.
func NaNFields(rec common.DetailRecord) int {
	n := 0
	if rec.Credits.IsNaN() {
		n++
	}
	if rec.Level.IsNaN() {
		n++
	}
	return n
}

// decimal is the only numeric form the catalogue renders. Hex, digit
// separators and infinities are left to fail.
var decimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber parses decimal text. Missing, blank, non-numeric and
// out-of-range text all yield common.NaN; nothing is coerced to zero.
func ParseNumber(raw *string) common.Number {
	if raw == nil {
		return common.NaN
	}
	s := strings.TrimSpace(*raw)
	if !decimal.MatchString(s) {
		return common.NaN
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return common.NaN
	}
	return common.Number(f)
}

func convenors(ctx context.Context, r dom.Reader) ([]common.Convenor, error) {
	indices, err := dom.RowIndices(ctx, r, dom.ConvenorTable)
	if err != nil {
		return nil, fmt.Errorf("enumerating convenors: %w", err)
	}
	out := make([]common.Convenor, 0, len(indices))
	for _, k := range indices {
		name, err := dom.Field(ctx, r, dom.ConvenorName, dom.At(k))
		if err != nil {
			return nil, fmt.Errorf("reading convenor %d: %w", k, err)
		}
		out = append(out, common.Convenor{Name: name})
	}
	return out, nil
}

func classes(ctx context.Context, r dom.Reader) ([]common.Class, error) {
	indices, err := dom.RowIndices(ctx, r, dom.ClassTable)
	if err != nil {
		return nil, fmt.Errorf("enumerating classes: %w", err)
	}
	out := make([]common.Class, 0, len(indices))
	for _, k := range indices {
		var c common.Class
		if err := readRow(ctx, r, k, map[string]**string{
			dom.ClassActivity:        &c.Activity,
			dom.ClassWeeks:           &c.NumOfWeeks,
			dom.ClassSessions:        &c.NumOfSessions,
			dom.ClassSessionDuration: &c.SessionDuration,
		}); err != nil {
			return nil, fmt.Errorf("reading class %d: %w", k, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func assessments(ctx context.Context, r dom.Reader) ([]common.Assessment, error) {
	indices, err := dom.RowIndices(ctx, r, dom.AssessTable)
	if err != nil {
		return nil, fmt.Errorf("enumerating assessments: %w", err)
	}
	out := make([]common.Assessment, 0, len(indices))
	for _, k := range indices {
		var a common.Assessment
		if err := readRow(ctx, r, k, map[string]**string{
			dom.AssessType:         &a.Type,
			dom.AssessWeight:       &a.Weight,
			dom.AssessRequirements: &a.Requirements,
		}); err != nil {
			return nil, fmt.Errorf("reading assessment %d: %w", k, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func readRow(ctx context.Context, r dom.Reader, k int, fields map[string]**string) error {
	for base, dst := range fields {
		v, err := dom.Field(ctx, r, base, dom.At(k))
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
