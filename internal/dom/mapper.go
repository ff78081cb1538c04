package dom

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Delimiter separates a field's base name from its row index.
const Delimiter = "$"

// Index is an optional row index. The zero value is NoIndex.
type Index struct {
	n   int
	set bool
}

// NoIndex addresses a field by its bare base name.
var NoIndex = Index{}

// At addresses the field rendered for row i.
func At(i int) Index {
	return Index{n: i, set: true}
}

// ID builds the element id the site renders for base at idx.
func ID(base string, idx Index) string {
	if !idx.set {
		return base
	}
	return base + Delimiter + strconv.Itoa(idx.n)
}

// ByID returns a CSS selector matching the element with the given id. Site ids
// contain '$', so the attribute form is used instead of '#id'.
func ByID(id string) string {
	return `[id="` + strings.ReplaceAll(id, `"`, `\"`) + `"]`
}

// RowsOf returns a selector for the body rows of the table with the given id.
func RowsOf(tableID string) string {
	return ByID(tableID) + " > tbody > tr"
}

// FieldValue reads the trimmed content of base at idx. A field that is not
// rendered returns ok == false and no error.
func FieldValue(ctx context.Context, r Reader, base string, idx Index) (string, bool, error) {
	html, ok, err := r.InnerHTML(ctx, ID(base, idx))
	if err != nil || !ok {
		return "", false, err
	}
	return strings.TrimSpace(html), true, nil
}

// Field is FieldValue returning nil for a missing field.
func Field(ctx context.Context, r Reader, base string, idx Index) (*string, error) {
	v, ok, err := FieldValue(ctx, r, base, idx)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// TextField is Field reduced to the element's text as a browser's innerText
// reads it: markup dropped, entities decoded.
func TextField(ctx context.Context, r Reader, base string, idx Index) (*string, error) {
	v, ok, err := FieldValue(ctx, r, base, idx)
	if err != nil || !ok {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(v))
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(doc.Text())
	return &text, nil
}

// RowIndices enumerates the rendered rows of a repeating table. Header and
// template rows carry no id and are skipped; the remaining rows are numbered
// from 0 in page order, matching the index suffix of their fields.
func RowIndices(ctx context.Context, r Reader, tableID string) ([]int, error) {
	ids, err := r.RowIDs(ctx, tableID)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		indices = append(indices, len(indices))
	}
	return indices, nil
}
