// Package snapshot reads catalogue pages from static HTML.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/go-scripts/coursecrawl/internal/dom"
)

// ErrStatic is returned by every operation that would drive the page.
var ErrStatic = errors.New("snapshot: page is static")

// Page is a dom.Page over a parsed HTML document. Reads work; navigation
// returns ErrStatic.
type Page struct {
	doc *goquery.Document
}

// New parses html from r.
func New(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &Page{doc: doc}, nil
}

// FromString parses html.
func FromString(html string) (*Page, error) {
	return New(strings.NewReader(html))
}

// Open parses the HTML file at path.
func Open(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return New(f)
}

// Has reports whether selector matches anything in the document.
func (p *Page) Has(selector string) bool {
	return p.doc.Find(selector).Length() > 0
}

// InnerHTML returns the markup inside the element with the given id.
func (p *Page) InnerHTML(_ context.Context, id string) (string, bool, error) {
	sel := p.doc.Find(dom.ByID(id)).First()
	if sel.Length() == 0 {
		return "", false, nil
	}
	html, err := sel.Html()
	if err != nil {
		return "", false, err
	}
	return html, true, nil
}

// RowIDs returns the id attribute of every body row of the table.
func (p *Page) RowIDs(_ context.Context, tableID string) ([]string, error) {
	var ids []string
	p.doc.Find(dom.RowsOf(tableID)).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, id)
	})
	return ids, nil
}

// Options returns the options of the select in document order.
func (p *Page) Options(_ context.Context, selectID string) ([]dom.Option, error) {
	var opts []dom.Option
	p.doc.Find(dom.ByID(selectID) + " > option").Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("value")
		opts = append(opts, dom.Option{Value: value, Text: strings.TrimSpace(s.Text())})
	})
	return opts, nil
}

// Navigate always fails with ErrStatic.
func (p *Page) Navigate(context.Context, string) error { return ErrStatic }

// Reload always fails with ErrStatic.
func (p *Page) Reload(context.Context) error { return ErrStatic }

// Click always fails with ErrStatic.
func (p *Page) Click(context.Context, string) error { return ErrStatic }

// Select always fails with ErrStatic.
func (p *Page) Select(context.Context, string, string) error { return ErrStatic }

// Close is a no-op.
func (p *Page) Close() error { return nil }

// WaitFor succeeds only if selector already matches; a static page never
// changes.
func (p *Page) WaitFor(_ context.Context, selector string) error {
	if p.Has(selector) {
		return nil
	}
	return fmt.Errorf("%w: %s never matches", ErrStatic, selector)
}

// WaitFirst reports the first selector that already matches.
func (p *Page) WaitFirst(_ context.Context, selectors ...string) (int, error) {
	for i, s := range selectors {
		if p.Has(s) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: none of %d selectors match", ErrStatic, len(selectors))
}
