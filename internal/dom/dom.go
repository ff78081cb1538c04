// Package dom is the only place that knows how the catalogue names its
// elements. Everything else asks it for ids and field values.
package dom

import "context"

// Option is one entry of a select control.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Reader reads the currently rendered page.
type Reader interface {
	// InnerHTML returns the inner HTML of the element with the given id.
	// ok is false when no such element is rendered.
	InnerHTML(ctx context.Context, id string) (html string, ok bool, err error)
	// RowIDs returns the id attribute of every body row of the table with
	// the given id, in page order. Rows without an id yield "".
	RowIDs(ctx context.Context, tableID string) ([]string, error)
	// Options returns the options of the select with the given id.
	Options(ctx context.Context, selectID string) ([]Option, error)
}

// Page is a Reader that can also be driven.
type Page interface {
	Reader
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	Click(ctx context.Context, id string) error
	// Select sets the value of a select control and fires its change events.
	Select(ctx context.Context, id, value string) error
	// WaitFor blocks until selector matches or the page's wait bound elapses.
	WaitFor(ctx context.Context, selector string) error
	// WaitFirst blocks until one of the selectors matches and returns its
	// position in selectors.
	WaitFirst(ctx context.Context, selectors ...string) (int, error)
	Close() error
}
