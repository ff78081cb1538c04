// Package crawl drives the live catalogue through a headless Chrome.
package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"

	"github.com/go-scripts/coursecrawl/internal/dom"
)

// DefaultUserAgent is a mobile agent; the catalogue serves its lighter
// layout to it.
const DefaultUserAgent = "Mozilla/5.0 (PlayBook; U; RIM Tablet OS 2.1.0; en-US) AppleWebKit/536.2+ (KHTML like Gecko) Version/7.2.1.0 Safari/536.2+"

// Options configures the browser.
type Options struct {
	Headful     bool
	UserDataDir string
	UserAgent   string
	// Timeout bounds every wait and every single browser action.
	Timeout time.Duration
}

// Browser is a dom.Page backed by one Chrome tab.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	log         *log.Logger
	closeOnce   sync.Once
	closeErr    error
}

// Launch starts Chrome and opens the tab used for the whole run. The caller
// must Close it on every exit path.
func Launch(ctx context.Context, opts Options, logger *log.Logger) (*Browser, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("single-process", true),
		chromedp.Flag("no-zygote", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.Headful {
		execOpts = append(execOpts, chromedp.Flag("headless", false))
	}
	if opts.UserDataDir != "" {
		execOpts = append(execOpts, chromedp.UserDataDir(opts.UserDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debugf))

	b := &Browser{
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     opts.Timeout,
		log:         logger,
	}

	logger.Info("Starting the browser")
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(600, 8000, chromedp.EmulateMobile, chromedp.EmulateTouch),
	)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	logger.Info("Browser is ready")
	return b, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		err := chromedp.Cancel(b.ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		b.cancel()
		b.allocCancel()
		b.closeErr = err
	})
	return b.closeErr
}

// run executes actions on the tab, bounded by the wait timeout and by ctx.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads url in the tab.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, chromedp.Navigate(url))
}

// Reload reloads the current page.
func (b *Browser) Reload(ctx context.Context) error {
	return b.run(ctx, chromedp.Reload())
}

// Click clicks the element with the given id.
func (b *Browser) Click(ctx context.Context, id string) error {
	return b.run(ctx, chromedp.Click(dom.ByID(id), chromedp.ByQuery))
}

// Select behaves like choosing an option by hand: the value is set and the
// input and change events fire, which is what triggers the form's
// server round-trip.
func (b *Browser) Select(ctx context.Context, id, value string) error {
	var ok bool
	script := fmt.Sprintf(`
	(() => {
		const el = document.getElementById(%s);
		if (!el) return false;
		el.value = %s;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, jsString(id), jsString(value))

	err := b.run(ctx,
		chromedp.WaitReady(dom.ByID(id), chromedp.ByQuery),
		chromedp.Evaluate(script, &ok),
	)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("select %s not found", id)
	}
	return nil
}

// WaitFor waits until selector matches a ready element.
func (b *Browser) WaitFor(ctx context.Context, selector string) error {
	return b.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// WaitFirst polls all selectors in one predicate, so exactly one position
// is reported even if several fragments render close together.
func (b *Browser) WaitFirst(ctx context.Context, selectors ...string) (int, error) {
	sels, err := json.Marshal(selectors)
	if err != nil {
		return -1, err
	}
	// Positions are returned 1-based since Poll waits for a truthy value.
	predicate := fmt.Sprintf(`
	(() => {
		const sels = %s;
		for (let i = 0; i < sels.length; i++) {
			if (document.querySelector(sels[i])) return i + 1;
		}
		return 0;
	})()`, sels)

	var pos int
	err = b.run(ctx, chromedp.Poll(predicate, &pos,
		chromedp.WithPollingTimeout(b.timeout),
		chromedp.WithPollingInterval(100*time.Millisecond),
	))
	if err != nil {
		return -1, err
	}
	return pos - 1, nil
}

type innerHTMLResult struct {
	Found bool   `json:"found"`
	HTML  string `json:"html"`
}

// InnerHTML does not wait: a missing element is reported, not awaited.
func (b *Browser) InnerHTML(ctx context.Context, id string) (string, bool, error) {
	var res innerHTMLResult
	script := fmt.Sprintf(`
	(() => {
		const el = document.getElementById(%s);
		return el ? { found: true, html: el.innerHTML } : { found: false, html: "" };
	})()`, jsString(id))
	if err := b.run(ctx, chromedp.Evaluate(script, &res)); err != nil {
		return "", false, err
	}
	return res.HTML, res.Found, nil
}

// RowIDs returns the id attribute of every body row of the table.
func (b *Browser) RowIDs(ctx context.Context, tableID string) ([]string, error) {
	var ids []string
	script := fmt.Sprintf(`[...document.querySelectorAll(%s)].map(el => el.id)`, jsString(dom.RowsOf(tableID)))
	if err := b.run(ctx, chromedp.Evaluate(script, &ids)); err != nil {
		return nil, err
	}
	return ids, nil
}

// Options returns the options of the select in page order.
func (b *Browser) Options(ctx context.Context, selectID string) ([]dom.Option, error) {
	var opts []dom.Option
	script := fmt.Sprintf(`
	[...document.querySelectorAll(%s)].map(el => ({
		value: el.value,
		text: el.innerText.trim(),
	}))`, jsString(dom.ByID(selectID)+" > option"))
	if err := b.run(ctx, chromedp.Evaluate(script, &opts)); err != nil {
		return nil, err
	}
	return opts, nil
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
