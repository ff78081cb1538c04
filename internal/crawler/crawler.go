// Package crawler runs a full traversal: every school, every course, one
// record per course handed to the sink.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/internal/extract"
	"github.com/go-scripts/coursecrawl/internal/navigator"
	"github.com/go-scripts/coursecrawl/internal/progress"
	"github.com/go-scripts/coursecrawl/internal/writer"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

// ErrListingChanged is returned when a listing re-derived after a reload no
// longer covers the row the traversal is about to open.
var ErrListingChanged = errors.New("crawler: listing changed between reloads")

// OpenSink builds the sink for a resolved traversal config.
type OpenSink func(ctx context.Context, cfg common.TraversalConfig, runID string) (writer.Sink, error)

// Configuration holds the traversal settings.
type Configuration struct {
	// Pins is the campus and year known before the run; anything missing is
	// prompted for.
	Pins common.TraversalConfig
	// URLs are opened in order before the first search.
	URLs     []string
	OpenSink OpenSink
}

// Crawler walks every school and every course of the catalogue.
type Crawler struct {
	config    Configuration
	nav       *navigator.Navigator
	extractor *extract.Extractor
	progress  *progress.Tracker
	log       *log.Logger
	newRunID  func() string
}

// New creates a Crawler over page. The page is not closed by the Crawler.
func New(page dom.Page, prompter navigator.Prompter, config Configuration, tracker *progress.Tracker, logger *log.Logger) (*Crawler, error) {
	if config.OpenSink == nil {
		return nil, errors.New("crawler: no sink configured")
	}
	return &Crawler{
		config:    config,
		nav:       navigator.New(page, prompter, config.Pins, config.URLs, logger.WithPrefix("navigator")),
		extractor: extract.New(logger.WithPrefix("extract")),
		progress:  tracker,
		log:       logger,
		newRunID:  uuid.NewString,
	}, nil
}

// Config returns the traversal config, resolved once Start has reached the
// search form.
func (c *Crawler) Config() common.TraversalConfig {
	return c.nav.Config()
}

// Start runs the traversal to completion or to the first fatal error. The
// summary covers whatever was written before a failure.
func (c *Crawler) Start(ctx context.Context) (summary common.RunSummary, err error) {
	summary = common.RunSummary{RunID: c.newRunID(), Started: time.Now()}
	defer func() {
		summary.Finished = time.Now()
		summary.Config = c.nav.Config()
		c.progress.Stop()
	}()

	if err := c.nav.Open(ctx); err != nil {
		return summary, err
	}
	if err := c.nav.EnterSearch(ctx); err != nil {
		return summary, fmt.Errorf("preparing search: %w", err)
	}
	c.log.Info("Config Selected! GO GO GO!", "run", summary.RunID)

	sink, err := c.config.OpenSink(ctx, c.nav.Config(), summary.RunID)
	if err != nil {
		return summary, fmt.Errorf("opening sink: %w", err)
	}
	defer func() {
		if cerr := sink.Close(context.WithoutCancel(ctx)); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing sink: %w", cerr))
		}
	}()

	c.log.Info("Get schools data...")
	groups, err := c.nav.Groups(ctx)
	if err != nil {
		return summary, err
	}
	summary.Total = len(groups)
	c.progress.SetTotalGroups(len(groups))
	c.log.Info("Schools data obtained", "count", len(groups))

	for i, g := range groups {
		c.progress.StartGroup(i, g)
		result, err := c.group(ctx, g, sink)
		summary.Groups = append(summary.Groups, result)
		if err != nil {
			return summary, fmt.Errorf("school %s: %w", g.Code, err)
		}
		c.progress.FinishGroup(g)
	}

	summary.Done = true
	return summary, nil
}

// group processes one school and leaves the navigator on a primed search
// form.
func (c *Crawler) group(ctx context.Context, g common.Group, sink writer.Sink) (common.GroupResult, error) {
	result := common.GroupResult{Group: g}

	outcome, err := c.nav.Search(ctx, g)
	if err != nil {
		return result, err
	}
	if outcome == navigator.OutcomeEmpty {
		result.Empty = true
		c.progress.EmptyGroup(g)
		return result, c.nav.Reset(ctx)
	}

	rows, err := c.extractor.Listing(ctx, c.nav.Page())
	if err != nil {
		return result, err
	}
	c.progress.Listing(g, len(rows))
	total := len(rows)

	for j := 0; j < total; j++ {
		c.progress.StartRow(j, total, value(rows[j].Title))

		if err := c.nav.OpenDetail(ctx, j); err != nil {
			return result, err
		}
		rec, err := c.extractor.Detail(ctx, c.nav.Page(), g)
		if err != nil {
			return result, err
		}
		if err := sink.Write(ctx, rec); err != nil {
			return result, fmt.Errorf("writing %s: %w", value(rec.Code), err)
		}
		result.Records++
		result.NaNFields += extract.NaNFields(rec)
		c.progress.FinishRow(value(rec.Code))

		if j == total-1 {
			// Nothing left to open: reload and stop at the search form.
			return result, c.nav.Reset(ctx)
		}
		next, err := c.reloadListing(ctx, g, rows[j+1], j+1)
		if err != nil {
			return result, err
		}
		rows, total = next, len(next)
	}
	return result, c.nav.Reset(ctx)
}

// reloadListing runs the reload-and-resume cycle and returns a listing read
// from the freshly rendered page. Indices from the previous listing are not
// reused.
func (c *Crawler) reloadListing(ctx context.Context, g common.Group, want common.ListingRow, next int) ([]common.ListingRow, error) {
	c.log.Debug("Reloading Page...")
	outcome, err := c.nav.Resume(ctx, g)
	if err != nil {
		return nil, err
	}
	if outcome != navigator.OutcomeResults {
		return nil, fmt.Errorf("%w: search came back empty", ErrListingChanged)
	}
	rows, err := c.extractor.Listing(ctx, c.nav.Page())
	if err != nil {
		return nil, err
	}
	if len(rows) <= next {
		return nil, fmt.Errorf("%w: %d rows, need row %d", ErrListingChanged, len(rows), next)
	}
	if got := value(rows[next].Code); got != value(want.Code) {
		c.log.Warn("row moved after reload, using fresh listing",
			"index", next, "was", value(want.Code), "now", got)
	}
	return rows, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
