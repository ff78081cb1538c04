package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/go-scripts/coursecrawl/internal/crawler"
	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/internal/progress"
	"github.com/go-scripts/coursecrawl/internal/writer"
	"github.com/go-scripts/coursecrawl/pkg/common"
	"github.com/go-scripts/coursecrawl/pkg/crawl"
	"github.com/go-scripts/coursecrawl/ui"
)

const (
	defaultPortalURL = "https://mynottingham.nottingham.ac.uk/psp/psprd/EMPLOYEE/HRMS/c/UN_PROG_AND_MOD_EXTRACT.UN_PAM_CRSE_EXTRCT.GBL?"
	defaultStartURL  = "https://campus.nottingham.ac.uk/psc/csprd/EMPLOYEE/HRMS/c/UN_PROG_AND_MOD_EXTRACT.UN_PAM_CRSE_EXTRCT.GBL?%252fningbo%252fasp%252fmoduledetails.asp"
)

var outputChoices = []ui.Choice{
	{Title: "MongoDB", Value: writer.MethodMongo},
	{Title: "Local JSON file", Value: writer.MethodLocal},
	{Title: "SQLite database", Value: writer.MethodSQLite},
}

// CrawlCmd walks the live catalogue.
type CrawlCmd struct {
	Campus string   `help:"Campus code. Prompted for when empty."`
	Year   string   `help:"Academic year code. Prompted for when empty."`
	Output []string `help:"Output methods: mongo, local, sqlite. Prompted for when empty."`

	MongoURI      string `name:"mongo-uri" help:"MongoDB connection string. Prompted for when mongo is selected."`
	MongoDatabase string `help:"MongoDB database. Defaults to the database in the URI, then \"test\"."`
	OutDir        string `help:"Directory for local JSON files." default:"dist" type:"path"`
	SQLitePath    string `name:"sqlite-path" help:"SQLite database file." default:"courses.db" type:"path"`

	PortalURL   string        `help:"Portal page opened first to establish the session." default:"${portal_url}"`
	StartURL    string        `help:"Catalogue page holding the search form." default:"${start_url}"`
	WaitTimeout time.Duration `help:"Upper bound on every wait for the page." default:"30s"`
	Headful     bool          `help:"Show the browser window."`
	UserDataDir string        `help:"Chrome profile directory."`
	UserAgent   string        `help:"Browser user agent."`

	launch func(context.Context, crawl.Options, *log.Logger) (dom.Page, error) `kong:"-"`
	stderr io.Writer                                                           `kong:"-"`
}

func launchBrowser(ctx context.Context, opts crawl.Options, logger *log.Logger) (dom.Page, error) {
	return crawl.Launch(ctx, opts, logger)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Validate checks flag values kong cannot check on its own.
func (c *CrawlCmd) Validate() error {
	for _, m := range c.Output {
		if !slices.Contains(writer.Methods, m) {
			return fmt.Errorf("unknown output method %q, want one of %v", m, writer.Methods)
		}
	}
	if c.WaitTimeout <= 0 {
		return errors.New("--wait-timeout must be positive")
	}
	return nil
}

func (c *CrawlCmd) pins() common.TraversalConfig {
	return common.TraversalConfig{
		Campus: common.Axis{Code: c.Campus},
		Year:   common.Axis{Code: c.Year},
	}
}

func (c *CrawlCmd) urls() []string {
	var urls []string
	for _, u := range []string{c.PortalURL, c.StartURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Run executes the crawl.
func (c *CrawlCmd) Run(ctx context.Context, logger *log.Logger, term *ui.Terminal) error {
	methods := c.Output
	if len(methods) == 0 {
		chosen, err := term.ChooseMany(ctx, "Select output methods", outputChoices, 1)
		if err != nil {
			return err
		}
		methods = chosen
	}

	var client *mongo.Client
	if slices.Contains(methods, writer.MethodMongo) {
		if c.MongoURI == "" {
			uri, err := term.Input(ctx, "MongoDB URI", "mongodb://localhost:27017/courses")
			if err != nil {
				return err
			}
			c.MongoURI = uri
		}
		var err error
		client, err = writer.ConnectMongo(ctx, c.MongoURI)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Disconnecting from MongoDB", "err", err)
			}
		}()
		logger.Info("Connected to MongoDB")
	}

	out := c.stderr
	if out == nil {
		out = os.Stderr
	}
	tracker := progress.New(out, logger, isTerminal(out))
	logger.SetOutput(tracker.LogWriter(out))

	launch := c.launch
	if launch == nil {
		launch = launchBrowser
	}
	page, err := launch(ctx, crawl.Options{
		Headful:     c.Headful,
		UserDataDir: c.UserDataDir,
		UserAgent:   c.UserAgent,
		Timeout:     c.WaitTimeout,
	}, logger.WithPrefix("browser"))
	if err != nil {
		return err
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Warn("Closing browser", "err", err)
		}
	}()

	cr, err := crawler.New(page, term, crawler.Configuration{
		Pins:     c.pins(),
		URLs:     c.urls(),
		OpenSink: c.openSink(methods, client, logger),
	}, tracker, logger.WithPrefix("crawler"))
	if err != nil {
		return err
	}

	summary, err := cr.Start(ctx)
	tracker.Summary(summary)
	if err != nil {
		return err
	}
	logger.Info("All done!", "records", summary.Records(), "schools", len(summary.Groups))
	return nil
}

// openSink builds the fan-out sink once the campus and year are known.
func (c *CrawlCmd) openSink(methods []string, client *mongo.Client, logger *log.Logger) crawler.OpenSink {
	return func(ctx context.Context, cfg common.TraversalConfig, runID string) (writer.Sink, error) {
		name := writer.TableName(cfg)
		var sinks writer.Multi
		fail := func(err error) (writer.Sink, error) {
			return nil, errors.Join(err, sinks.Close(ctx))
		}

		for _, m := range writer.Methods {
			if !slices.Contains(methods, m) {
				continue
			}
			switch m {
			case writer.MethodMongo:
				db := writer.MongoDatabase(c.MongoDatabase, c.MongoURI)
				sinks = append(sinks, writer.NewMongoWriter(client, db, name, false))
				logger.Info("Writing to MongoDB", "database", db, "collection", name)
			case writer.MethodLocal:
				fw, err := writer.NewFileWriter(c.OutDir, name, logger.WithPrefix("file"))
				if err != nil {
					return fail(err)
				}
				sinks = append(sinks, fw)
				logger.Info("Writing to file", "path", fw.Path())
			case writer.MethodSQLite:
				db, err := writer.OpenSQLite(c.SQLitePath)
				if err != nil {
					return fail(err)
				}
				sinks = append(sinks, writer.NewSQLiteWriter(db, name, runID))
				logger.Info("Writing to SQLite", "path", c.SQLitePath, "collection", name)
			}
		}
		if len(sinks) == 0 {
			return nil, errors.New("no output method selected")
		}
		return sinks, nil
	}
}
