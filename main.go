package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/coursecrawl/ui"
)

// Globals are flags shared by every command.
type Globals struct {
	Debug  bool            `help:"Enable debug logging."`
	Config kong.ConfigFlag `help:"Load flags from a JSON configuration file."`
}

// CLI is the command line of coursecrawl.
type CLI struct {
	Globals

	Crawl   CrawlCmd   `cmd:"" default:"withargs" help:"Walk the course catalogue and store every course."`
	Extract ExtractCmd `cmd:"" help:"Extract a listing or a course from a saved HTML page."`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("coursecrawl"),
		kong.Description("Crawl the course catalogue into MongoDB, JSON files or SQLite."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "coursecrawl.json"),
		kong.DefaultEnvars("COURSECRAWL"),
		kong.Vars{
			"portal_url": defaultPortalURL,
			"start_url":  defaultStartURL,
		},
	}, options...)
	return kong.New(cli, options...)
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
	})
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		log.Fatal("Error building command line", "err", err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logger := newLogger(os.Stderr, cli.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(logger, ui.NewTerminal(nil, nil))
	stop()

	switch {
	case err == nil:
	case errors.Is(err, ui.ErrAborted), errors.Is(err, context.Canceled):
		logger.Warn("Aborted")
		os.Exit(1)
	default:
		logger.Error("Run failed", "err", err)
		os.Exit(1)
	}
}
