package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/coursecrawl/internal/extract"
	"github.com/go-scripts/coursecrawl/internal/snapshot"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

// ExtractCmd runs the extractor over a page saved from the catalogue.
type ExtractCmd struct {
	Mode      string `help:"What the page holds: listing or detail." enum:"listing,detail" default:"detail"`
	GroupCode string `help:"School code stamped on an extracted course."`
	GroupName string `help:"School name stamped on an extracted course."`
	File      string `arg:"" help:"Saved HTML page." type:"existingfile"`
}

// Run prints the extracted listing or course as JSON.
func (e *ExtractCmd) Run(ctx context.Context, logger *log.Logger) error {
	return e.run(ctx, logger, os.Stdout)
}

func (e *ExtractCmd) run(ctx context.Context, logger *log.Logger, out io.Writer) error {
	page, err := snapshot.Open(e.File)
	if err != nil {
		return err
	}
	ex := extract.New(logger.WithPrefix("extract"))

	var v any
	switch e.Mode {
	case "listing":
		v, err = ex.Listing(ctx, page)
	default:
		v, err = ex.Detail(ctx, page, common.Group{Code: e.GroupCode, Name: e.GroupName})
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
