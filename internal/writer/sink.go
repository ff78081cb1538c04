// Package writer persists extracted course records.
package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-scripts/coursecrawl/pkg/common"
)

// Sink durably stores one record at a time.
type Sink interface {
	Write(ctx context.Context, rec common.DetailRecord) error
	Close(ctx context.Context) error
}

// Output methods selectable on the command line.
const (
	MethodMongo  = "mongo"
	MethodLocal  = "local"
	MethodSQLite = "sqlite"
)

// Methods lists every output method in the order records are written.
var Methods = []string{MethodMongo, MethodLocal, MethodSQLite}

// TableName names the collection, file or table for a campus and year.
func TableName(cfg common.TraversalConfig) string {
	return fmt.Sprintf("Course_%s_%s", cfg.Campus.Label, cfg.Year.Label)
}

// Multi writes every record to each sink in order and stops at the first
// failure.
type Multi []Sink

// Write hands rec to each sink in order.
func (m Multi) Write(ctx context.Context, rec common.DetailRecord) error {
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (m Multi) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close(ctx))
	}
	return errors.Join(errs...)
}
