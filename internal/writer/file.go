package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/coursecrawl/pkg/common"
)

// FileWriter keeps every record of a run in one JSON document of the form
// {"data": [...]}. Each write rewrites the whole file.
type FileWriter struct {
	path string
	log  *log.Logger
	mu   sync.Mutex
}

type fileDocument struct {
	Data []json.RawMessage `json:"data"`
}

// NewFileWriter returns a writer for {outputDir}/{name}.json, creating the
// directory if needed.
func NewFileWriter(outputDir, name string, logger *log.Logger) (*FileWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{
		path: filepath.Join(outputDir, name+".json"),
		log:  logger,
	}, nil
}

// Path returns the file written to.
func (w *FileWriter) Path() string { return w.path }

// Write appends rec to the document. A missing or unreadable file starts a
// new document.
func (w *FileWriter) Write(_ context.Context, rec common.DetailRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := fileDocument{Data: []json.RawMessage{}}
	if b, err := os.ReadFile(w.path); err != nil || json.Unmarshal(b, &doc) != nil {
		w.log.Info("Create a new JSON file.", "path", w.path)
		doc = fileDocument{Data: []json.RawMessage{}}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	doc.Data = append(doc.Data, raw)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := os.WriteFile(w.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	return nil
}

// Close does nothing; every Write already left the file complete.
func (w *FileWriter) Close(context.Context) error { return nil }
