package writer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/go-scripts/coursecrawl/pkg/common"
)

const sqliteSchema = `
create table if not exists course (
	id integer primary key autoincrement,
	collection text not null,
	run_id text not null,
	code text,
	belongs_to text not null,
	record text not null,
	inserted_at integer not null
);
create index if not exists course_collection on course(collection);
`

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return db, nil
}

// SQLiteWriter stores each record as a JSON row tagged with its collection
// name and run id.
type SQLiteWriter struct {
	db         *sql.DB
	collection string
	runID      string
	now        func() time.Time
}

// NewSQLiteWriter writes rows for collection name. Close closes db.
func NewSQLiteWriter(db *sql.DB, name, runID string) *SQLiteWriter {
	return &SQLiteWriter{db: db, collection: name, runID: runID, now: time.Now}
}

// Write inserts rec as one row.
func (w *SQLiteWriter) Write(ctx context.Context, rec common.DetailRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	_, err = w.db.ExecContext(ctx,
		`insert into course (collection, run_id, code, belongs_to, record, inserted_at) values (?, ?, ?, ?, ?, ?)`,
		w.collection, w.runID, rec.Code, rec.BelongsTo.Code, string(raw), w.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting into course: %w", err)
	}
	return nil
}

// Close closes the database.
func (w *SQLiteWriter) Close(context.Context) error {
	return w.db.Close()
}
