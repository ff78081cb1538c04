package writer

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteWriterStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	w := NewSQLiteWriter(db, "Course_Nottingham_2025", "run-2")
	w.now = func() time.Time { return time.Unix(42, 0) }

	insert := regexp.QuoteMeta(`insert into course (collection, run_id, code, belongs_to, record, inserted_at) values (?, ?, ?, ?, ?, ?)`)
	mock.ExpectExec(insert).
		WithArgs("Course_Nottingham_2025", "run-2", "SCI1", "SCI", sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insert).
		WillReturnError(errors.New("disk full"))
	mock.ExpectClose()

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, record("SCI1")))

	err = w.Write(ctx, record("SCI2"))
	assert.ErrorContains(t, err, "disk full")

	require.NoError(t, w.Close(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
