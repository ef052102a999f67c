package dbaccess_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
)

func TestCodeClassifier(t *testing.T) {
	c := dbaccess.NewCodeClassifier(pgerrcode.QueryCanceled, pgerrcode.LockNotAvailable)

	tests := []struct {
		name string
		err  error
		want dbaccess.Decision
	}{
		{"configured code", &pgconn.PgError{Code: pgerrcode.QueryCanceled}, dbaccess.Suppress},
		{"wrapped configured code", fmt.Errorf("call: %w", &pgconn.PgError{Code: pgerrcode.LockNotAvailable}), dbaccess.Suppress},
		{"other code", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, dbaccess.Rethrow},
		{"context canceled", context.Canceled, dbaccess.Rethrow},
		{"plain error", errors.New("x"), dbaccess.Rethrow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.err))
		})
	}
}

func TestClassifierFor(t *testing.T) {
	assert.Equal(t, dbaccess.Rethrow, dbaccess.ClassifierFor(nil).Classify(&pgconn.PgError{Code: pgerrcode.QueryCanceled}))
	assert.Equal(t, dbaccess.Suppress, dbaccess.ClassifierFor([]string{"57014"}).Classify(&pgconn.PgError{Code: "57014"}))
	assert.Equal(t, "suppress", dbaccess.Suppress.String())
	assert.Equal(t, "rethrow", dbaccess.Rethrow.String())
}
