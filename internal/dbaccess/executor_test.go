package dbaccess_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/dbaccess/dbaccesstest"
)

func newExecutor(t *testing.T, p dbaccess.Provider, c dbaccess.Classifier) (*dbaccess.Executor, *prometheus.Registry, *strings.Builder) {
	t.Helper()
	reg := prometheus.NewRegistry()
	var logs strings.Builder
	log := zerolog.New(&logs)
	return dbaccess.NewExecutor(p, c, dbaccess.NewMetrics(reg), log), reg, &logs
}

func TestExecutor_ReleasesOnEveryPath(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		fn   func(ctx context.Context, conn dbaccess.Conn) error
		want error
	}{
		{name: "success", fn: func(context.Context, dbaccess.Conn) error { return nil }},
		{name: "error", fn: func(context.Context, dbaccess.Conn) error { return boom }, want: boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &dbaccesstest.Provider{Conn: &dbaccesstest.Conn{}}
			ex, _, _ := newExecutor(t, p, nil)

			err := ex.Do(context.Background(), "op", tc.fn)
			assert.ErrorIs(t, err, tc.want)
			if tc.want == nil {
				assert.NoError(t, err)
			}
			opened, released := p.Balance()
			assert.Equal(t, 1, opened)
			assert.Equal(t, 1, released)
		})
	}
}

func TestExecutor_ReleasesOnPanic(t *testing.T) {
	p := &dbaccesstest.Provider{Conn: &dbaccesstest.Conn{}}
	ex, _, _ := newExecutor(t, p, nil)

	assert.Panics(t, func() {
		_ = ex.Do(context.Background(), "op", func(context.Context, dbaccess.Conn) error { panic("bad mapping") })
	})
	_, released := p.Balance()
	assert.Equal(t, 1, released)
}

func TestExecutor_OpenErrorIsRethrown(t *testing.T) {
	openErr := errors.New("pool closed")
	p := &dbaccesstest.Provider{OpenErr: openErr}
	ex, _, _ := newExecutor(t, p, nil)

	called := false
	err := ex.Do(context.Background(), "op", func(context.Context, dbaccess.Conn) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, openErr)
	assert.False(t, called)
}

func TestExecutor_SuppressedErrorIsLoggedAndCounted(t *testing.T) {
	p := &dbaccesstest.Provider{Conn: &dbaccesstest.Conn{}}
	ex, reg, logs := newExecutor(t, p, dbaccess.NewCodeClassifier(pgerrcode.QueryCanceled))

	err := ex.Do(context.Background(), "server.insert", func(context.Context, dbaccess.Conn) error {
		return &pgconn.PgError{Code: pgerrcode.QueryCanceled, Message: "canceling statement"}
	})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "database error suppressed")
	assert.Contains(t, logs.String(), "server.insert")

	expected := `
# HELP dispensing_dbaccess_calls_total Total number of repository calls by outcome
# TYPE dispensing_dbaccess_calls_total counter
dispensing_dbaccess_calls_total{operation="server.insert",outcome="suppressed"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "dispensing_dbaccess_calls_total"))
}

func TestExecutor_UnsuppressedPgErrorPassesThroughUnchanged(t *testing.T) {
	p := &dbaccesstest.Provider{Conn: &dbaccesstest.Conn{}}
	ex, reg, _ := newExecutor(t, p, dbaccess.NewCodeClassifier(pgerrcode.QueryCanceled))

	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	err := ex.Do(context.Background(), "server.insert", func(context.Context, dbaccess.Conn) error { return pgErr })
	assert.Same(t, pgErr, err)

	count, err := testutil.GatherAndCount(reg, "dispensing_dbaccess_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExecutor_ScopeCarriesCommandTimeout(t *testing.T) {
	p := &dbaccesstest.Provider{Conn: &dbaccesstest.Conn{}, Timeout: time.Minute}
	ex, _, _ := newExecutor(t, p, nil)

	var scoped context.Context
	require.NoError(t, ex.Do(context.Background(), "op", func(ctx context.Context, _ dbaccess.Conn) error {
		scoped = ctx
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}))
	assert.ErrorIs(t, scoped.Err(), context.Canceled)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	p := &dbaccesstest.Provider{Conn: &dbaccesstest.Conn{}}
	ex := dbaccess.NewExecutor(p, nil, nil, zerolog.Nop())
	assert.NoError(t, ex.Do(context.Background(), "op", func(context.Context, dbaccess.Conn) error { return nil }))
}
