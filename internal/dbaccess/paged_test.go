package dbaccess_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/dbaccess/dbaccesstest"
	"github.com/maxviazov/dispensing-data-access/internal/query"
)

var widgetProc = dbaccess.PagedProcedure{
	Find:               "widget_find",
	Count:              "widget_count",
	RequiredExactMatch: []string{"name"},
}

func pagedConn(results *dbaccesstest.BatchResults) *dbaccesstest.Conn {
	return &dbaccesstest.Conn{BatchFunc: func(*pgx.Batch) pgx.BatchResults { return results }}
}

func TestFetchPage_OneRoundTrip(t *testing.T) {
	results := &dbaccesstest.BatchResults{Results: []any{
		dbaccesstest.NewRows([]any{int64(1), "a", nil}, []any{int64(2), "b", nil}),
		dbaccesstest.NewRow(int64(12)),
	}}
	conn := pagedConn(results)
	keep, drop := uuid.New(), uuid.New()
	criteria := query.NewCriteria[uuid.UUID]().
		Select(keep).
		Exclude(drop).
		Search("val").
		Where("name", query.OpLike, "v%").
		Order("name", false)

	page, err := dbaccess.FetchPage(context.Background(), conn, widgetProc, widgetMapping, criteria, query.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(12), page.TotalCount)
	assert.True(t, results.Closed())

	batches := conn.Batches()
	require.Len(t, batches, 1)
	queued := batches[0].QueuedQueries
	require.Len(t, queued, 2)
	assert.Equal(t, "SELECT id, name, notes FROM widget_find($1, $2, $3, $4, $5, $6, $7, $8)", queued[0].SQL)
	assert.Equal(t, "SELECT widget_count($1, $2, $3, $4)", queued[1].SQL)

	args := queued[0].Arguments
	require.Len(t, args, 8)
	assert.Equal(t, []uuid.UUID{keep}, args[0])
	assert.Equal(t, []uuid.UUID{drop}, args[1])
	assert.Equal(t, "val", args[2])
	var conds []map[string]any
	require.NoError(t, json.Unmarshal(args[3].([]byte), &conds))
	assert.Equal(t, []map[string]any{{"field": "name", "operator": "like", "value": "v%"}}, conds)
	assert.Equal(t, "name", args[4])
	assert.Equal(t, false, args[5])
	assert.Equal(t, 2, args[6])
	assert.Equal(t, 2, args[7])
	assert.Equal(t, args[:4], queued[1].Arguments)
}

func TestFetchPage_UnspecifiedCriteriaRenderAsNull(t *testing.T) {
	results := &dbaccesstest.BatchResults{Results: []any{dbaccesstest.NewRows(), dbaccesstest.NewRow(int64(0))}}
	conn := pagedConn(results)

	page, err := dbaccess.FetchPage(context.Background(), conn, widgetProc, widgetMapping, query.NewCriteria[uuid.UUID](), query.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.TotalCount)

	args := conn.Batches()[0].QueuedQueries[0].Arguments
	assert.Nil(t, args[0])
	assert.Nil(t, args[1])
	assert.Nil(t, args[2])
	assert.JSONEq(t, `[]`, string(args[3].([]byte)))
	assert.Nil(t, args[4])
	assert.Equal(t, true, args[5])
}

func TestFetchPage_ClampsPaging(t *testing.T) {
	for _, p := range []query.Page{{Number: 0, Size: -5}, {Number: -3, Size: -1}, {Number: 1, Size: 0}} {
		results := &dbaccesstest.BatchResults{Results: []any{dbaccesstest.NewRows(), dbaccesstest.NewRow(int64(4))}}
		conn := pagedConn(results)

		page, err := dbaccess.FetchPage(context.Background(), conn, widgetProc, widgetMapping, query.NewCriteria[uuid.UUID](), p)
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.TotalCount)

		args := conn.Batches()[0].QueuedQueries[0].Arguments
		assert.Equal(t, 1, args[6])
		assert.Equal(t, 0, args[7])
	}
}

func TestFetchPage_ShortCircuits(t *testing.T) {
	tests := []struct {
		name     string
		criteria query.FindCriteria[uuid.UUID]
	}{
		{"empty selection", query.NewCriteria[uuid.UUID]().Select()},
		{"null required exact match", query.NewCriteria[uuid.UUID]().Where("name", query.OpEqual, nil)},
		{"typed nil key on required field", query.NewCriteria[uuid.UUID]().Where("owner_key", query.OpEqual, (*uuid.UUID)(nil))},
	}
	proc := widgetProc
	proc.RequiredExactMatch = []string{"name", "owner_key"}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn := &dbaccesstest.Conn{}
			page, err := dbaccess.FetchPage(context.Background(), conn, proc, widgetMapping, tc.criteria, query.Page{Number: 1, Size: 10})
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.NotNil(t, page.Items)
			assert.Zero(t, page.TotalCount)
			assert.Empty(t, conn.Batches())
		})
	}
}

func TestFetchPage_InvalidCriteriaBeforeIO(t *testing.T) {
	conn := &dbaccesstest.Conn{}
	criteria := query.NewCriteria[uuid.UUID]().Where("name", query.Operator("between"), 1)

	_, err := dbaccess.FetchPage(context.Background(), conn, widgetProc, widgetMapping, criteria, query.Page{Number: 1, Size: 10})
	assert.ErrorIs(t, err, query.ErrInvalidCriteria)
	assert.Empty(t, conn.Batches())
}

func TestFetchPage_PropagatesErrors(t *testing.T) {
	boom := errors.New("relation does not exist")

	rowsErr := &dbaccesstest.BatchResults{Results: []any{boom}}
	_, err := dbaccess.FetchPage(context.Background(), pagedConn(rowsErr), widgetProc, widgetMapping, query.NewCriteria[uuid.UUID](), query.Page{})
	assert.ErrorIs(t, err, boom)
	assert.True(t, rowsErr.Closed())

	countErr := &dbaccesstest.BatchResults{Results: []any{dbaccesstest.NewRows(), dbaccesstest.ErrRow(boom)}}
	_, err = dbaccess.FetchPage(context.Background(), pagedConn(countErr), widgetProc, widgetMapping, query.NewCriteria[uuid.UUID](), query.Page{})
	assert.ErrorIs(t, err, boom)
}

func TestFetchPage_TotalNeverBelowItems(t *testing.T) {
	results := &dbaccesstest.BatchResults{Results: []any{
		dbaccesstest.NewRows([]any{int64(1), "a", nil}),
		dbaccesstest.NewRow(int64(0)),
	}}
	page, err := dbaccess.FetchPage(context.Background(), pagedConn(results), widgetProc, widgetMapping, query.NewCriteria[uuid.UUID](), query.Page{Number: 1, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}
