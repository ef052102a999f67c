package dbaccess_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/dbaccess/dbaccesstest"
)

type widget struct {
	ID    int64
	Name  string
	Notes *string
}

var widgetMapping = dbaccess.MustMapping(
	dbaccess.Col("id", func(w *widget) any { return &w.ID }),
	dbaccess.Col("name", func(w *widget) any { return &w.Name }),
	dbaccess.Col("notes", func(w *widget) any { return &w.Notes }),
)

func TestMapping_Columns(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "notes"}, widgetMapping.Columns())
	assert.Equal(t, "id, name, notes", widgetMapping.SelectList())

	var w widget
	targets := widgetMapping.Targets(&w)
	require.Len(t, targets, 3)
	assert.Same(t, &w.ID, targets[0])
}

func TestNewMapping_Rejects(t *testing.T) {
	_, err := dbaccess.NewMapping[widget]()
	assert.Error(t, err)

	_, err = dbaccess.NewMapping(
		dbaccess.Col("id", func(w *widget) any { return &w.ID }),
		dbaccess.Col("id", func(w *widget) any { return &w.Name }),
	)
	assert.Error(t, err)

	_, err = dbaccess.NewMapping(dbaccess.Col(" ", func(w *widget) any { return &w.ID }))
	assert.Error(t, err)

	_, err = dbaccess.NewMapping(dbaccess.Column[widget]{Name: "id"})
	assert.Error(t, err)

	assert.Panics(t, func() { dbaccess.MustMapping[widget]() })
}

func TestMapping_Scan(t *testing.T) {
	note := "fragile"
	w, err := widgetMapping.Scan(dbaccesstest.NewRow(int64(7), "valve", &note))
	require.NoError(t, err)
	assert.Equal(t, int64(7), w.ID)
	assert.Equal(t, "valve", w.Name)
	require.NotNil(t, w.Notes)
	assert.Equal(t, "fragile", *w.Notes)

	_, err = widgetMapping.Scan(dbaccesstest.NoRows())
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestMapping_Collect(t *testing.T) {
	rows := dbaccesstest.NewRows(
		[]any{int64(1), "a", nil},
		[]any{int64(2), "b", "note"},
	)
	items, err := widgetMapping.Collect(rows)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Notes)
	assert.Equal(t, "note", *items[1].Notes)
	assert.True(t, rows.Closed())

	empty, err := widgetMapping.Collect(dbaccesstest.NewRows())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = widgetMapping.Collect(dbaccesstest.FailingRows(errors.New("conn reset")))
	assert.Error(t, err)
}
