package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/dispensing-data-access/internal/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "sql/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, f := range files {
		body, err := fs.ReadFile(migrations.FS, f)
		require.NoError(t, err)
		text := string(body)
		assert.True(t, strings.HasPrefix(text, "-- +goose Up"), f)
		assert.Contains(t, text, "-- +goose Down", f)
		assert.Equal(t, strings.Count(text, "-- +goose StatementBegin"), strings.Count(text, "-- +goose StatementEnd"), f)
	}
}

func TestEveryEntityHasPagedRoutines(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "sql/00002_paged_queries.sql")
	require.NoError(t, err)
	for _, entity := range []string{
		"administration_route", "server", "timing_record_priority",
		"authentication_event", "inventory_transaction",
	} {
		assert.Contains(t, string(body), "CREATE FUNCTION "+entity+"_find(", entity)
		assert.Contains(t, string(body), "CREATE FUNCTION "+entity+"_count(", entity)
	}
}

func TestSearchMatchesLiterally(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "sql/00002_paged_queries.sql")
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `replace(replace(replace(p_search, '\', '\\'), '%', '\%'), '_', '\_')`)
	assert.Contains(t, text, `ILIKE dda_like_pattern($3) ESCAPE ''\'''`)
	assert.NotContains(t, text, `|| $3 ||`)
	assert.Contains(t, text, "DROP FUNCTION IF EXISTS dda_like_pattern(text);")
}
