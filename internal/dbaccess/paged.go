package dbaccess

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/dispensing-data-access/internal/query"
)

// PagedProcedure names the database routines behind one entity's list operation.
//
//	<Find>(selected uuid[], excluded uuid[], search text, conditions jsonb,
//	       order_by text, ascending bool, page int, size int) RETURNS SETOF <row>
//	<Count>(selected uuid[], excluded uuid[], search text, conditions jsonb) RETURNS bigint
type PagedProcedure struct {
	Find  string
	Count string
	// RequiredExactMatch lists fields whose equality condition can never match null.
	RequiredExactMatch []string
}

// FetchPage runs the filtered paged query convention in a single round trip: the page rows
// and the total count travel in one batch. Paging input is clamped, never rejected. An empty
// key selection or a null required exact-match filter yields an empty collection without
// touching the database.
func FetchPage[K comparable, T any](
	ctx context.Context,
	conn Conn,
	proc PagedProcedure,
	m *Mapping[T],
	criteria query.FindCriteria[K],
	page query.Page,
) (query.PagedCollection[T], error) {
	page = page.Clamp()
	if criteria.SelectsNothing() || criteria.NullExactMatch(proc.RequiredExactMatch...) {
		return query.Empty[T](), nil
	}
	if err := criteria.Validate(); err != nil {
		return query.Empty[T](), err
	}

	filterArgs, err := CriteriaArgs(criteria)
	if err != nil {
		return query.Empty[T](), err
	}
	findArgs := append(append([]any(nil), filterArgs...),
		criteria.OrderBy.Arg(), criteria.Ascending, page.Number, page.Size)

	b := &pgx.Batch{}
	b.Queue(fmt.Sprintf("SELECT %s FROM %s($1, $2, $3, $4, $5, $6, $7, $8)", m.SelectList(), proc.Find), findArgs...)
	b.Queue(fmt.Sprintf("SELECT %s($1, $2, $3, $4)", proc.Count), filterArgs...)

	br := conn.SendBatch(ctx, b)
	defer br.Close()

	rows, err := br.Query()
	if err != nil {
		return query.Empty[T](), err
	}
	items, err := m.Collect(rows)
	if err != nil {
		return query.Empty[T](), err
	}

	var total int64
	if err := br.QueryRow().Scan(&total); err != nil {
		return query.Empty[T](), err
	}
	if err := br.Close(); err != nil {
		return query.Empty[T](), err
	}
	if total < int64(len(items)) {
		total = int64(len(items))
	}
	return query.PagedCollection[T]{Items: items, TotalCount: total}, nil
}

// CriteriaArgs renders the filtering part of criteria as the first four routine arguments:
// selected keys (nil when unrestricted), excluded keys, search text and the jsonb conditions.
func CriteriaArgs[K comparable](c query.FindCriteria[K]) ([]any, error) {
	var selected any
	if keys, ok := c.SelectedKeys.Get(); ok {
		selected = keys
	}
	var excluded any
	if len(c.ExcludedKeys) > 0 {
		excluded = c.ExcludedKeys
	}
	conditions := c.Conditions
	if conditions == nil {
		conditions = []query.Condition{}
	}
	raw, err := json.Marshal(conditions)
	if err != nil {
		return nil, fmt.Errorf("encode conditions: %w", err)
	}
	return []any{selected, excluded, c.SearchText.Arg(), raw}, nil
}
