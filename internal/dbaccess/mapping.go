package dbaccess

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Column binds one result column to a field of T. Field returns a pointer into dst.
type Column[T any] struct {
	Name  string
	Field func(dst *T) any
}

// Col is a shorthand for building a Column.
func Col[T any](name string, field func(dst *T) any) Column[T] {
	return Column[T]{Name: name, Field: field}
}

// Mapping is an explicit, ordered column-to-field table for T. Build it once at package
// initialization and share it; it is read-only afterwards.
type Mapping[T any] struct {
	columns []Column[T]
	names   []string
}

func NewMapping[T any](cols ...Column[T]) (*Mapping[T], error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("mapping for %T has no columns", *new(T))
	}
	seen := make(map[string]struct{}, len(cols))
	names := make([]string, 0, len(cols))
	for i, c := range cols {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("mapping for %T: column %d has no name", *new(T), i)
		}
		if c.Field == nil {
			return nil, fmt.Errorf("mapping for %T: column %q has no field", *new(T), name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("mapping for %T: duplicate column %q", *new(T), name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return &Mapping[T]{columns: append([]Column[T](nil), cols...), names: names}, nil
}

// MustMapping panics on an invalid table. Intended for package-level variables.
func MustMapping[T any](cols ...Column[T]) *Mapping[T] {
	m, err := NewMapping(cols...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Mapping[T]) Columns() []string {
	return append([]string(nil), m.names...)
}

// SelectList renders the columns for a SELECT clause, in mapping order.
func (m *Mapping[T]) SelectList() string {
	return strings.Join(m.names, ", ")
}

// Targets returns scan destinations into dst, in mapping order.
func (m *Mapping[T]) Targets(dst *T) []any {
	out := make([]any, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.Field(dst)
	}
	return out
}

// Scan reads one row. pgx.ErrNoRows is returned as is.
func (m *Mapping[T]) Scan(row pgx.Row) (T, error) {
	var v T
	if err := row.Scan(m.Targets(&v)...); err != nil {
		return v, err
	}
	return v, nil
}

// Collect reads every row and closes rows. The result is never nil.
func (m *Mapping[T]) Collect(rows pgx.Rows) ([]T, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return m.Scan(row)
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
