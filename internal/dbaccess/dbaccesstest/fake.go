// Package dbaccesstest provides in-memory stand-ins for the pgx types used by dbaccess,
// so repositories can be tested without a database.
package dbaccesstest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
)

// Call records one statement sent through Conn.
type Call struct {
	SQL  string
	Args []any
}

// Conn is a scripted dbaccess.Conn. Unset hooks fail the call.
type Conn struct {
	ExecFunc     func(sql string, args []any) (pgconn.CommandTag, error)
	QueryFunc    func(sql string, args []any) (pgx.Rows, error)
	QueryRowFunc func(sql string, args []any) pgx.Row
	BatchFunc    func(b *pgx.Batch) pgx.BatchResults

	mu      sync.Mutex
	calls   []Call
	batches []*pgx.Batch
}

var errNotScripted = errors.New("dbaccesstest: call not scripted")

func (c *Conn) record(sql string, args []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{SQL: sql, Args: args})
}

// Calls returns the statements sent so far, batches excluded.
func (c *Conn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Batches returns the batches sent so far.
func (c *Conn) Batches() []*pgx.Batch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pgx.Batch(nil), c.batches...)
}

func (c *Conn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.record(sql, args)
	if c.ExecFunc == nil {
		return pgconn.CommandTag{}, errNotScripted
	}
	return c.ExecFunc(sql, args)
}

func (c *Conn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.record(sql, args)
	if c.QueryFunc == nil {
		return nil, errNotScripted
	}
	return c.QueryFunc(sql, args)
}

func (c *Conn) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.record(sql, args)
	if c.QueryRowFunc == nil {
		return ErrRow(errNotScripted)
	}
	return c.QueryRowFunc(sql, args)
}

func (c *Conn) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	c.mu.Lock()
	c.batches = append(c.batches, b)
	c.mu.Unlock()
	if c.BatchFunc == nil {
		return &BatchResults{Err: errNotScripted}
	}
	return c.BatchFunc(b)
}

var _ dbaccess.Conn = (*Conn)(nil)

// Provider hands out scopes over one Conn and counts opens and releases.
type Provider struct {
	Conn    dbaccess.Conn
	OpenErr error
	Timeout time.Duration

	mu       sync.Mutex
	opened   int
	released int
}

func (p *Provider) Open(ctx context.Context) (*dbaccess.Scope, error) {
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	p.mu.Lock()
	p.opened++
	p.mu.Unlock()
	return dbaccess.NewScope(ctx, p.Conn, p.Timeout, func() {
		p.mu.Lock()
		p.released++
		p.mu.Unlock()
	}), nil
}

// Balance returns how many scopes were opened and released.
func (p *Provider) Balance() (opened, released int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened, p.released
}

var _ dbaccess.Provider = (*Provider)(nil)

// Rows is an in-memory pgx.Rows. Scan assigns values by reflection and converts between
// convertible types.
type Rows struct {
	data   [][]any
	pos    int
	err    error
	closed bool
}

func NewRows(rows ...[]any) *Rows {
	return &Rows{data: rows, pos: -1}
}

// FailingRows yields no rows and reports err from Err.
func FailingRows(err error) *Rows {
	return &Rows{pos: -1, err: err}
}

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Closed() bool                                 { return r.closed }
func (r *Rows) Err() error                                   { return r.err }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	r.pos++
	if r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	return true
}

func (r *Rows) Values() ([]any, error) {
	if r.pos < 0 || r.pos >= len(r.data) {
		return nil, errors.New("dbaccesstest: no current row")
	}
	return append([]any(nil), r.data[r.pos]...), nil
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return errors.New("dbaccesstest: no current row")
	}
	return assign(r.data[r.pos], dest)
}

var _ pgx.Rows = (*Rows)(nil)

// Row is an in-memory pgx.Row.
type Row struct {
	values []any
	err    error
}

func NewRow(values ...any) Row { return Row{values: values} }

// ErrRow returns a row whose Scan fails with err.
func ErrRow(err error) Row { return Row{err: err} }

// NoRows returns a row whose Scan fails with pgx.ErrNoRows.
func NoRows() Row { return Row{err: pgx.ErrNoRows} }

func (r Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

// BatchResults replays Results in queue order. Each entry is a *Rows, a Row or an error.
type BatchResults struct {
	Results []any
	Err     error

	next   int
	closed int
}

func (b *BatchResults) pop() (any, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	if b.next >= len(b.Results) {
		return nil, errors.New("dbaccesstest: batch exhausted")
	}
	r := b.Results[b.next]
	b.next++
	if err, ok := r.(error); ok {
		return nil, err
	}
	return r, nil
}

func (b *BatchResults) Exec() (pgconn.CommandTag, error) {
	if _, err := b.pop(); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("SELECT 1"), nil
}

func (b *BatchResults) Query() (pgx.Rows, error) {
	r, err := b.pop()
	if err != nil {
		return nil, err
	}
	rows, ok := r.(*Rows)
	if !ok {
		return nil, fmt.Errorf("dbaccesstest: batch result %d is %T, not *Rows", b.next-1, r)
	}
	return rows, nil
}

func (b *BatchResults) QueryRow() pgx.Row {
	r, err := b.pop()
	if err != nil {
		return ErrRow(err)
	}
	row, ok := r.(Row)
	if !ok {
		return ErrRow(fmt.Errorf("dbaccesstest: batch result %d is %T, not Row", b.next-1, r))
	}
	return row
}

func (b *BatchResults) Close() error {
	b.closed++
	return nil
}

// Closed reports whether Close was called at least once.
func (b *BatchResults) Closed() bool { return b.closed > 0 }

var _ pgx.BatchResults = (*BatchResults)(nil)

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("dbaccesstest: %d values for %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("dbaccesstest: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		sv := reflect.ValueOf(v)
		switch {
		case sv.Type().AssignableTo(target.Type()):
			target.Set(sv)
		case target.Kind() == reflect.Pointer && sv.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(sv)
			target.Set(p)
		case sv.Type().ConvertibleTo(target.Type()):
			target.Set(sv.Convert(target.Type()))
		default:
			return fmt.Errorf("dbaccesstest: cannot assign %T to destination %d of type %s", v, i, target.Type())
		}
	}
	return nil
}
