// Package dbaccess is the database-access helper shared by every repository: scoped
// connections with a per-call command timeout, a uniform classify-or-rethrow executor,
// explicit column mappings and the filtered paged query convention.
package dbaccess

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Conn is the minimal executor implemented by *pgxpool.Conn, *pgxpool.Pool and pgx.Tx.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Scope is one connection-scoped unit of work. Release is safe to call more than once.
type Scope struct {
	conn    Conn
	ctx     context.Context
	cancel  context.CancelFunc
	release func()
	once    sync.Once
}

// NewScope wraps conn. A positive timeout bounds every command issued through the scope;
// release (may be nil) returns the connection to its owner.
func NewScope(ctx context.Context, conn Conn, timeout time.Duration, release func()) *Scope {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	return &Scope{conn: conn, ctx: ctx, cancel: cancel, release: release}
}

func (s *Scope) Conn() Conn { return s.conn }

// Context carries the command timeout; pass it to every call made on Conn.
func (s *Scope) Context() context.Context { return s.ctx }

func (s *Scope) Release() {
	s.once.Do(func() {
		s.cancel()
		if s.release != nil {
			s.release()
		}
	})
}

// Provider hands out connection scopes.
type Provider interface {
	Open(ctx context.Context) (*Scope, error)
}

// PoolProvider acquires connections from a pgx pool. When the context carries a
// transaction started by WithTx, the scope reuses it and releasing it is a no-op.
type PoolProvider struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPoolProvider(pool *pgxpool.Pool, commandTimeout time.Duration) *PoolProvider {
	return &PoolProvider{pool: pool, timeout: commandTimeout}
}

func (p *PoolProvider) Open(ctx context.Context) (*Scope, error) {
	if tx, ok := TxFromContext(ctx); ok {
		return NewScope(ctx, tx, p.timeout, nil), nil
	}
	if p.pool == nil {
		return nil, errors.New("pgx pool is nil")
	}
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return NewScope(ctx, c, p.timeout, c.Release), nil
}

var _ Provider = (*PoolProvider)(nil)
