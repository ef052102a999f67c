package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

const defaultPingTimeout = 2 * time.Second

type pinger struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPinger adapts pgxpool to the repository.Pinger interface. Each ping is bounded by
// timeout; a non-positive value means two seconds.
func NewPinger(pool *pgxpool.Pool, timeout time.Duration) repository.Pinger {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	return &pinger{pool: pool, timeout: timeout}
}

func (p *pinger) Ping(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("ping: pgx pool is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
