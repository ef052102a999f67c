package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

type txManager struct{ db dbaccess.TxBeginner }

// NewTxManager starts transactions on pool. Repository calls made with the ctx handed
// to the unit of work run inside the transaction.
func NewTxManager(pool *pgxpool.Pool) repository.TxManager { return &txManager{db: pool} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	return repository.MapPgError(dbaccess.RunInTx(ctx, m.db, fn))
}

// ensure interfaces are satisfied at compile time
var _ repository.TxManager = (*txManager)(nil)
