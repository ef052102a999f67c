package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager runs fn in one transaction. Repository calls made with the ctx passed to fn join it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// Criteria is the find descriptor used by every list operation; entities are keyed by UUID.
type Criteria = query.FindCriteria[uuid.UUID]

// Conventions shared by every repository below:
//   - reads return a nil pointer (not an error) when nothing matches;
//   - a missing required argument fails with ErrInvalidInput before any I/O;
//   - update and delete of a missing row fail with ErrNotFound;
//   - a database failure the configured classifier suppresses completes the call with
//     its zero result (uuid.Nil, nil, false or an empty page).

// AdministrationRouteRepository persists administration routes. Delete is a soft delete.
type AdministrationRouteRepository interface {
	Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*model.AdministrationRoute, error)
	GetByName(ctx context.Context, name *string) (*model.AdministrationRoute, error)
	Find(ctx context.Context, criteria Criteria, page query.Page) (query.PagedCollection[model.AdministrationRoute], error)
	ExistsByName(ctx context.Context, name string, ignoreKey query.Filter[uuid.UUID]) (bool, error)
	Insert(ctx context.Context, ac model.ActionContext, route model.AdministrationRoute) (uuid.UUID, error)
	Update(ctx context.Context, ac model.ActionContext, route model.AdministrationRoute) error
	Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error
}

// ServerRepository persists servers; the name is the server name.
type ServerRepository interface {
	Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*model.Server, error)
	GetByName(ctx context.Context, name *string) (*model.Server, error)
	Find(ctx context.Context, criteria Criteria, page query.Page) (query.PagedCollection[model.Server], error)
	ExistsByName(ctx context.Context, name string, ignoreKey query.Filter[uuid.UUID]) (bool, error)
	Insert(ctx context.Context, ac model.ActionContext, server model.Server) (uuid.UUID, error)
	Update(ctx context.Context, ac model.ActionContext, server model.Server) error
	Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error
}

// TimingRecordPriorityRepository persists timing-record priorities; the name is the display code.
type TimingRecordPriorityRepository interface {
	Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*model.TimingRecordPriority, error)
	GetByName(ctx context.Context, displayCode *string) (*model.TimingRecordPriority, error)
	Find(ctx context.Context, criteria Criteria, page query.Page) (query.PagedCollection[model.TimingRecordPriority], error)
	ExistsByName(ctx context.Context, displayCode string, ignoreKey query.Filter[uuid.UUID]) (bool, error)
	Insert(ctx context.Context, ac model.ActionContext, priority model.TimingRecordPriority) (uuid.UUID, error)
	Update(ctx context.Context, ac model.ActionContext, priority model.TimingRecordPriority) error
	Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error
}

// AuthenticationEventRepository is an append-only audit log.
type AuthenticationEventRepository interface {
	Get(ctx context.Context, key uuid.UUID) (*model.AuthenticationEvent, error)
	Find(ctx context.Context, criteria Criteria, page query.Page) (query.PagedCollection[model.AuthenticationEvent], error)
	Insert(ctx context.Context, ac model.ActionContext, event model.AuthenticationEvent) (uuid.UUID, error)
}

// InventoryTransactionRepository records quantity movements. Void is the soft delete.
type InventoryTransactionRepository interface {
	Get(ctx context.Context, key uuid.UUID, voided query.Filter[bool]) (*model.InventoryTransaction, error)
	Find(ctx context.Context, criteria Criteria, page query.Page) (query.PagedCollection[model.InventoryTransaction], error)
	Insert(ctx context.Context, ac model.ActionContext, tx model.InventoryTransaction) (uuid.UUID, error)
	// InsertBatch records all transactions or none and returns their keys in input order.
	InsertBatch(ctx context.Context, ac model.ActionContext, txs []model.InventoryTransaction) ([]uuid.UUID, error)
	Void(ctx context.Context, ac model.ActionContext, key uuid.UUID) error
}
