package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

var inventoryTransactionMapping = dbaccess.MustMapping(
	dbaccess.Col("key", func(t *model.InventoryTransaction) any { return &t.Key }),
	dbaccess.Col("dispensing_device_key", func(t *model.InventoryTransaction) any { return &t.DispensingDeviceKey }),
	dbaccess.Col("storage_space_key", func(t *model.InventoryTransaction) any { return &t.StorageSpaceKey }),
	dbaccess.Col("item_key", func(t *model.InventoryTransaction) any { return &t.ItemKey }),
	dbaccess.Col("type", func(t *model.InventoryTransaction) any { return &t.Type }),
	dbaccess.Col("quantity", func(t *model.InventoryTransaction) any { return &t.Quantity }),
	dbaccess.Col("unit_of_measure", func(t *model.InventoryTransaction) any { return &t.UnitOfMeasure }),
	dbaccess.Col("encounter_key", func(t *model.InventoryTransaction) any { return &t.EncounterKey }),
	dbaccess.Col("actor_key", func(t *model.InventoryTransaction) any { return &t.ActorKey }),
	dbaccess.Col("occurred_utc", func(t *model.InventoryTransaction) any { return &t.OccurredUTC }),
	dbaccess.Col("occurred_local", func(t *model.InventoryTransaction) any { return &t.OccurredLocal }),
	dbaccess.Col("voided_flag", func(t *model.InventoryTransaction) any { return &t.VoidedFlag }),
	dbaccess.Col("voided_utc", func(t *model.InventoryTransaction) any { return &t.VoidedUTC }),
)

var inventoryTransactionProc = dbaccess.PagedProcedure{
	Find:  "inventory_transaction_find",
	Count: "inventory_transaction_count",
	RequiredExactMatch: []string{
		"dispensing_device_key", "item_key",
	},
}

var (
	inventoryTransactionGetSQL    = selectByKey("inventory_transaction", inventoryTransactionMapping, "voided_flag")
	inventoryTransactionInsertSQL = procCall("inventory_transaction_insert", 12)
	inventoryTransactionVoidSQL   = procCall("inventory_transaction_void", 5)
)

type inventoryTransactionRepository struct {
	exec *dbaccess.Executor
	txm  repository.TxManager
}

func NewInventoryTransactionRepository(exec *dbaccess.Executor, txm repository.TxManager) repository.InventoryTransactionRepository {
	return &inventoryTransactionRepository{exec: exec, txm: txm}
}

func (r *inventoryTransactionRepository) Get(ctx context.Context, key uuid.UUID, voided query.Filter[bool]) (*model.InventoryTransaction, error) {
	if err := repository.RequireKey("key", key); err != nil {
		return nil, err
	}
	return getOne(ctx, r.exec, "inventory_transaction.get", inventoryTransactionMapping, inventoryTransactionGetSQL, key, voided.Arg())
}

func (r *inventoryTransactionRepository) Find(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[model.InventoryTransaction], error) {
	return findPage(ctx, r.exec, "inventory_transaction.find", inventoryTransactionProc, inventoryTransactionMapping, criteria, page)
}

func (r *inventoryTransactionRepository) Insert(ctx context.Context, ac model.ActionContext, t model.InventoryTransaction) (uuid.UUID, error) {
	if err := validateWrite(ac, t); err != nil {
		return uuid.Nil, err
	}
	return r.insert(ctx, ac, t)
}

func (r *inventoryTransactionRepository) insert(ctx context.Context, ac model.ActionContext, t model.InventoryTransaction) (uuid.UUID, error) {
	args := append([]any{
		keyArg(t.Key), t.DispensingDeviceKey, t.StorageSpaceKey, t.ItemKey,
		t.Type, t.Quantity, t.UnitOfMeasure, t.EncounterKey,
	}, auditArgs(ac)...)
	return callInsert(ctx, r.exec, "inventory_transaction.insert", inventoryTransactionInsertSQL, args...)
}

// InsertBatch validates every transaction before opening the transaction, then records
// them in order. Any failure, including a suppressed one, rolls the whole batch back.
func (r *inventoryTransactionRepository) InsertBatch(ctx context.Context, ac model.ActionContext, txs []model.InventoryTransaction) ([]uuid.UUID, error) {
	if len(txs) == 0 {
		return []uuid.UUID{}, nil
	}
	if err := repository.Validate(ac); err != nil {
		return nil, err
	}
	var fields []repository.FieldError
	for i, t := range txs {
		for _, fe := range repository.FieldErrors(repository.Validate(t)) {
			fe.Field = fmt.Sprintf("items[%d].%s", i, fe.Field)
			fields = append(fields, fe)
		}
	}
	if err := repository.NewInvalidInput(fields...); err != nil {
		return nil, err
	}

	keys := make([]uuid.UUID, 0, len(txs))
	err := r.txm.WithinTx(ctx, func(ctx context.Context) error {
		for i, t := range txs {
			key, err := r.insert(ctx, ac, t)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			if key == uuid.Nil {
				return fmt.Errorf("item %d: %w", i, repository.ErrNotRecorded)
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *inventoryTransactionRepository) Void(ctx context.Context, ac model.ActionContext, key uuid.UUID) error {
	if err := repository.RequireKey("key", key); err != nil {
		return err
	}
	if err := repository.Validate(ac); err != nil {
		return err
	}
	return call(ctx, r.exec, "inventory_transaction.void", inventoryTransactionVoidSQL, append([]any{key}, auditArgs(ac)...)...)
}
