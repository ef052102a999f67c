// Package contract holds repository contract suites that any storage implementation must pass.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

// LookupRepository is the shape shared by the named, soft-deletable reference entities.
type LookupRepository[T any] interface {
	Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*T, error)
	GetByName(ctx context.Context, name *string) (*T, error)
	Find(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[T], error)
	ExistsByName(ctx context.Context, name string, ignoreKey query.Filter[uuid.UUID]) (bool, error)
	Insert(ctx context.Context, ac model.ActionContext, v T) (uuid.UUID, error)
	Update(ctx context.Context, ac model.ActionContext, v T) error
	Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error
}

// LookupFixture tells the generic suite how to build and compare one entity type.
type LookupFixture[T any] struct {
	// NameField is the filter field holding the entity's unique name.
	NameField string
	New       func(name string, sort int) T
	Key       func(v T) uuid.UUID
	SetKey    func(v *T, key uuid.UUID)
	Name      func(v T) string
	SetName   func(v *T, name string)
	Deleted   func(v T) bool
	// Same compares mapped fields, excluding server-assigned audit columns.
	Same func(a, b T) bool
}

type LookupFactory[T any] func(t *testing.T) (LookupRepository[T], func())

type AuthenticationEventFactory func(t *testing.T) (repository.AuthenticationEventRepository, func())

type InventoryTransactionFactory func(t *testing.T) (repository.InventoryTransactionRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, routes repository.AdministrationRouteRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

// ActionContext returns an audit context with database-precision timestamps.
func ActionContext() model.ActionContext {
	device := uuid.New()
	return model.NewActionContext(uuid.New(), &device, time.Now().Truncate(time.Microsecond))
}

func RunAdministrationRouteContract(t *testing.T, makeRepo LookupFactory[model.AdministrationRoute]) {
	t.Helper()
	runLookupContract(t, makeRepo, LookupFixture[model.AdministrationRoute]{
		NameField: "name",
		New: func(name string, sort int) model.AdministrationRoute {
			desc := "route " + name
			return model.AdministrationRoute{Name: name, Description: &desc, SortValue: sort}
		},
		Key:     func(v model.AdministrationRoute) uuid.UUID { return v.Key },
		SetKey:  func(v *model.AdministrationRoute, k uuid.UUID) { v.Key = k },
		Name:    func(v model.AdministrationRoute) string { return v.Name },
		SetName: func(v *model.AdministrationRoute, n string) { v.Name = n },
		Deleted: func(v model.AdministrationRoute) bool { return v.DeletedFlag },
		Same: func(a, b model.AdministrationRoute) bool {
			return a.Key == b.Key && a.Name == b.Name && eqStr(a.Description, b.Description) &&
				a.SortValue == b.SortValue && a.SystemFlag == b.SystemFlag && a.DeletedFlag == b.DeletedFlag
		},
	})
}

func RunServerContract(t *testing.T, makeRepo LookupFactory[model.Server]) {
	t.Helper()
	runLookupContract(t, makeRepo, LookupFixture[model.Server]{
		NameField: "server_name",
		New: func(name string, sort int) model.Server {
			return model.Server{
				ServerName:  name,
				HostAddress: fmt.Sprintf("10.0.0.%d", sort+1),
				ServerType:  model.ServerTypeApplication,
				ActiveFlag:  true,
			}
		},
		Key:     func(v model.Server) uuid.UUID { return v.Key },
		SetKey:  func(v *model.Server, k uuid.UUID) { v.Key = k },
		Name:    func(v model.Server) string { return v.ServerName },
		SetName: func(v *model.Server, n string) { v.ServerName = n },
		Deleted: func(v model.Server) bool { return v.DeletedFlag },
		Same: func(a, b model.Server) bool {
			return a.Key == b.Key && a.ServerName == b.ServerName && a.HostAddress == b.HostAddress &&
				eqStr(a.Description, b.Description) && a.ServerType == b.ServerType &&
				a.ActiveFlag == b.ActiveFlag && a.DeletedFlag == b.DeletedFlag
		},
	})
}

func RunTimingRecordPriorityContract(t *testing.T, makeRepo LookupFactory[model.TimingRecordPriority]) {
	t.Helper()
	runLookupContract(t, makeRepo, LookupFixture[model.TimingRecordPriority]{
		NameField: "display_code",
		New: func(name string, sort int) model.TimingRecordPriority {
			return model.TimingRecordPriority{DisplayCode: name, SortValue: sort}
		},
		Key:     func(v model.TimingRecordPriority) uuid.UUID { return v.Key },
		SetKey:  func(v *model.TimingRecordPriority, k uuid.UUID) { v.Key = k },
		Name:    func(v model.TimingRecordPriority) string { return v.DisplayCode },
		SetName: func(v *model.TimingRecordPriority, n string) { v.DisplayCode = n },
		Deleted: func(v model.TimingRecordPriority) bool { return v.DeletedFlag },
		Same: func(a, b model.TimingRecordPriority) bool {
			return a.Key == b.Key && a.DisplayCode == b.DisplayCode && eqStr(a.Description, b.Description) &&
				a.SortValue == b.SortValue && eqStr(a.InternalCode, b.InternalCode) &&
				a.SystemFlag == b.SystemFlag && a.DeletedFlag == b.DeletedFlag
		},
	})
}

func runLookupContract[T any](t *testing.T, makeRepo LookupFactory[T], fx LookupFixture[T]) {
	t.Helper()

	seed := func(t *testing.T, repo LookupRepository[T], n int) []uuid.UUID {
		t.Helper()
		keys := make([]uuid.UUID, 0, n)
		for i := 0; i < n; i++ {
			key, err := repo.Insert(context.Background(), ActionContext(), fx.New(fmt.Sprintf("T-%c", 'A'+i), i))
			if err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
			keys = append(keys, key)
		}
		return keys
	}

	t.Run("insert_and_get_round_trip", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		in := fx.New("Round", 3)
		key, err := repo.Insert(ctx, ActionContext(), in)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if key == uuid.Nil {
			t.Fatal("insert returned the nil key")
		}
		got, err := repo.Get(ctx, key, query.Unspecified[bool]())
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got == nil {
			t.Fatal("inserted row not found")
		}
		fx.SetKey(&in, key)
		if !fx.Same(in, *got) {
			t.Fatalf("mismatch: want %+v got %+v", in, *got)
		}
	})

	t.Run("insert_keeps_caller_key", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		in := fx.New("Keyed", 1)
		want := uuid.New()
		fx.SetKey(&in, want)
		key, err := repo.Insert(context.Background(), ActionContext(), in)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if key != want {
			t.Fatalf("want key %s, got %s", want, key)
		}
	})

	t.Run("get_missing_is_nil", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.Get(context.Background(), uuid.New(), query.Unspecified[bool]())
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %v, %v", got, err)
		}
	})

	t.Run("get_by_name", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		key, err := repo.Insert(ctx, ActionContext(), fx.New("Named", 0))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		lower := "named"
		got, err := repo.GetByName(ctx, &lower)
		if err != nil || got == nil || fx.Key(*got) != key {
			t.Fatalf("case-insensitive lookup failed: %v, %v", got, err)
		}
		none, err := repo.GetByName(ctx, nil)
		if err != nil || none != nil {
			t.Fatalf("nil name must match nothing: %v, %v", none, err)
		}
	})

	t.Run("duplicate_name_already_exists", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Insert(ctx, ActionContext(), fx.New("Dup", 0)); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		_, err := repo.Insert(ctx, ActionContext(), fx.New("DUP", 1))
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		v := fx.New("Before", 0)
		key, err := repo.Insert(ctx, ActionContext(), v)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		fx.SetKey(&v, key)
		fx.SetName(&v, "After")
		if err := repo.Update(ctx, ActionContext(), v); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		got, err := repo.Get(ctx, key, query.Specified(false))
		if err != nil || got == nil || fx.Name(*got) != "After" {
			t.Fatalf("update not visible: %v, %v", got, err)
		}

		missing := fx.New("Ghost", 0)
		fx.SetKey(&missing, uuid.New())
		if err := repo.Update(ctx, ActionContext(), missing); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("soft_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		key, err := repo.Insert(ctx, ActionContext(), fx.New("Gone", 0))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if err := repo.Delete(ctx, ActionContext(), key); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		live, err := repo.Get(ctx, key, query.Specified(false))
		if err != nil || live != nil {
			t.Fatalf("deleted=false must exclude the row: %v, %v", live, err)
		}
		dead, err := repo.Get(ctx, key, query.Specified(true))
		if err != nil || dead == nil || !fx.Deleted(*dead) {
			t.Fatalf("deleted=true must include the row: %v, %v", dead, err)
		}
		both, err := repo.Get(ctx, key, query.Unspecified[bool]())
		if err != nil || both == nil {
			t.Fatalf("unspecified filter must include the row: %v, %v", both, err)
		}

		if err := repo.Delete(ctx, ActionContext(), key); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("second delete: expected ErrNotFound, got %v", err)
		}
		if _, err := repo.Insert(ctx, ActionContext(), fx.New("Gone", 1)); err != nil {
			t.Fatalf("name of a deleted row must be reusable: %v", err)
		}
	})

	t.Run("exists_ignoring_key", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		key, err := repo.Insert(ctx, ActionContext(), fx.New("Only", 0))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		found, err := repo.ExistsByName(ctx, "only", query.Unspecified[uuid.UUID]())
		if err != nil || !found {
			t.Fatalf("expected true, got %v, %v", found, err)
		}
		found, err = repo.ExistsByName(ctx, "Only", query.Specified(key))
		if err != nil || found {
			t.Fatalf("the ignored key must not count: %v, %v", found, err)
		}
		found, err = repo.ExistsByName(ctx, "Only", query.Specified(uuid.New()))
		if err != nil || !found {
			t.Fatalf("another ignored key must not hide the row: %v, %v", found, err)
		}
	})

	t.Run("total_count_independent_of_page_size", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 7)
		for _, size := range []int{0, 2, 3, 10} {
			res, err := repo.Find(context.Background(), query.NewCriteria[uuid.UUID](), query.Page{Number: 1, Size: size})
			if err != nil {
				t.Fatalf("find size %d: %v", size, err)
			}
			if res.TotalCount != 7 {
				t.Fatalf("size %d: total %d", size, res.TotalCount)
			}
			if want := min(size, 7); len(res.Items) != want {
				t.Fatalf("size %d: %d items, want %d", size, len(res.Items), want)
			}
		}
	})

	t.Run("paging_is_clamped", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 4)
		ctx := context.Background()
		low, err := repo.Find(ctx, query.NewCriteria[uuid.UUID](), query.Page{Number: -2, Size: -3})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		base, err := repo.Find(ctx, query.NewCriteria[uuid.UUID](), query.Page{Number: 1, Size: 0})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(low.Items) != len(base.Items) || low.TotalCount != base.TotalCount {
			t.Fatalf("clamped page differs: %+v vs %+v", low, base)
		}
		second, err := repo.Find(ctx, query.NewCriteria[uuid.UUID]().Order(fx.NameField, true), query.Page{Number: 2, Size: 3})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(second.Items) != 1 || fx.Name(second.Items[0]) != "T-D" {
			t.Fatalf("unexpected second page: %+v", second.Items)
		}
	})

	t.Run("selection_and_exclusion", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		keys := seed(t, repo, 5)
		ctx := context.Background()

		empty, err := repo.Find(ctx, query.NewCriteria[uuid.UUID]().Select(), query.Page{Number: 1, Size: 10})
		if err != nil || len(empty.Items) != 0 || empty.TotalCount != 0 {
			t.Fatalf("empty selection must be empty: %+v, %v", empty, err)
		}

		c := query.NewCriteria[uuid.UUID]().Select(keys[0], keys[1], keys[2]).Exclude(keys[1])
		res, err := repo.Find(ctx, c, query.Page{Number: 1, Size: 10})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if res.TotalCount != 2 || len(res.Items) != 2 {
			t.Fatalf("want 2 rows, got %+v", res)
		}
		for _, it := range res.Items {
			if fx.Key(it) == keys[1] {
				t.Fatal("excluded key returned")
			}
		}
	})

	t.Run("search_and_conditions", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo, 5)
		ctx := context.Background()

		res, err := repo.Find(ctx, query.NewCriteria[uuid.UUID]().Search("t-c"), query.Page{Number: 1, Size: 10})
		if err != nil || res.TotalCount != 1 {
			t.Fatalf("search: %+v, %v", res, err)
		}
		for _, literal := range []string{"%", "T_", `T-\`} {
			res, err = repo.Find(ctx, query.NewCriteria[uuid.UUID]().Search(literal), query.Page{Number: 1, Size: 10})
			if err != nil || res.TotalCount != 0 {
				t.Fatalf("search %q must match literally: %+v, %v", literal, res, err)
			}
		}

		c := query.NewCriteria[uuid.UUID]().
			Where(fx.NameField, query.OpIn, []string{"T-A", "T-B", "T-E"}).
			Where("deleted_flag", query.OpEqual, false).
			Order(fx.NameField, false)
		res, err = repo.Find(ctx, c, query.Page{Number: 1, Size: 10})
		if err != nil {
			t.Fatalf("conditions: %v", err)
		}
		if res.TotalCount != 3 || fx.Name(res.Items[0]) != "T-E" {
			t.Fatalf("unexpected result: %+v", res)
		}

		nullName := query.NewCriteria[uuid.UUID]().Where(fx.NameField, query.OpEqual, nil)
		res, err = repo.Find(ctx, nullName, query.Page{Number: 1, Size: 10})
		if err != nil || res.TotalCount != 0 {
			t.Fatalf("null exact match must be empty: %+v, %v", res, err)
		}

		_, err = repo.Find(ctx, query.NewCriteria[uuid.UUID]().Where("no_such_field", query.OpEqual, 1), query.Page{Number: 1, Size: 10})
		if !errors.Is(err, query.ErrInvalidCriteria) {
			t.Fatalf("expected ErrInvalidCriteria, got %v", err)
		}
	})

	t.Run("invalid_input_before_io", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		if _, err := repo.Insert(context.Background(), ActionContext(), fx.New("", 0)); !errors.Is(err, repository.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := repo.ExistsByName(context.Background(), " ", query.Unspecified[uuid.UUID]()); !errors.Is(err, repository.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func RunAuthenticationEventContract(t *testing.T, makeRepo AuthenticationEventFactory) {
	t.Helper()

	newEvent := func(user string, ok bool) model.AuthenticationEvent {
		account := uuid.New()
		return model.AuthenticationEvent{
			UserAccountKey: &account,
			UserName:       user,
			Method:         "badge",
			Purpose:        "login",
			Successful:     ok,
		}
	}

	t.Run("insert_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		ac := ActionContext()
		in := newEvent("nurse.jones", true)
		key, err := repo.Insert(ctx, ac, in)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		got, err := repo.Get(ctx, key)
		if err != nil || got == nil {
			t.Fatalf("get failed: %v, %v", got, err)
		}
		if got.UserName != in.UserName || *got.UserAccountKey != *in.UserAccountKey || !got.Successful {
			t.Fatalf("mismatch: %+v", got)
		}
		if !got.OccurredUTC.Equal(ac.UTCNow) {
			t.Fatalf("occurred_utc %v, want %v", got.OccurredUTC, ac.UTCNow)
		}
		if got.DispensingDeviceKey == nil || *got.DispensingDeviceKey != *ac.DeviceKey {
			t.Fatalf("device must default to the action context device: %+v", got.DispensingDeviceKey)
		}
	})

	t.Run("find_failures", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i, ok := range []bool{true, false, false, true, false} {
			if _, err := repo.Insert(ctx, ActionContext(), newEvent(fmt.Sprintf("user%d", i), ok)); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		c := query.NewCriteria[uuid.UUID]().Where("successful", query.OpEqual, false).Order("occurred_utc", false)
		res, err := repo.Find(ctx, c, query.Page{Number: 1, Size: 2})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if res.TotalCount != 3 || len(res.Items) != 2 {
			t.Fatalf("unexpected page: %+v", res)
		}
	})
}

func RunInventoryTransactionContract(t *testing.T, makeRepo InventoryTransactionFactory) {
	t.Helper()

	device, item := uuid.New(), uuid.New()
	newTx := func(qty string) model.InventoryTransaction {
		return model.InventoryTransaction{
			DispensingDeviceKey: device,
			ItemKey:             item,
			Type:                model.TransactionIssue,
			Quantity:            decimal.RequireFromString(qty),
			UnitOfMeasure:       "tab",
		}
	}

	t.Run("insert_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		ac := ActionContext()
		key, err := repo.Insert(ctx, ac, newTx("2.5"))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		got, err := repo.Get(ctx, key, query.Specified(false))
		if err != nil || got == nil {
			t.Fatalf("get failed: %v, %v", got, err)
		}
		if !got.Quantity.Equal(decimal.RequireFromString("2.5")) || got.ActorKey != ac.ActorKey || got.ItemKey != item {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("void", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		key, err := repo.Insert(ctx, ActionContext(), newTx("1"))
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if err := repo.Void(ctx, ActionContext(), key); err != nil {
			t.Fatalf("void failed: %v", err)
		}
		live, err := repo.Get(ctx, key, query.Specified(false))
		if err != nil || live != nil {
			t.Fatalf("voided=false must exclude the row: %v, %v", live, err)
		}
		voided, err := repo.Get(ctx, key, query.Specified(true))
		if err != nil || voided == nil || voided.VoidedUTC == nil {
			t.Fatalf("voided=true must include the row: %v, %v", voided, err)
		}
		if err := repo.Void(ctx, ActionContext(), key); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("second void: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("insert_batch", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		keys, err := repo.InsertBatch(ctx, ActionContext(), []model.InventoryTransaction{newTx("1"), newTx("2"), newTx("3")})
		if err != nil || len(keys) != 3 {
			t.Fatalf("batch failed: %v, %v", keys, err)
		}
		res, err := repo.Find(ctx, query.NewCriteria[uuid.UUID]().Select(keys...), query.Page{Number: 1, Size: 10})
		if err != nil || res.TotalCount != 3 {
			t.Fatalf("batch rows: %+v, %v", res, err)
		}
	})

	t.Run("insert_batch_is_atomic", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		dup := uuid.New()
		first, second := newTx("1"), newTx("2")
		first.Key, second.Key = dup, dup
		_, err := repo.InsertBatch(ctx, ActionContext(), []model.InventoryTransaction{first, second})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		got, err := repo.Get(ctx, dup, query.Unspecified[bool]())
		if err != nil || got != nil {
			t.Fatalf("batch must roll back: %v, %v", got, err)
		}
	})

	t.Run("find_by_item", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, q := range []string{"1", "2", "3"} {
			if _, err := repo.Insert(ctx, ActionContext(), newTx(q)); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		c := query.NewCriteria[uuid.UUID]().
			Where("item_key", query.OpEqual, item).
			Where("quantity", query.OpGreaterEqual, 2)
		res, err := repo.Find(ctx, c, query.Page{Number: 1, Size: 10})
		if err != nil || res.TotalCount != 2 {
			t.Fatalf("unexpected: %+v, %v", res, err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("rollback_on_error", func(t *testing.T) {
		txm, routes, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var key uuid.UUID
		boom := errors.New("boom")
		err := txm.WithinTx(ctx, func(ctx context.Context) error {
			k, err := routes.Insert(ctx, ActionContext(), model.AdministrationRoute{Name: "Rolled"})
			if err != nil {
				return err
			}
			key = k
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		got, err := routes.Get(ctx, key, query.Unspecified[bool]())
		if err != nil || got != nil {
			t.Fatalf("row must be rolled back: %v, %v", got, err)
		}
	})

	t.Run("commit", func(t *testing.T) {
		txm, routes, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var key uuid.UUID
		err := txm.WithinTx(ctx, func(ctx context.Context) error {
			k, err := routes.Insert(ctx, ActionContext(), model.AdministrationRoute{Name: "Kept"})
			key = k
			return err
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
		got, err := routes.Get(ctx, key, query.Unspecified[bool]())
		if err != nil || got == nil {
			t.Fatalf("row must be committed: %v, %v", got, err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	p, cleanup := makePinger(t)
	t.Cleanup(cleanup)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
