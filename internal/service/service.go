// Package service holds the read use cases behind the inspection API.
// Kept intentionally lean: page normalization, not-found shaping and logging. Validation and
// SQL stay in the repositories.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

// Reader exposes one entity type for lookup and listing.
type Reader[T any] interface {
	// Get fails with repository.ErrNotFound when no row has key.
	Get(ctx context.Context, key uuid.UUID) (T, error)
	List(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[T], error)
}

type reader[T any] struct {
	get  func(ctx context.Context, key uuid.UUID) (*T, error)
	find func(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[T], error)
	log  zerolog.Logger
}

func newReader[T any](
	component string,
	get func(ctx context.Context, key uuid.UUID) (*T, error),
	find func(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[T], error),
	logger zerolog.Logger,
) Reader[T] {
	l := logger.With().Str("module", "service").Str("component", component).Logger()
	return &reader[T]{get: get, find: find, log: l}
}

func (r *reader[T]) Get(ctx context.Context, key uuid.UUID) (T, error) {
	var zero T
	v, err := r.get(ctx, key)
	if err != nil {
		r.log.Error().Err(err).Stringer("key", key).Msg("get failed")
		return zero, err
	}
	if v == nil {
		return zero, repository.ErrNotFound
	}
	return *v, nil
}

func (r *reader[T]) List(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[T], error) {
	start := time.Now()
	p := normalizePage(page)
	res, err := r.find(ctx, criteria, p)
	if err != nil {
		r.log.Error().Err(err).Int("page", p.Number).Int("page_size", p.Size).Msg("list failed")
		return query.Empty[T](), err
	}
	r.log.Debug().Dur("took", time.Since(start)).Int("items", len(res.Items)).Int64("total", res.TotalCount).Msg("listed")
	return res, nil
}

// NewAdministrationRouteReader reads routes regardless of their deleted flag; callers narrow
// with a deleted_flag filter.
func NewAdministrationRouteReader(repo repository.AdministrationRouteRepository, logger zerolog.Logger) Reader[model.AdministrationRoute] {
	get := func(ctx context.Context, key uuid.UUID) (*model.AdministrationRoute, error) {
		return repo.Get(ctx, key, query.Unspecified[bool]())
	}
	return newReader("administration_route", get, repo.Find, logger)
}

func NewServerReader(repo repository.ServerRepository, logger zerolog.Logger) Reader[model.Server] {
	get := func(ctx context.Context, key uuid.UUID) (*model.Server, error) {
		return repo.Get(ctx, key, query.Unspecified[bool]())
	}
	return newReader("server", get, repo.Find, logger)
}

func NewTimingRecordPriorityReader(repo repository.TimingRecordPriorityRepository, logger zerolog.Logger) Reader[model.TimingRecordPriority] {
	get := func(ctx context.Context, key uuid.UUID) (*model.TimingRecordPriority, error) {
		return repo.Get(ctx, key, query.Unspecified[bool]())
	}
	return newReader("timing_record_priority", get, repo.Find, logger)
}

func NewAuthenticationEventReader(repo repository.AuthenticationEventRepository, logger zerolog.Logger) Reader[model.AuthenticationEvent] {
	return newReader("authentication_event", repo.Get, repo.Find, logger)
}

// NewInventoryTransactionReader includes voided transactions in lookups.
func NewInventoryTransactionReader(repo repository.InventoryTransactionRepository, logger zerolog.Logger) Reader[model.InventoryTransaction] {
	get := func(ctx context.Context, key uuid.UUID) (*model.InventoryTransaction, error) {
		return repo.Get(ctx, key, query.Unspecified[bool]())
	}
	return newReader("inventory_transaction", get, repo.Find, logger)
}
