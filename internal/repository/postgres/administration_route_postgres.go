package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

var administrationRouteMapping = dbaccess.MustMapping(
	dbaccess.Col("key", func(r *model.AdministrationRoute) any { return &r.Key }),
	dbaccess.Col("name", func(r *model.AdministrationRoute) any { return &r.Name }),
	dbaccess.Col("description", func(r *model.AdministrationRoute) any { return &r.Description }),
	dbaccess.Col("sort_value", func(r *model.AdministrationRoute) any { return &r.SortValue }),
	dbaccess.Col("system_flag", func(r *model.AdministrationRoute) any { return &r.SystemFlag }),
	dbaccess.Col("deleted_flag", func(r *model.AdministrationRoute) any { return &r.DeletedFlag }),
	dbaccess.Col("last_modified_utc", func(r *model.AdministrationRoute) any { return &r.LastModifiedUTC }),
)

var administrationRouteProc = dbaccess.PagedProcedure{
	Find:               "administration_route_find",
	Count:              "administration_route_count",
	RequiredExactMatch: []string{"name"},
}

var (
	administrationRouteGetSQL    = selectByKey("administration_route", administrationRouteMapping, "deleted_flag")
	administrationRouteByNameSQL = selectByName("administration_route", administrationRouteMapping, "name")
	administrationRouteExistsSQL = existsByName("administration_route", "name")
	administrationRouteInsertSQL = procCall("administration_route_insert", 9)
	administrationRouteUpdateSQL = procCall("administration_route_update", 9)
	administrationRouteDeleteSQL = procCall("administration_route_delete", 5)
)

type administrationRouteRepository struct{ exec *dbaccess.Executor }

func NewAdministrationRouteRepository(exec *dbaccess.Executor) repository.AdministrationRouteRepository {
	return &administrationRouteRepository{exec: exec}
}

func (r *administrationRouteRepository) Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*model.AdministrationRoute, error) {
	if err := repository.RequireKey("key", key); err != nil {
		return nil, err
	}
	return getOne(ctx, r.exec, "administration_route.get", administrationRouteMapping, administrationRouteGetSQL, key, deleted.Arg())
}

func (r *administrationRouteRepository) GetByName(ctx context.Context, name *string) (*model.AdministrationRoute, error) {
	if name == nil {
		return nil, nil
	}
	return getOne(ctx, r.exec, "administration_route.get_by_name", administrationRouteMapping, administrationRouteByNameSQL, *name)
}

func (r *administrationRouteRepository) Find(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[model.AdministrationRoute], error) {
	return findPage(ctx, r.exec, "administration_route.find", administrationRouteProc, administrationRouteMapping, criteria, page)
}

func (r *administrationRouteRepository) ExistsByName(ctx context.Context, name string, ignoreKey query.Filter[uuid.UUID]) (bool, error) {
	if err := repository.RequireName("name", name); err != nil {
		return false, err
	}
	return exists(ctx, r.exec, "administration_route.exists_by_name", administrationRouteExistsSQL, name, ignoreKey.Arg())
}

func (r *administrationRouteRepository) Insert(ctx context.Context, ac model.ActionContext, route model.AdministrationRoute) (uuid.UUID, error) {
	if err := validateWrite(ac, route); err != nil {
		return uuid.Nil, err
	}
	args := append([]any{keyArg(route.Key), route.Name, route.Description, route.SortValue, route.SystemFlag}, auditArgs(ac)...)
	return callInsert(ctx, r.exec, "administration_route.insert", administrationRouteInsertSQL, args...)
}

func (r *administrationRouteRepository) Update(ctx context.Context, ac model.ActionContext, route model.AdministrationRoute) error {
	if err := repository.RequireKey("key", route.Key); err != nil {
		return err
	}
	if err := validateWrite(ac, route); err != nil {
		return err
	}
	args := append([]any{route.Key, route.Name, route.Description, route.SortValue, route.SystemFlag}, auditArgs(ac)...)
	return call(ctx, r.exec, "administration_route.update", administrationRouteUpdateSQL, args...)
}

func (r *administrationRouteRepository) Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error {
	if err := repository.RequireKey("key", key); err != nil {
		return err
	}
	if err := repository.Validate(ac); err != nil {
		return err
	}
	return call(ctx, r.exec, "administration_route.delete", administrationRouteDeleteSQL, append([]any{key}, auditArgs(ac)...)...)
}
