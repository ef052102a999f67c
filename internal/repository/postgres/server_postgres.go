package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

var serverMapping = dbaccess.MustMapping(
	dbaccess.Col("key", func(s *model.Server) any { return &s.Key }),
	dbaccess.Col("server_name", func(s *model.Server) any { return &s.ServerName }),
	dbaccess.Col("host_address", func(s *model.Server) any { return &s.HostAddress }),
	dbaccess.Col("description", func(s *model.Server) any { return &s.Description }),
	dbaccess.Col("server_type", func(s *model.Server) any { return &s.ServerType }),
	dbaccess.Col("active_flag", func(s *model.Server) any { return &s.ActiveFlag }),
	dbaccess.Col("deleted_flag", func(s *model.Server) any { return &s.DeletedFlag }),
	dbaccess.Col("last_modified_utc", func(s *model.Server) any { return &s.LastModifiedUTC }),
)

var serverProc = dbaccess.PagedProcedure{
	Find:               "server_find",
	Count:              "server_count",
	RequiredExactMatch: []string{"server_name"},
}

var (
	serverGetSQL    = selectByKey("server", serverMapping, "deleted_flag")
	serverByNameSQL = selectByName("server", serverMapping, "server_name")
	serverExistsSQL = existsByName("server", "server_name")
	serverInsertSQL = procCall("server_insert", 10)
	serverUpdateSQL = procCall("server_update", 10)
	serverDeleteSQL = procCall("server_delete", 5)
)

type serverRepository struct{ exec *dbaccess.Executor }

func NewServerRepository(exec *dbaccess.Executor) repository.ServerRepository {
	return &serverRepository{exec: exec}
}

func (r *serverRepository) Get(ctx context.Context, key uuid.UUID, deleted query.Filter[bool]) (*model.Server, error) {
	if err := repository.RequireKey("key", key); err != nil {
		return nil, err
	}
	return getOne(ctx, r.exec, "server.get", serverMapping, serverGetSQL, key, deleted.Arg())
}

func (r *serverRepository) GetByName(ctx context.Context, name *string) (*model.Server, error) {
	if name == nil {
		return nil, nil
	}
	return getOne(ctx, r.exec, "server.get_by_name", serverMapping, serverByNameSQL, *name)
}

func (r *serverRepository) Find(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[model.Server], error) {
	return findPage(ctx, r.exec, "server.find", serverProc, serverMapping, criteria, page)
}

func (r *serverRepository) ExistsByName(ctx context.Context, name string, ignoreKey query.Filter[uuid.UUID]) (bool, error) {
	if err := repository.RequireName("server_name", name); err != nil {
		return false, err
	}
	return exists(ctx, r.exec, "server.exists_by_name", serverExistsSQL, name, ignoreKey.Arg())
}

func (r *serverRepository) Insert(ctx context.Context, ac model.ActionContext, s model.Server) (uuid.UUID, error) {
	if err := validateWrite(ac, s); err != nil {
		return uuid.Nil, err
	}
	args := append([]any{keyArg(s.Key), s.ServerName, s.HostAddress, s.Description, s.ServerType, s.ActiveFlag}, auditArgs(ac)...)
	return callInsert(ctx, r.exec, "server.insert", serverInsertSQL, args...)
}

func (r *serverRepository) Update(ctx context.Context, ac model.ActionContext, s model.Server) error {
	if err := repository.RequireKey("key", s.Key); err != nil {
		return err
	}
	if err := validateWrite(ac, s); err != nil {
		return err
	}
	args := append([]any{s.Key, s.ServerName, s.HostAddress, s.Description, s.ServerType, s.ActiveFlag}, auditArgs(ac)...)
	return call(ctx, r.exec, "server.update", serverUpdateSQL, args...)
}

func (r *serverRepository) Delete(ctx context.Context, ac model.ActionContext, key uuid.UUID) error {
	if err := repository.RequireKey("key", key); err != nil {
		return err
	}
	if err := repository.Validate(ac); err != nil {
		return err
	}
	return call(ctx, r.exec, "server.delete", serverDeleteSQL, append([]any{key}, auditArgs(ac)...)...)
}
