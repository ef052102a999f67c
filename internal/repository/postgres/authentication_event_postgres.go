package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

var authenticationEventMapping = dbaccess.MustMapping(
	dbaccess.Col("key", func(e *model.AuthenticationEvent) any { return &e.Key }),
	dbaccess.Col("user_account_key", func(e *model.AuthenticationEvent) any { return &e.UserAccountKey }),
	dbaccess.Col("user_name", func(e *model.AuthenticationEvent) any { return &e.UserName }),
	dbaccess.Col("dispensing_device_key", func(e *model.AuthenticationEvent) any { return &e.DispensingDeviceKey }),
	dbaccess.Col("method", func(e *model.AuthenticationEvent) any { return &e.Method }),
	dbaccess.Col("purpose", func(e *model.AuthenticationEvent) any { return &e.Purpose }),
	dbaccess.Col("successful", func(e *model.AuthenticationEvent) any { return &e.Successful }),
	dbaccess.Col("message", func(e *model.AuthenticationEvent) any { return &e.Message }),
	dbaccess.Col("occurred_utc", func(e *model.AuthenticationEvent) any { return &e.OccurredUTC }),
	dbaccess.Col("occurred_local", func(e *model.AuthenticationEvent) any { return &e.OccurredLocal }),
)

var authenticationEventProc = dbaccess.PagedProcedure{
	Find:               "authentication_event_find",
	Count:              "authentication_event_count",
	RequiredExactMatch: []string{"user_name"},
}

var (
	authenticationEventGetSQL    = selectByKey("authentication_event", authenticationEventMapping, "")
	authenticationEventInsertSQL = procCall("authentication_event_insert", 12)
)

type authenticationEventRepository struct{ exec *dbaccess.Executor }

func NewAuthenticationEventRepository(exec *dbaccess.Executor) repository.AuthenticationEventRepository {
	return &authenticationEventRepository{exec: exec}
}

func (r *authenticationEventRepository) Get(ctx context.Context, key uuid.UUID) (*model.AuthenticationEvent, error) {
	if err := repository.RequireKey("key", key); err != nil {
		return nil, err
	}
	return getOne(ctx, r.exec, "authentication_event.get", authenticationEventMapping, authenticationEventGetSQL, key)
}

func (r *authenticationEventRepository) Find(ctx context.Context, criteria repository.Criteria, page query.Page) (query.PagedCollection[model.AuthenticationEvent], error) {
	return findPage(ctx, r.exec, "authentication_event.find", authenticationEventProc, authenticationEventMapping, criteria, page)
}

// Insert records the event at the action context's time. When the event names no device,
// the procedure falls back to the action context's device.
func (r *authenticationEventRepository) Insert(ctx context.Context, ac model.ActionContext, e model.AuthenticationEvent) (uuid.UUID, error) {
	if err := validateWrite(ac, e); err != nil {
		return uuid.Nil, err
	}
	args := append([]any{
		keyArg(e.Key), e.UserAccountKey, e.UserName, e.DispensingDeviceKey,
		e.Method, e.Purpose, e.Successful, e.Message,
	}, auditArgs(ac)...)
	return callInsert(ctx, r.exec, "authentication_event.insert", authenticationEventInsertSQL, args...)
}
