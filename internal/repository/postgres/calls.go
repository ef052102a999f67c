package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

// Every repository operation below runs through exec.Do, so the scope is released and
// failures are classified the same way everywhere. Suppressed failures leave the result
// at the zero value the helper started with.

func getOne[T any](ctx context.Context, exec *dbaccess.Executor, op string, m *dbaccess.Mapping[T], sql string, args ...any) (*T, error) {
	var out *T
	err := exec.Do(ctx, op, func(ctx context.Context, conn dbaccess.Conn) error {
		v, err := m.Scan(conn.QueryRow(ctx, sql, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		out = &v
		return nil
	})
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func findPage[T any](
	ctx context.Context,
	exec *dbaccess.Executor,
	op string,
	proc dbaccess.PagedProcedure,
	m *dbaccess.Mapping[T],
	criteria repository.Criteria,
	page query.Page,
) (query.PagedCollection[T], error) {
	if err := criteria.Validate(); err != nil {
		return query.Empty[T](), err
	}
	out := query.Empty[T]()
	err := exec.Do(ctx, op, func(ctx context.Context, conn dbaccess.Conn) error {
		p, err := dbaccess.FetchPage(ctx, conn, proc, m, criteria, page)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return query.Empty[T](), repository.MapPgError(err)
	}
	return out, nil
}

func exists(ctx context.Context, exec *dbaccess.Executor, op, sql string, args ...any) (bool, error) {
	var found bool
	err := exec.Do(ctx, op, func(ctx context.Context, conn dbaccess.Conn) error {
		return conn.QueryRow(ctx, sql, args...).Scan(&found)
	})
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return found, nil
}

// callInsert runs an insert procedure and reads the new key back from its INOUT parameter.
func callInsert(ctx context.Context, exec *dbaccess.Executor, op, sql string, args ...any) (uuid.UUID, error) {
	var key uuid.UUID
	err := exec.Do(ctx, op, func(ctx context.Context, conn dbaccess.Conn) error {
		var k uuid.UUID
		if err := conn.QueryRow(ctx, sql, args...).Scan(&k); err != nil {
			return err
		}
		key = k
		return nil
	})
	if err != nil {
		return uuid.Nil, repository.MapPgError(err)
	}
	return key, nil
}

func call(ctx context.Context, exec *dbaccess.Executor, op, sql string, args ...any) error {
	err := exec.Do(ctx, op, func(ctx context.Context, conn dbaccess.Conn) error {
		_, err := conn.Exec(ctx, sql, args...)
		return err
	})
	return repository.MapPgError(err)
}

// keyArg sends the nil UUID as NULL so the procedure assigns a key.
func keyArg(k uuid.UUID) any {
	if k == uuid.Nil {
		return nil
	}
	return k
}

func auditArgs(ac model.ActionContext) []any {
	return []any{ac.ActorKey, ac.DeviceKey, ac.UTCNow, ac.LocalNow}
}

func validateWrite(ac model.ActionContext, entity any) error {
	if err := repository.Validate(ac); err != nil {
		return err
	}
	return repository.Validate(entity)
}

// procCall renders "CALL name($1, ..., $n)".
func procCall(name string, n int) string {
	s := "CALL " + name + "("
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += ", "
		}
		s += fmt.Sprintf("$%d", i)
	}
	return s + ")"
}

// selectByKey reads one row by key with an optional flag filter; a NULL flag argument
// matches both states.
func selectByKey[T any](table string, m *dbaccess.Mapping[T], flag string) string {
	if flag == "" {
		return fmt.Sprintf("SELECT %s FROM %s WHERE key = $1", m.SelectList(), table)
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE key = $1 AND ($2::boolean IS NULL OR %s = $2)", m.SelectList(), table, flag)
}

// selectByName reads the live row whose name column matches case-insensitively.
func selectByName[T any](table string, m *dbaccess.Mapping[T], column string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE lower(%s) = lower($1) AND NOT deleted_flag LIMIT 1", m.SelectList(), table, column)
}

// existsByName checks live rows, skipping the row whose key is $2 when $2 is not NULL.
func existsByName(table, column string) string {
	return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE lower(%s) = lower($1) AND NOT deleted_flag AND ($2::uuid IS NULL OR key <> $2))", table, column)
}
