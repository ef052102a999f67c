package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maxviazov/dispensing-data-access/internal/query"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrNotRecorded marks a write inside a batch that the classifier suppressed. A batch
	// is all or nothing, so it is rolled back.
	ErrNotRecorded = errors.New("not recorded")
)

// MapPgError translates common Postgres error codes to domain errors.
// I only map what higher layers handle explicitly; everything else passes through.
// The write procedures raise no_data_found when the target row does not exist.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return ErrConflict
		case pgerrcode.NoDataFound:
			return ErrNotFound
		case pgerrcode.InvalidParameterValue:
			return fmt.Errorf("%w: %s", query.ErrInvalidCriteria, pgErr.Message)
		}
	}
	return err
}
