package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

func TestMapPgError(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrAlreadyExists},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrConflict},
		{"restrict", &pgconn.PgError{Code: pgerrcode.RestrictViolation}, repository.ErrConflict},
		{"no_data_found", &pgconn.PgError{Code: pgerrcode.NoDataFound}, repository.ErrNotFound},
		{"wrapped", fmt.Errorf("call: %w", &pgconn.PgError{Code: pgerrcode.NoDataFound}), repository.ErrNotFound},
		{"invalid_parameter", &pgconn.PgError{Code: pgerrcode.InvalidParameterValue, Message: "unknown field"}, query.ErrInvalidCriteria},
		{"other_pg", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, nil},
		{"plain", boom, boom},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			switch {
			case tc.in == nil:
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
			case tc.want == nil:
				if got != tc.in {
					t.Fatalf("unmapped error must pass through unchanged, got %v", got)
				}
			default:
				if !errors.Is(got, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}
