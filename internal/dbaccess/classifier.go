package dbaccess

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Decision is what the executor does with a failed call.
type Decision int

const (
	// Rethrow returns the error to the caller unchanged.
	Rethrow Decision = iota
	// Suppress logs the error and completes the call with its zero result.
	Suppress
)

func (d Decision) String() string {
	if d == Suppress {
		return "suppress"
	}
	return "rethrow"
}

type Classifier interface {
	Classify(err error) Decision
}

type ClassifierFunc func(err error) Decision

func (f ClassifierFunc) Classify(err error) Decision { return f(err) }

// RethrowAll never suppresses.
var RethrowAll Classifier = ClassifierFunc(func(error) Decision { return Rethrow })

// CodeClassifier suppresses Postgres errors whose SQLSTATE is in a configured set.
// Anything that is not a *pgconn.PgError, context cancellation included, is rethrown.
type CodeClassifier struct {
	codes map[string]struct{}
}

func NewCodeClassifier(codes ...string) *CodeClassifier {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return &CodeClassifier{codes: m}
}

func (c *CodeClassifier) Classify(err error) Decision {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Rethrow
	}
	if _, ok := c.codes[pgErr.Code]; ok {
		return Suppress
	}
	return Rethrow
}

// ClassifierFor returns RethrowAll when codes is empty.
func ClassifierFor(codes []string) Classifier {
	if len(codes) == 0 {
		return RethrowAll
	}
	return NewCodeClassifier(codes...)
}
