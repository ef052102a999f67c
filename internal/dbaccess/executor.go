package dbaccess

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Executor runs repository operations with the shared open/run/release/classify wrapper.
type Executor struct {
	provider   Provider
	classifier Classifier
	metrics    *Metrics
	log        zerolog.Logger
}

func NewExecutor(provider Provider, classifier Classifier, metrics *Metrics, log zerolog.Logger) *Executor {
	if classifier == nil {
		classifier = RethrowAll
	}
	return &Executor{
		provider:   provider,
		classifier: classifier,
		metrics:    metrics,
		log:        log.With().Str("component", "dbaccess").Logger(),
	}
}

// Do opens a scope, runs fn on it and releases the scope on every path. A failure the
// classifier suppresses is logged, counted and turned into a nil error, leaving whatever
// result fn was filling at its zero value. Other failures are returned unchanged.
func (e *Executor) Do(ctx context.Context, op string, fn func(ctx context.Context, conn Conn) error) error {
	start := time.Now()
	err := e.run(ctx, fn)
	elapsed := time.Since(start)

	if err == nil {
		e.metrics.observe(op, outcomeOK, elapsed)
		return nil
	}
	if e.classifier.Classify(err) == Suppress {
		e.metrics.observe(op, outcomeSuppressed, elapsed)
		e.log.Warn().Err(err).Str("operation", op).Dur("elapsed", elapsed).Msg("database error suppressed")
		return nil
	}
	e.metrics.observe(op, outcomeError, elapsed)
	e.log.Debug().Err(err).Str("operation", op).Msg("database call failed")
	return err
}

func (e *Executor) run(ctx context.Context, fn func(ctx context.Context, conn Conn) error) error {
	scope, err := e.provider.Open(ctx)
	if err != nil {
		return err
	}
	defer scope.Release()
	return fn(scope.Context(), scope.Conn())
}
