package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/maxviazov/dispensing-data-access/internal/config"
	"github.com/maxviazov/dispensing-data-access/internal/dbaccess"
	"github.com/maxviazov/dispensing-data-access/internal/handler"
	"github.com/maxviazov/dispensing-data-access/internal/logger"
	"github.com/maxviazov/dispensing-data-access/internal/migrations"
	"github.com/maxviazov/dispensing-data-access/internal/repository/postgres"
	"github.com/maxviazov/dispensing-data-access/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	path := os.Getenv("APP_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	// Load application config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	pool, err := dbaccess.Connect(ctx, cfg.Postgres, appLogger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Migrations.AutoApply {
		if err := migrations.ApplyPool(ctx, pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		appLogger.Info().Msg("migrations applied")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	exec := dbaccess.NewExecutor(
		dbaccess.NewPoolProvider(pool, cfg.Postgres.CommandTimeoutDuration()),
		dbaccess.ClassifierFor(cfg.DataAccess.SuppressCodes),
		dbaccess.NewMetrics(reg),
		appLogger,
	)

	readers := handler.Readers{
		AdministrationRoutes:   service.NewAdministrationRouteReader(postgres.NewAdministrationRouteRepository(exec), appLogger),
		Servers:                service.NewServerReader(postgres.NewServerRepository(exec), appLogger),
		TimingRecordPriorities: service.NewTimingRecordPriorityReader(postgres.NewTimingRecordPriorityRepository(exec), appLogger),
		AuthenticationEvents:   service.NewAuthenticationEventReader(postgres.NewAuthenticationEventRepository(exec), appLogger),
		InventoryTransactions: service.NewInventoryTransactionReader(
			postgres.NewInventoryTransactionRepository(exec, postgres.NewTxManager(pool)), appLogger),
	}

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(appLogger))
	handler.Register(r, postgres.NewPinger(pool, 0), reg, readers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("version", cfg.App.Version).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger writes one line per request in the application log format.
func requestLogger(l zerolog.Logger) gin.HandlerFunc {
	l = l.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := l.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
