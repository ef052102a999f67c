package config

import (
	"time"

	"github.com/maxviazov/dispensing-data-access/internal/logger"
)

// Config is the root application configuration.
type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger" validate:"-"` // validated by logger.New after defaults
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	DataAccess DataAccessConfig    `mapstructure:"data_access"`
	Migrations MigrationsConfig    `mapstructure:"migrations"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// PostgresConfig holds connection and pool settings. Durations are in seconds.
type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"min=1,max=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"db" validate:"required"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=1"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime" validate:"min=0"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time" validate:"min=0"`
	HealthCheckPeriod int    `mapstructure:"health_check_period" validate:"min=0"`
	CommandTimeout    int    `mapstructure:"command_timeout" validate:"min=0"`
}

// CommandTimeoutDuration is the per-call timeout applied to every connection scope.
// Zero disables it.
func (p PostgresConfig) CommandTimeoutDuration() time.Duration {
	return time.Duration(p.CommandTimeout) * time.Second
}

// DataAccessConfig tunes the shared error classifier.
type DataAccessConfig struct {
	// SuppressCodes lists SQLSTATE codes treated as "no result" instead of failing the call.
	SuppressCodes []string `mapstructure:"suppress_codes" validate:"dive,len=5"`
}

type MigrationsConfig struct {
	AutoApply bool `mapstructure:"auto_apply"`
}
