package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// secretEnv lists keys that normally come only from the environment. Each key accepts the
// canonical APP_* name first, then the conventional fallbacks.
var secretEnv = map[string][]string{
	"postgres.user":     {"APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER"},
	"postgres.password": {"APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD"},
	"postgres.db":       {"APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME"},
	"postgres.host":     {"APP_POSTGRES_HOST", "POSTGRES_HOST"},
	"postgres.port":     {"APP_POSTGRES_PORT", "POSTGRES_PORT"},
}

// Load reads the YAML file at path, applies APP_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)

	for key, names := range secretEnv {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dispensing-data-access")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 1800)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 60)
	v.SetDefault("postgres.command_timeout", 30)

	v.SetDefault("migrations.auto_apply", false)
}
