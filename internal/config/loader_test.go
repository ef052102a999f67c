package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/dispensing-data-access/internal/config"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"DB_USER", "DB_PASSWORD", "DB_NAME",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	path := writeTempConfig(t, `
app:
  name: dispensing-data-access
  env: test
  port: 18080

logger:
  level: info
  format: json

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
  command_timeout: 15

data_access:
  suppress_codes: ["57014"]
`)
	clearSecretEnv(t)
	t.Setenv("APP_POSTGRES_USER", "pharmacy")
	t.Setenv("APP_POSTGRES_PASSWORD", "secret")
	t.Setenv("APP_POSTGRES_DB", "dispensing")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "pharmacy", cfg.Postgres.User)
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, "dispensing", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, 15*time.Second, cfg.Postgres.CommandTimeoutDuration())
	assert.Equal(t, []string{"57014"}, cfg.DataAccess.SuppressCodes)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FallbackEnvNames(t *testing.T) {
	path := writeTempConfig(t, "postgres:\n  host: db\n")
	clearSecretEnv(t)
	t.Setenv("DB_USER", "fallback")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("DB_NAME", "meds")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.Postgres.User)
	assert.Equal(t, "pw", cfg.Postgres.Password)
	assert.Equal(t, "meds", cfg.Postgres.DBName)
	assert.Equal(t, 30*time.Second, cfg.Postgres.CommandTimeoutDuration())
}

func TestLoad_MissingRequiredEnvFails(t *testing.T) {
	path := writeTempConfig(t, "postgres:\n  host: localhost\n")
	clearSecretEnv(t)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidSuppressCode(t *testing.T) {
	path := writeTempConfig(t, "data_access:\n  suppress_codes: [\"bad\"]\n")
	clearSecretEnv(t)
	t.Setenv("APP_POSTGRES_USER", "u")
	t.Setenv("APP_POSTGRES_PASSWORD", "p")
	t.Setenv("APP_POSTGRES_DB", "d")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
