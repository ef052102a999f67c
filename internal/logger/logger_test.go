package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logpkg "github.com/maxviazov/dispensing-data-access/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "production json",
			config: &logpkg.LoggerConfig{
				Env:    "prod",
				Level:  "info",
				Fields: map[string]interface{}{"site": "north"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:        "unknown env",
			config:      &logpkg.LoggerConfig{Env: "wrong-env", Level: "debug"},
			expectError: true,
		},
		{
			name:      "dev console debug",
			config:    &logpkg.LoggerConfig{Env: "dev", Level: "debug", WithCaller: true, Stacktrace: true},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name:        "invalid level",
			config:      &logpkg.LoggerConfig{Env: "prod", Level: "loud"},
			expectError: true,
		},
		{
			name:      "staging stderr",
			config:    &logpkg.LoggerConfig{Env: "staging", Level: "warn", OutputTarget: "stderr", TimeFormat: "unix"},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:        "invalid format",
			config:      &logpkg.LoggerConfig{Env: "prod", Format: "xml"},
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, err := logpkg.New(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, l.GetLevel())
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.OutputTarget)
	assert.Equal(t, "ts", cfg.TimeField)
	assert.Equal(t, "dispensing-data-access", cfg.ServiceName)
}

func TestNew_DevDefaults(t *testing.T) {
	cfg := &logpkg.LoggerConfig{Env: "dev"}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.True(t, cfg.WithCaller)
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := logpkg.New(&logpkg.LoggerConfig{Env: "test", Level: "info", FilePath: path})
	require.NoError(t, err)

	l.Info().Msg("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
