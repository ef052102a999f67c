package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type LoggerConfig struct {
	Level          string                 `mapstructure:"level" json:"level,omitempty" validate:"oneof=trace debug info warn error"`
	Format         string                 `mapstructure:"format" json:"format,omitempty" validate:"oneof=json console"`
	OutputTarget   string                 `mapstructure:"output_target" json:"outputTarget,omitempty" validate:"oneof=stdout stderr"`
	FilePath       string                 `mapstructure:"file_path" json:"filePath,omitempty"`
	TimeField      string                 `mapstructure:"time_field" json:"timeField,omitempty"`
	TimeFormat     string                 `mapstructure:"time_format" json:"timeFormat,omitempty" validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName    string                 `mapstructure:"service_name" json:"serviceName,omitempty"`
	ServiceVersion string                 `mapstructure:"service_version" json:"serviceVersion,omitempty"`
	Env            string                 `mapstructure:"env" json:"env,omitempty" validate:"oneof=dev test staging prod"`
	WithCaller     bool                   `mapstructure:"with_caller" json:"withCaller,omitempty"`
	Stacktrace     bool                   `mapstructure:"stacktrace" json:"stacktrace,omitempty"`
	Fields         map[string]interface{} `mapstructure:"fields" json:"fields,omitempty"`
}

// New builds the application logger. The config is completed with defaults in place,
// so callers can inspect what was applied.
func New(cfg *LoggerConfig) (zerolog.Logger, error) {
	cfg.setDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return zerolog.Nop(), fmt.Errorf("logger config validation error: %w", err)
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	zerolog.TimestampFieldName = cfg.TimeField
	zerolog.TimeFieldFormat = timeFieldFormat(cfg.TimeFormat)

	w, err := cfg.writer()
	if err != nil {
		return zerolog.Nop(), err
	}

	ctx := zerolog.New(w).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Str("env", cfg.Env)
	if cfg.WithCaller {
		ctx = ctx.Caller()
	}
	if cfg.Stacktrace {
		ctx = ctx.Stack()
	}
	if len(cfg.Fields) > 0 {
		ctx = ctx.Fields(cfg.Fields)
	}

	zerolog.SetGlobalLevel(level)
	return ctx.Logger().Level(level), nil
}

// writer picks the sink: JSON or console on stdout/stderr, optionally teed into a file.
// A file that cannot be opened is reported instead of silently dropped.
func (c *LoggerConfig) writer() (io.Writer, error) {
	var out io.Writer = os.Stdout
	if c.OutputTarget == "stderr" {
		out = os.Stderr
	}
	if c.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if c.FilePath == "" {
		return out, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(c.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return zerolog.MultiLevelWriter(out, f), nil
}

func timeFieldFormat(name string) string {
	switch name {
	case "rfc3339":
		return time.RFC3339
	case "unix":
		return zerolog.TimeFormatUnix
	case "unix_ms":
		return zerolog.TimeFormatUnixMs
	default:
		return time.RFC3339Nano
	}
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.OutputTarget == "" {
		c.OutputTarget = "stdout"
	}
	if c.TimeField == "" {
		c.TimeField = "ts"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339nano"
	}
	if c.Env == "dev" {
		c.WithCaller = true
	}
	if c.ServiceName == "" {
		c.ServiceName = "dispensing-data-access"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}
}
