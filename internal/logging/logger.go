// Package logging builds the zap logger used by the CLI. Everything goes to
// stderr; stdout is reserved for the processed book.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the encoder.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds logging configuration.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level  string    `yaml:"level" json:"level,omitempty"`
	Format Format    `yaml:"format" json:"format,omitempty"`
	Output io.Writer `yaml:"-" json:"-"`
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", name)
	}
}

// New creates a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "", FormatConsole:
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}
