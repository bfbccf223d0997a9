// Package logging builds the zap logger shared by the CLI and the daemon.
package logging

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Format      string // "console" or "json"
	OutputPaths []string
}

// DefaultConfig logs info and above to stderr so stdout stays free for
// command output.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{"stderr"},
	}
}

// FromViper reads log.level and log.format.
func FromViper(v *viper.Viper) Config {
	cfg := DefaultConfig()
	if l := strings.TrimSpace(v.GetString("log.level")); l != "" {
		cfg.Level = l
	}
	if f := strings.TrimSpace(v.GetString("log.format")); f != "" {
		cfg.Format = f
	}
	return cfg
}

// New creates a logger with the provided configuration.
func New(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	enc := strings.ToLower(cfg.Format)
	if enc != "json" {
		enc = "console"
	}
	out := cfg.OutputPaths
	if len(out) == 0 {
		out = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       enc == "console",
		Encoding:          enc,
		EncoderConfig:     encoderConfig(enc),
		OutputPaths:       out,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	return zapCfg.Build()
}

// NewNop is used by tests and by commands that must stay silent.
func NewNop() *zap.Logger { return zap.NewNop() }

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

func encoderConfig(encoding string) zapcore.EncoderConfig {
	if encoding == "console" {
		return zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05"),
			EncodeDuration: zapcore.StringDurationEncoder,
		}
	}
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
