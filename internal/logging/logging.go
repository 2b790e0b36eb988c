// Package logging builds the process logger. The TUI owns the terminal,
// so logs go to a daily-rotated file rather than stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	filePattern = "kora.%Y%m%d.log"
	linkName    = "kora.log"
	maxAge      = 7 * 24 * time.Hour
)

type Config struct {
	Level string
	// Dir receives the rotated log files. Empty logs to stderr.
	Dir string
	Dev bool
}

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a logger and a function that flushes and closes it.
func New(cfg Config) (*zap.Logger, func(), error) {
	lvl := levelFromString(cfg.Level)

	var out io.Writer = os.Stderr
	closer := func() {}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rl, err := rotatelogs.New(
			filepath.Join(cfg.Dir, filePattern),
			rotatelogs.WithLinkName(filepath.Join(cfg.Dir, linkName)),
			rotatelogs.WithMaxAge(maxAge),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("open rotating log: %w", err)
		}
		out = rl
		closer = func() { rl.Close() }
	}

	return build(out, lvl, cfg.Dev), closer, nil
}

func build(out io.Writer, lvl zapcore.Level, dev bool) *zap.Logger {
	var enc zapcore.Encoder
	if dev {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encoderCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), lvl)
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if dev {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...)
}
