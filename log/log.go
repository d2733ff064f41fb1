// Package log builds the zap loggers used by profilesync modules.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConsoleEncoder represents logging with plain text.
	ConsoleEncoder = "console"
	// JSONEncoder represents logging with JSON.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stdout

// New creates the root logger. Module loggers derived with Module may only lower or raise
// their own level, the root core accepts everything.
func New(encoding string, hooks ...func(zapcore.Entry) error) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	switch encoding {
	case ConsoleEncoder, "":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case JSONEncoder:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log encoder %q", encoding)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(logWriter), zap.NewAtomicLevelAt(zapcore.DebugLevel))
	return zap.New(zapcore.RegisterHooks(core, hooks...)), nil
}

// Module returns a named child of logger that only logs at level or above.
func Module(logger *zap.Logger, name, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", name, err)
	}
	return WithLevel(logger.Named(name), lvl), nil
}

// WithLevel overrides the level of logger with a dynamic one.
func WithLevel(logger *zap.Logger, level zap.AtomicLevel) *zap.Logger {
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &coreWithLevel{Core: core, lvl: level}
	}))
}

type coreWithLevel struct {
	zapcore.Core
	lvl zap.AtomicLevel
}

func (c *coreWithLevel) Enabled(level zapcore.Level) bool {
	return c.lvl.Enabled(level)
}

func (c *coreWithLevel) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.lvl.Enabled(e.Level) {
		return ce
	}
	return ce.AddCore(e, c.Core)
}

func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{Core: c.Core.With(fields), lvl: c.lvl}
}
