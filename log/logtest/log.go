// Package logtest provides loggers for package tests.
package logtest

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// LevelEnv selects the verbosity of test loggers, e.g. PROFILESYNC_TEST_LOG=debug.
const LevelEnv = "PROFILESYNC_TEST_LOG"

// New returns a logger writing through tb.Log. Output is discarded unless
// LevelEnv is set or a level is passed explicitly.
func New(tb testing.TB, level ...zapcore.Level) *zap.Logger {
	if len(level) > 0 {
		return zaptest.NewLogger(tb, zaptest.Level(level[0]))
	}
	name, ok := os.LookupEnv(LevelEnv)
	if !ok || name == "" {
		return zap.NewNop()
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		tb.Fatalf("invalid %s=%q: %v", LevelEnv, name, err)
	}
	return zaptest.NewLogger(tb, zaptest.Level(lvl))
}
