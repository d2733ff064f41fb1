package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestModuleLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := logWriter
	logWriter = &buf
	t.Cleanup(func() { logWriter = prev })

	hooked := 0
	root, err := New(JSONEncoder, func(zapcore.Entry) error {
		hooked++
		return nil
	})
	require.NoError(t, err)

	logger, err := Module(root, "trust", "info")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.With(zap.String("partner", "p")).Debug("hidden with fields")
	logger.Info("shown", zap.String("partner", "p"))
	require.NoError(t, logger.Sync())

	require.Equal(t, 1, hooked)
	require.Contains(t, buf.String(), `"logger":"trust"`)
	require.Contains(t, buf.String(), `"partner":"p"`)
	require.NotContains(t, buf.String(), "hidden")
}

func TestInvalidConfig(t *testing.T) {
	_, err := New("xml")
	require.Error(t, err)
	root, err := New(ConsoleEncoder)
	require.NoError(t, err)
	_, err = Module(root, "x", "loud")
	require.Error(t, err)
}
