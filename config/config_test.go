package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"main": {"data-folder": "/var/lib/profilesync", "reconcile-engine-args": "--fast,--quiet"},
		"store": {"max-age": "3h"},
		"trust": {"significance-threshold": 50},
		"server": {"listen": "0.0.0.0:9000", "idle-timeout": "1m"},
		"logging": {"trust": "debug"}
	}`)
	cfg := DefaultConfig()
	require.NoError(t, Load(&cfg, path, nil))

	expected := DefaultConfig()
	expected.DataDir = "/var/lib/profilesync"
	expected.ConfigFile = path
	expected.ReconcileEngineArgs = []string{"--fast", "--quiet"}
	expected.Store.MaxAge = 3 * time.Hour
	expected.Trust.SignificanceThreshold = 50
	expected.Server.Listen = "0.0.0.0:9000"
	expected.Server.IdleTimeout = time.Minute
	expected.LOGGING.TrustLoggerLevel = "debug"
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("loaded config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, `{"store": {"max-agee": "3h"}}`)
	cfg := DefaultConfig()
	require.ErrorContains(t, Load(&cfg, path, nil), "max-agee")
}

func TestLoadMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, Load(&cfg, filepath.Join(t.TempDir(), "missing.json"), nil))
}

func TestLoadWithoutFile(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Load(&cfg, "", nil))
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPreset(t *testing.T) {
	preset := DefaultConfig()
	preset.Fetch.Scheme = "http"
	preset.Store.MaxAge = time.Minute
	presets := func(name string) (Config, error) {
		if name != "local" {
			return Config{}, errors.New("unknown preset")
		}
		return preset, nil
	}

	path := writeConfig(t, `{"preset": "local", "store": {"max-age": "2m"}}`)
	cfg := DefaultConfig()
	require.NoError(t, Load(&cfg, path, presets))
	require.Equal(t, "local", cfg.Preset)
	require.Equal(t, "http", cfg.Fetch.Scheme)
	require.Equal(t, 2*time.Minute, cfg.Store.MaxAge)

	cfg = DefaultConfig()
	cfg.Preset = "remote"
	require.Error(t, Load(&cfg, "", presets))
}
