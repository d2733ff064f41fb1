// Package config contains profilesync node configuration definitions.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spacemeshos/profilesync/fetch"
	"github.com/spacemeshos/profilesync/metrics"
	"github.com/spacemeshos/profilesync/p2p/server"
	"github.com/spacemeshos/profilesync/pipeline"
	"github.com/spacemeshos/profilesync/scheduler"
	"github.com/spacemeshos/profilesync/statestore"
	"github.com/spacemeshos/profilesync/sync2"
	"github.com/spacemeshos/profilesync/trust"
)

const defaultDataDirName = ".profilesync"

// Config defines the top level configuration of a profilesync node.
type Config struct {
	BaseConfig `mapstructure:"main"`
	Preset     string `mapstructure:"preset"`

	Store     statestore.Config `mapstructure:"store"`
	Trust     trust.Config      `mapstructure:"trust"`
	Pipeline  pipeline.Config   `mapstructure:"pipeline"`
	Sync      sync2.Config      `mapstructure:"sync"`
	Server    server.Config     `mapstructure:"server"`
	Fetch     fetch.Config      `mapstructure:"fetch"`
	Scheduler scheduler.Config  `mapstructure:"scheduler"`
	Metrics   metrics.Config    `mapstructure:"metrics"`
	LOGGING   LoggerConfig      `mapstructure:"logging"`
}

// BaseConfig defines the default configuration options for the node.
type BaseConfig struct {
	DataDir    string `mapstructure:"data-folder"`
	ConfigFile string `mapstructure:"config"`

	// ReconcileEngine is the path of an external reconciliation engine. The in-process
	// engine is used if it is empty.
	ReconcileEngine     string   `mapstructure:"reconcile-engine"`
	ReconcileEngineArgs []string `mapstructure:"reconcile-engine-args"`

	// ShutdownTimeout bounds the graceful shutdown of the node.
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// DBPath is the location of the node database.
func (cfg *BaseConfig) DBPath() string {
	return filepath.Join(cfg.DataDir, "state.sql")
}

// DefaultConfig returns the default configuration of a node.
func DefaultConfig() Config {
	return Config{
		BaseConfig: defaultBaseConfig(),
		Store:      statestore.DefaultConfig(),
		Trust:      trust.DefaultConfig(),
		Pipeline:   pipeline.DefaultConfig(),
		Sync:       sync2.DefaultConfig(),
		Server:     server.DefaultConfig(),
		Fetch:      fetch.DefaultConfig(),
		Scheduler:  scheduler.DefaultConfig(),
		Metrics:    metrics.DefaultConfig(),
		LOGGING:    DefaultLoggingConfig(),
	}
}

func defaultBaseConfig() BaseConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return BaseConfig{
		DataDir:         filepath.Join(home, defaultDataDirName),
		ShutdownTimeout: 30 * time.Second,
	}
}
