// Package cmd is the base package for the profilesync executables.
package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/spacemeshos/profilesync/config"
)

// Set at build time with -ldflags "-X github.com/spacemeshos/profilesync/cmd.Version=...".
var (
	Version = "dev"
	Commit  string
)

// AddFlags adds the node flags to flagSet. Flags write into conf, so they must be parsed
// again after the config file was loaded to take precedence over it.
func AddFlags(flagSet *pflag.FlagSet, conf *config.Config) (configPath *string) {
	configPath = flagSet.StringP("config", "c", "", "load configuration from file")
	flagSet.StringVarP(&conf.Preset, "preset", "p", conf.Preset,
		"preset overwrites default values of the config")

	/** ======================== Base Flags ========================== **/
	flagSet.StringVarP(&conf.DataDir, "data-folder", "d",
		conf.DataDir, "directory of the node database")
	flagSet.StringVar(&conf.ReconcileEngine, "reconcile-engine",
		conf.ReconcileEngine, "path of an external reconciliation engine, the in-process engine is used if empty")
	flagSet.StringSliceVar(&conf.ReconcileEngineArgs, "reconcile-engine-args",
		conf.ReconcileEngineArgs, "arguments of the external reconciliation engine")
	flagSet.DurationVar(&conf.ShutdownTimeout, "shutdown-timeout",
		conf.ShutdownTimeout, "time to drain the pipeline on shutdown")

	/** ======================== Server Flags ========================== **/
	flagSet.StringVar(&conf.Server.Listen, "listen",
		conf.Server.Listen, "address partners connect to")
	flagSet.DurationVar(&conf.Server.IdleTimeout, "idle-timeout",
		conf.Server.IdleTimeout, "time after which a silent partner is abandoned")

	/** ======================== Store and Trust Flags ========================== **/
	flagSet.DurationVar(&conf.Store.MaxAge, "max-age",
		conf.Store.MaxAge, "how long fetched states are vouched for")
	flagSet.IntVar(&conf.Trust.SignificanceThreshold, "significance-threshold",
		conf.Trust.SignificanceThreshold, "samples needed before a partner can be kicked")
	flagSet.IntVar(&conf.Trust.MaxFailedPercentage, "max-failed-percentage",
		conf.Trust.MaxFailedPercentage, "percentage of failed samples above which a partner is kicked")

	/** ======================== Fetch Flags ========================== **/
	flagSet.StringVar(&conf.Fetch.Scheme, "fetch-scheme",
		conf.Fetch.Scheme, "scheme of profile urls")
	flagSet.DurationVar(&conf.Fetch.Timeout, "fetch-timeout",
		conf.Fetch.Timeout, "timeout of a profile fetch")

	/** ======================== Metrics and Logging Flags ========================== **/
	flagSet.BoolVar(&conf.Metrics.Enabled, "metrics",
		conf.Metrics.Enabled, "serve prometheus metrics")
	flagSet.StringVar(&conf.Metrics.Listen, "metrics-listen",
		conf.Metrics.Listen, "address of the metrics endpoint")
	flagSet.StringVar(&conf.LOGGING.Encoder, "log-encoder",
		conf.LOGGING.Encoder, "console or json")
	return configPath
}

// Reapply runs load and then restores the flags set on the command line, so that
// they take precedence over what load wrote into the config.
func Reapply(flagSet *pflag.FlagSet, load func() error) error {
	type saved struct {
		value string
		slice []string
	}
	changed := make(map[string]saved)
	flagSet.Visit(func(f *pflag.Flag) {
		s := saved{value: f.Value.String()}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			s.slice = sv.GetSlice()
		}
		changed[f.Name] = s
	})
	if err := load(); err != nil {
		return err
	}
	for name, s := range changed {
		f := flagSet.Lookup(name)
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(s.slice); err != nil {
				return fmt.Errorf("flag %s: %w", name, err)
			}
			continue
		}
		if err := f.Value.Set(s.value); err != nil {
			return fmt.Errorf("flag %s: %w", name, err)
		}
	}
	return nil
}
