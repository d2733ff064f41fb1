package config

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// PresetFunc returns a configuration to start from instead of the default one.
type PresetFunc func(name string) (Config, error)

// Load reads the configuration file at path into cfg. If the file or cfg names a preset,
// the preset is loaded first and the file overrides it.
func Load(cfg *Config, path string, presets PresetFunc) error {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	preset := cfg.Preset
	if len(preset) == 0 && v.IsSet("preset") {
		preset = v.GetString("preset")
	}
	if len(preset) > 0 {
		if presets == nil {
			return errors.New("presets are not available")
		}
		p, err := presets(preset)
		if err != nil {
			return err
		}
		*cfg = p
		cfg.Preset = preset
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		WithIgnoreUntagged(),
		WithErrorUnused(),
	}
	if err := v.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if path != "" {
		cfg.ConfigFile = path
	}
	return nil
}

func WithIgnoreUntagged() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.IgnoreUntaggedFields = true
	}
}

func WithErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}
