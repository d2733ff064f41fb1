// Package presets holds named configurations that a config file may start from.
package presets

import (
	"fmt"
	"sort"

	"github.com/spacemeshos/profilesync/config"
)

var presets = map[string]config.Config{}

func register(name string, conf config.Config) {
	if _, exists := presets[name]; exists {
		panic(fmt.Sprintf("preset with name %s already exists", name))
	}
	presets[name] = conf
}

// Options returns the names of the presets.
func Options() []string {
	var rst []string
	for name := range presets {
		rst = append(rst, name)
	}
	sort.Strings(rst)
	return rst
}

// Get returns the preset with name.
func Get(name string) (config.Config, error) {
	conf, exists := presets[name]
	if !exists {
		return config.Config{}, fmt.Errorf("preset %s is not registered. select one from %v", name, Options())
	}
	return conf, nil
}
