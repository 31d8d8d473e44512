package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// configBaseNames is the ordered list of config file stems tidyfmt
// searches for, newest/most-specific first — the same order the
// teacher's Discover used, plus a TOML spelling matching the original
// tool's own rustfmt.toml convention.
var configBaseNames = []string{
	"tidyfmt",
	".tidyfmt",
	"Tidyfmt",
}

// Discover returns the path of the first config file found in dir, or
// "" if none exists. It is a thin helper over the same viper search
// Load performs, kept for callers (and tests) that want discovery
// without a full Load.
func Discover(dir string) string {
	for _, base := range configBaseNames {
		v := viper.New()
		v.AddConfigPath(dir)
		v.SetConfigName(base)
		if err := v.ReadInConfig(); err == nil {
			return v.ConfigFileUsed()
		}
	}
	return ""
}

// Load reads and parses a tidyfmt config file via viper, which
// transparently supports YAML and TOML from the same base names
// (tidyfmt.{yml,yaml,toml}, .tidyfmt.{yml,yaml,toml}, Tidyfmt.toml). If
// configPath is non-empty that file is loaded directly; otherwise Load
// searches the given directory. Missing config yields DefaultConfig.
// The returned Config is always validated before being handed back.
func Load(configPath, dir string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(dir)
		found := false
		for _, base := range configBaseNames {
			probe := viper.New()
			probe.AddConfigPath(dir)
			probe.SetConfigName(base)
			if err := probe.ReadInConfig(); err == nil {
				v = probe
				found = true
				break
			}
		}
		if !found {
			return DefaultConfig(), nil
		}
	}

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	}

	cfg := DefaultConfig()
	// Config's fields carry yaml tags; viper decodes by "mapstructure"
	// tags unless told otherwise.
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
