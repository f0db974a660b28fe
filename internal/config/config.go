// Package config loads layered defaults for kabi-tools commands: an
// optional project file (.kabi-tools.toml), environment variables, and
// built-in defaults. Command-line flags always take precedence over
// everything here; this package only supplies what a flag falls back to
// when the user didn't set it.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the subset of settings commands can default from.
type Config struct {
	Jobs   int
	Format string
	Color  bool
}

// Load reads configuration from built-in defaults, configPath (if
// non-empty and present), and KABI_-prefixed environment variables, in
// that increasing order of precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KABI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("jobs", 0) // 0 means "use worker.DefaultJobs()"
	v.SetDefault("format", "pretty")
	v.SetDefault("color", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	} else {
		v.SetConfigName(".kabi-tools")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, err
			}
		}
	}

	return &Config{
		Jobs:   v.GetInt("jobs"),
		Format: v.GetString("format"),
		Color:  v.GetBool("color"),
	}, nil
}
