// Package config merges defaults, an optional YAML config file,
// EXTRATU_* environment variables and CLI flags.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	AnalyzerURL     string        `mapstructure:"analyzer_url"`
	AnalyzerTimeout time.Duration `mapstructure:"analyzer_timeout"`
	BatchSize       int           `mapstructure:"batch_size"`
	SkipDuplicates  bool          `mapstructure:"skip_duplicates"`
	RulesFile       string        `mapstructure:"rules_file"`
	ListenAddr      string        `mapstructure:"listen_addr"`
	SampleSize      int           `mapstructure:"sample_size"`
}

// flagBindings maps config keys to the CLI flag that overrides them.
var flagBindings = map[string]string{
	"analyzer_url":    "analyzer-url",
	"batch_size":      "batch-size",
	"skip_duplicates": "skip-duplicates",
	"rules_file":      "rules",
	"listen_addr":     "listen",
}

// Build loads the configuration. An explicit cfgFile must exist; the
// implicit ./config.yaml is optional.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("analyzer_timeout", 10*time.Second)
	v.SetDefault("batch_size", 50)
	v.SetDefault("skip_duplicates", true)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("sample_size", 5)

	v.SetEnvPrefix("EXTRATU")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
