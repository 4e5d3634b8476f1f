// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads propctl settings from an optional YAML file and
// command-line flags. Flags explicitly set on the command line win over the
// file; the file wins over flag defaults.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// CodeInvalid marks configuration that failed to load or validate.
const CodeInvalid = "CONFIG_INVALID"

// Default values.
const (
	DefaultLogFormat    = "text"
	DefaultLogLevel     = "info"
	DefaultOutputFormat = "table"
)

// Config holds all propctl settings.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Engine EngineConfig `koanf:"engine"`
	Output OutputConfig `koanf:"output"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// EngineConfig tunes collections built by the CLI.
type EngineConfig struct {
	// MaxCascadeDepth bounds nested rule writes; 0 means unbounded.
	MaxCascadeDepth int `koanf:"max_cascade_depth"`
}

// OutputConfig selects how results are printed.
type OutputConfig struct {
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Format: DefaultLogFormat, Level: DefaultLogLevel},
		Output: OutputConfig{Format: DefaultOutputFormat},
	}
}

// flagKeys maps flag names to configuration keys. Flags not listed here are
// not configuration.
var flagKeys = map[string]string{
	"log-format":        "log.format",
	"log-level":         "log.level",
	"max-cascade-depth": "engine.max_cascade_depth",
	"output":            "output.format",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("log-format", def.Log.Format, "log format (json or text)")
	fs.String("log-level", def.Log.Level, "log level (debug, info, warn, error)")
	fs.Int("max-cascade-depth", def.Engine.MaxCascadeDepth, "maximum nesting of rule-triggered writes (0 = unlimited)")
	fs.StringP("output", "o", def.Output.Format, "output format (table or json)")
}

// Load reads path (when non-empty) and then fs (when non-nil) on top of the
// defaults, and validates the result.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeInvalid).With("path", path).Wrapf(err, "load config file")
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code(CodeInvalid).Wrapf(err, "load config flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", c.Log.Format, "must be 'json' or 'text'")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level", c.Log.Level, "must be one of debug, info, warn, error")
	}
	if c.Engine.MaxCascadeDepth < 0 {
		return invalid("engine.max_cascade_depth", c.Engine.MaxCascadeDepth, "must not be negative")
	}
	if c.Output.Format != "table" && c.Output.Format != "json" {
		return invalid("output.format", c.Output.Format, "must be 'table' or 'json'")
	}
	return nil
}

func invalid(key string, value any, msg string) error {
	return oops.Code(CodeInvalid).
		With("key", key).
		With("value", value).
		Errorf("%s %s, got %v", key, msg, value)
}
