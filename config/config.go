// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// The configuration defaults.
const (
	DefaultWorkers     = 50
	DefaultTimeoutSecs = 3
	DefaultGraceSecs   = 2

	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)

// Config is the validator's configuration, loadable from a YAML file.
type Config struct {
	Workers     int       `yaml:"workers,omitempty" validate:"min=1,max=200"`
	TimeoutSecs int       `yaml:"timeout_secs,omitempty" validate:"min=1"`
	GraceSecs   int       `yaml:"grace_secs,omitempty" validate:"min=1"`
	Nameservers []string  `yaml:"nameservers,omitempty" validate:"omitempty,dive,hostname_port"`
	Log         LogConfig `yaml:"log,omitempty"`
}

// LogConfig defines configuration for logging.
type LogConfig struct {
	Level         string `yaml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	Format        string `yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
	File          string `yaml:"file,omitempty"`
	MaxSizeMB     int    `yaml:"max_size_mb,omitempty" validate:"min=1"`
	MaxLogBackups int    `yaml:"max_backups,omitempty" validate:"min=0"`
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Workers:     DefaultWorkers,
		TimeoutSecs: DefaultTimeoutSecs,
		GraceSecs:   DefaultGraceSecs,
		Log: LogConfig{
			Level:         DefaultLogLevel,
			Format:        DefaultLogFormat,
			File:          DefaultLogFile,
			MaxSizeMB:     DefaultMaxLogSizeMB,
			MaxLogBackups: DefaultMaxLogBackups,
		},
	}
}

// Load reads a YAML configuration file, merging it over the defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse configuration %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration's value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Timeout returns the per-probe timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Grace returns the stop grace period.
func (c *Config) Grace() time.Duration {
	return time.Duration(c.GraceSecs) * time.Second
}
