// Package config loads ngstandalone settings from .ngstandalone.yaml,
// NGSTANDALONE_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Default values.
var (
	DefaultWorkers  = runtime.NumCPU()
	DefaultLogLevel = "info"
)

var (
	// ErrInvalidWorkers is returned when workers is negative.
	ErrInvalidWorkers = errors.New("workers must not be negative")
	// ErrInvalidLogLevel is returned for a log level the logger does not know.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Workers  int      `mapstructure:"workers"`
	LogLevel string   `mapstructure:"log_level"`
	Exclude  []string `mapstructure:"exclude"`
	DryRun   bool     `mapstructure:"dry_run"`
	Diff     bool     `mapstructure:"diff"`
}

// Validate checks the configuration for values the migration cannot use.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.LogLevel != "" && !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}
