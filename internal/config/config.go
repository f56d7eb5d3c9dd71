// Package config loads the scraper's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir  = "."
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
	DefaultState    = "CA"
)

// Config is the full scraper configuration
type Config struct {
	DataDir     string                    `yaml:"data_dir"`
	UserAgent   string                    `yaml:"user_agent"`
	Timeout     time.Duration             `yaml:"timeout"`
	LogLevel    string                    `yaml:"log_level"`
	State       string                    `yaml:"state"`
	AtomicWrite bool                      `yaml:"atomic_write"`
	Counties    map[string]CountyOverride `yaml:"counties"`
}

// CountyOverride replaces parts of a built-in county record
type CountyOverride struct {
	URL      string `yaml:"url"`
	DataPath string `yaml:"data_path"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads the configuration at path. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.State == "" {
		c.State = DefaultState
	}
}

func (c *Config) validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("invalid config: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
