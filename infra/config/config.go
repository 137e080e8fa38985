// Package config loads tooling configuration from YAML with environment
// overrides. Engine semantics are fixed by the engine itself and are not
// configurable; config covers file locations, logging, and report depth.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full tool configuration.
type Config struct {
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`

	EventLog struct {
		Path string `yaml:"path"`
	} `yaml:"eventlog"`

	Store struct {
		Dir string `yaml:"dir"`
	} `yaml:"store"`

	Replay struct {
		Depth int `yaml:"depth"`
	} `yaml:"replay"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.Logging.Level = "info"
	cfg.EventLog.Path = "events.log"
	cfg.Replay.Depth = 10
	return &cfg
}

// Load reads and validates a YAML config file, then applies environment
// overrides (MATCHBOOK_*).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.EventLog.Path == "" {
		return fmt.Errorf("eventlog path is required")
	}
	if c.Replay.Depth <= 0 {
		return fmt.Errorf("replay depth must be positive")
	}
	return nil
}

func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("MATCHBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MATCHBOOK_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("MATCHBOOK_EVENTLOG"); v != "" {
		cfg.EventLog.Path = v
	}
	if v := os.Getenv("MATCHBOOK_STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("MATCHBOOK_REPLAY_DEPTH"); v != "" {
		if depth, err := strconv.Atoi(v); err == nil {
			cfg.Replay.Depth = depth
		}
	}
}
