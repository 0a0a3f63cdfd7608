// Package config holds the settings of the demo command.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDelay       = 2 * time.Second
	defaultMaxAttempts = 3
)

// CatalogConfig configures the fake product API.
type CatalogConfig struct {
	Delay time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	Seed  uint64        `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// SessionConfig configures the interactive session.
type SessionConfig struct {
	MaxAttempts int `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
}

// RulesConfig points at extra rules documents merged over the built-in ones.
type RulesConfig struct {
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	OpenAPI string `yaml:"openapi,omitempty" json:"openapi,omitempty"`
	Schema  string `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// LogConfig selects the observer and its level.
type LogConfig struct {
	Observer string `yaml:"observer,omitempty" json:"observer,omitempty"`
	Level    string `yaml:"level,omitempty" json:"level,omitempty"`
	Format   string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Config is the demo configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Session SessionConfig `yaml:"session" json:"session"`
	Rules   RulesConfig   `yaml:"rules" json:"rules"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{Delay: defaultDelay, Seed: 1},
		Session: SessionConfig{MaxAttempts: defaultMaxAttempts},
		Rules:   RulesConfig{Schema: "Product"},
		Log:     LogConfig{Observer: "slog", Level: "info", Format: "text"},
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source == nil {
		return
	}
	if source.Catalog.Delay > 0 {
		c.Catalog.Delay = source.Catalog.Delay
	}
	if source.Catalog.Seed != 0 {
		c.Catalog.Seed = source.Catalog.Seed
	}
	if source.Session.MaxAttempts > 0 {
		c.Session.MaxAttempts = source.Session.MaxAttempts
	}
	if source.Rules.Dir != "" {
		c.Rules.Dir = source.Rules.Dir
	}
	if source.Rules.OpenAPI != "" {
		c.Rules.OpenAPI = source.Rules.OpenAPI
	}
	if source.Rules.Schema != "" {
		c.Rules.Schema = source.Rules.Schema
	}
	if source.Log.Observer != "" {
		c.Log.Observer = source.Log.Observer
	}
	if source.Log.Level != "" {
		c.Log.Level = source.Log.Level
	}
	if source.Log.Format != "" {
		c.Log.Format = source.Log.Format
	}
}

// Parse decodes a YAML or JSON document and merges it over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// Load reads a YAML or JSON config file and merges it over the defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", filename, err)
	}
	return cfg, nil
}
