// Package config loads the workalloc configuration: built-in defaults,
// overlaid by an optional YAML file, overlaid by environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"workalloc/internal/embedding"
	"workalloc/internal/explain"
)

// Config holds all runtime configuration.
type Config struct {
	DBPath         string           `yaml:"db_path"`
	LogLevel       string           `yaml:"log_level"`
	Port           int              `yaml:"port"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	Embedding      embedding.Config `yaml:"embedding"`
	Explainer      explain.Config   `yaml:"explainer"`
}

// SetDefaults initializes c with built-in defaults.
func (c *Config) SetDefaults() {
	if c.DBPath == "" {
		home, _ := os.UserHomeDir()
		c.DBPath = filepath.Join(home, ".workalloc", "workalloc.db")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Explainer.Provider == "" {
		c.Explainer.Provider = "template"
	}
}

// ApplyEnv overlays environment variables onto the current values.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("WORKALLOC_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("WORKALLOC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("WORKALLOC_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := os.Getenv("WORKALLOC_EMBED_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("WORKALLOC_EMBED_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("WORKALLOC_EMBED_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("WORKALLOC_EXPLAIN_PROVIDER"); v != "" {
		c.Explainer.Provider = v
	}
	if v := os.Getenv("WORKALLOC_EXPLAIN_MODEL"); v != "" {
		c.Explainer.Model = v
	}
	if v := os.Getenv("WORKALLOC_EXPLAIN_URL"); v != "" {
		c.Explainer.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
		if c.Explainer.APIKey == "" {
			c.Explainer.APIKey = v
		}
	}
}

// Load builds the effective config. path may be empty; a missing file
// at an explicit path is an error, a missing default file is not.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ApplyEnv()
	cfg.SetDefaults()
	return cfg, nil
}
