package store

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port       string `yaml:"port"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	Storage struct {
		DBPath      string `yaml:"db_path"`
		InsertChunk int    `yaml:"insert_chunk"`
		MaxTrades   int    `yaml:"max_trades"`
	} `yaml:"storage"`
	Coaching struct {
		Provider    string        `yaml:"provider"` // CLAUDE, OPENAI or empty for noop
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float32       `yaml:"temperature"`
		System      string        `yaml:"system"`
		CacheTTL    time.Duration `yaml:"cache_ttl"`
		Version     int           `yaml:"version"` // bump to invalidate cached reports
	} `yaml:"coaching"`
}

// EnvOverrides are deployment-level settings that beat the yaml file.
type EnvOverrides struct {
	Port       string        `env:"PORT"`
	DBPath     string        `env:"JOURNAL_DB_PATH"`
	CORSOrigin string        `env:"CORS_ORIGIN"`
	CacheTTL   time.Duration `env:"COACHING_CACHE_TTL"`
}

func (c *Config) Validate() error {
	switch c.Coaching.Provider {
	case "", "CLAUDE", "OPENAI":
	default:
		return fmt.Errorf("invalid coaching provider '%s': must be 'CLAUDE', 'OPENAI' or empty", c.Coaching.Provider)
	}
	if c.Storage.InsertChunk <= 0 || c.Storage.InsertChunk > 1000 {
		return fmt.Errorf("storage.insert_chunk must be between 1-1000, got %d", c.Storage.InsertChunk)
	}
	if c.Coaching.CacheTTL < 0 {
		return fmt.Errorf("coaching.cache_ttl must not be negative, got %s", c.Coaching.CacheTTL)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// No config file is fine; defaults plus env cover a bare deployment.
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "./data/journal.db"
	}
	if c.Storage.InsertChunk == 0 {
		c.Storage.InsertChunk = 100
	}
	if c.Coaching.Model == "" {
		switch c.Coaching.Provider {
		case "CLAUDE":
			c.Coaching.Model = "claude-sonnet-4-20250514"
		case "OPENAI":
			c.Coaching.Model = "gpt-4o-mini"
		}
	}
	if c.Coaching.MaxTokens == 0 {
		c.Coaching.MaxTokens = 2048
	}
	if c.Coaching.CacheTTL == 0 {
		c.Coaching.CacheTTL = time.Hour
	}
	if c.Coaching.Version == 0 {
		c.Coaching.Version = 1
	}

	var ov EnvOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if ov.Port != "" {
		c.Server.Port = ov.Port
	}
	if ov.DBPath != "" {
		c.Storage.DBPath = ov.DBPath
	}
	if ov.CORSOrigin != "" {
		c.Server.CORSOrigin = ov.CORSOrigin
	}
	if ov.CacheTTL != 0 {
		c.Coaching.CacheTTL = ov.CacheTTL
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
