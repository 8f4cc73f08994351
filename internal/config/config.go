package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup. Values come from an
// optional yaml file and can be overridden through the environment.
type Config struct {
	Server struct {
		Addr          string `yaml:"addr"`
		SessionSecret string `yaml:"session_secret"`
	} `yaml:"server"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
}

// Load reads the config file at path, fills defaults and applies
// environment overrides. A missing file is not an error; the defaults
// plus the environment are enough to run with the in-memory backend.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if v := os.Getenv("BLOG_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Server.SessionSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLite.Path = v
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = "blog.db"
	}

	return cfg, nil
}
