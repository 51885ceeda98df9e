// Package config holds the bookshelf runtime configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported storage backends
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config is read from BOOKSHELF_* environment variables; command line
// flags override individual fields afterwards.
type Config struct {
	Backend       string `env:"BOOKSHELF_BACKEND" envDefault:"memory"`
	DataFile      string `env:"BOOKSHELF_DATA_FILE" envDefault:"bookshelf.godb"`
	SQLitePath    string `env:"BOOKSHELF_SQLITE_PATH" envDefault:"bookshelf.db"`
	MongoURI      string `env:"BOOKSHELF_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"BOOKSHELF_MONGO_DATABASE" envDefault:"bookstore"`
	Collection    string `env:"BOOKSHELF_COLLECTION" envDefault:"books"`

	LogLevel       string `env:"BOOKSHELF_LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"BOOKSHELF_LOG_DEVELOPMENT" envDefault:"false"`

	Port           string        `env:"BOOKSHELF_PORT" envDefault:"8080"`
	BackgroundSave time.Duration `env:"BOOKSHELF_BACKGROUND_SAVE" envDefault:"0s"`

	ConnectTimeout time.Duration `env:"BOOKSHELF_CONNECT_TIMEOUT" envDefault:"30s"`
}

// FromEnv parses the environment into a Config without validating it, so
// callers can apply overrides first.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the backend name and the settings it depends on.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Collection == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires a database path")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo backend requires a connection uri")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("mongo backend requires a database name")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendMemory, BackendSQLite, BackendMongo)
	}
	if c.BackgroundSave < 0 {
		return fmt.Errorf("background save interval cannot be negative")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	return nil
}
