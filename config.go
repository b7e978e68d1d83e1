package crud

import (
	"fmt"
	"os"
	"time"

	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/dracory/env"
	"gopkg.in/yaml.v3"
)

// Config holds server and database settings.
type Config struct {
	HTTPPort int    `yaml:"http_port"`
	Driver   string `yaml:"driver"`
	DBName   string `yaml:"dbname"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Schema   string `yaml:"schema"`
	SSLMode  string `yaml:"sslmode"`

	PoolMaxConns     int    `yaml:"pool_max_conns"`
	StatementTimeout string `yaml:"statement_timeout"`
}

// LoadConfig reads environment variables (optionally from a .env file) with
// sensible defaults. A non-empty path overlays a YAML file on top of the
// environment.
func LoadConfig(path string) (Config, error) {
	// Missing .env files are ignored inside the lib.
	env.Load(".env")

	cfg := Config{
		HTTPPort: env.GetIntOrDefault("HTTP_PORT", 8000),
		Driver:   env.GetStringOrDefault("DB_DRIVER", "postgres"),
		DBName:   env.GetStringOrDefault("DBNAME", ""),
		User:     env.GetStringOrDefault("USER", ""),
		Password: env.GetStringOrDefault("PASSWORD", ""),
		Host:     env.GetStringOrDefault("HOST", "localhost"),
		Port:     env.GetStringOrDefault("PORT", "5432"),
		Schema:   env.GetStringOrDefault("SCHEMA", "public"),
		SSLMode:  env.GetStringOrDefault("SSLMODE", ""),

		PoolMaxConns:     env.GetIntOrDefault("POOL_MAX_CONNS", inspector.DefaultPoolMaxConns),
		StatementTimeout: env.GetStringOrDefault("STATEMENT_TIMEOUT", ""),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch inspector.NormalizeDriver(c.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
	if c.DBName == "" {
		return fmt.Errorf("DBNAME is required")
	}
	if c.StatementTimeout != "" {
		if _, err := time.ParseDuration(c.StatementTimeout); err != nil {
			return fmt.Errorf("invalid statement_timeout: %w", err)
		}
	}
	if c.PoolMaxConns < 0 {
		return fmt.Errorf("pool_max_conns must not be negative")
	}
	return nil
}

// timeout returns the parsed statement timeout. Validated at load time, so
// a bad value only ever falls back to the default here.
func (c Config) timeout() time.Duration {
	if c.StatementTimeout == "" {
		return inspector.DefaultStatementTimeout
	}
	d, err := time.ParseDuration(c.StatementTimeout)
	if err != nil {
		return inspector.DefaultStatementTimeout
	}
	return d
}

func (c Config) connectionConfig() inspector.ConnectionConfig {
	return inspector.ConnectionConfig{
		Driver:           c.Driver,
		DBName:           c.DBName,
		User:             c.User,
		Password:         c.Password,
		Host:             c.Host,
		Port:             c.Port,
		SSLMode:          c.SSLMode,
		PoolMaxConns:     c.PoolMaxConns,
		StatementTimeout: c.timeout(),
	}
}
