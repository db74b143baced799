// Package config loads the application configuration from an optional YAML
// file with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address, e.g. ":8080".
}

// DatabaseConfig holds the storage DSN.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // SQLite path or Postgres DSN.
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry-hours"`
}

// Expiry returns the token lifetime as a duration.
func (c JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// SMTPConfig holds outbound mail settings. An empty password disables
// winner mail entirely.
type SMTPConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"password"`
}

// LogConfig holds process log settings.
type LogConfig struct {
	File  string `yaml:"file"`  // Optional rotating log file path.
	Level string `yaml:"level"` // logrus level name, defaults to info.
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Log      LogConfig      `yaml:"log"`
}

// defaults mirrors a bare development deployment.
func defaults() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{DSN: "luckydraw.db"},
		JWT:      JWTConfig{Secret: "change-this-secret-in-production", ExpiryHours: 24},
		SMTP:     SMTPConfig{Server: "smtp.gmail.com", Port: 587},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path when it exists and applies environment
// overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		if errRead != nil {
			if !os.IsNotExist(errRead) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
			}
		} else if errParse := yaml.Unmarshal(data, &cfg); errParse != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, errParse)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets deployment env vars win over file values. The names match
// the variables the hosted deployments already set.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LUCKYDRAW_ADDR")); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LUCKYDRAW_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_SERVER")); v != "" {
		cfg.SMTP.Server = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if port, errParse := strconv.Atoi(v); errParse == nil && port > 0 {
			cfg.SMTP.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("SENDER_EMAIL")); v != "" {
		cfg.SMTP.Sender = v
	}
	if v := strings.TrimSpace(os.Getenv("EMAIL_PASSWORD")); v != "" {
		cfg.SMTP.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}
