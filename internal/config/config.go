// Package config resolves connection settings for the rank eval endpoint
// from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rank-eval/internal/es"
	"github.com/DjordjeVuckovic/rank-eval/pkg/config/env"
	"github.com/kelseyhightower/envconfig"
)

const DefaultEnvFile = ".env"

type Config struct {
	Endpoint string `envconfig:"RANKEVAL_ENDPOINT" default:"http://localhost:9200"`
	Username string `envconfig:"RANKEVAL_USERNAME"`
	Password string `envconfig:"RANKEVAL_PASSWORD"`
	Index    string `envconfig:"RANKEVAL_INDEX" default:"freeze-1"`
	LogLevel string `envconfig:"RANKEVAL_LOG_LEVEL" default:"info"`
}

// Load reads envFile (if present) and then the process environment. An
// envFile other than DefaultEnvFile must exist.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := env.LoadDotEnv(envFile, envFile != DefaultEnvFile); err != nil {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	slog.Debug("Configuration loaded",
		"endpoint", cfg.Endpoint,
		"index", cfg.Index,
		"has_credentials", cfg.Username != "")

	return cfg, nil
}

// Validate checks the settings once command line overrides are applied.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return apperr.NewValidation("endpoint is empty, set RANKEVAL_ENDPOINT or --endpoint")
	}
	return nil
}

func (c Config) ClientConfig() es.ClientConfig {
	return es.ClientConfig{
		Addresses: []string{c.Endpoint},
		Username:  c.Username,
		Password:  c.Password,
	}
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
