// Package config loads process-level settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// AppName is used for the config directory, the instance lock and the app ID.
const AppName = "sitless"

// Config controls where sitless keeps its data and how it logs.
type Config struct {
	DataDir      string        `env:"SITLESS_DATA_DIR"`
	LogLevel     slog.Level    `env:"SITLESS_LOG_LEVEL"     envDefault:"info"`
	LogFormat    string        `env:"SITLESS_LOG_FORMAT"    envDefault:"text"`
	TickInterval time.Duration `env:"SITLESS_TICK_INTERVAL" envDefault:"1s"`
}

// Load parses the environment and fills in the data directory.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.DataDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(configDir, AppName)
	}
	return cfg, nil
}

// DatabasePath returns the SQLite file inside the data directory.
func (cfg Config) DatabasePath() string {
	return filepath.Join(cfg.DataDir, "sitless.db")
}
