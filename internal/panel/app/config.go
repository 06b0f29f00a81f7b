package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	APIURL       string `env:"PANEL_API_URL"`       // Vendor API base URL (default: http://localhost:3002)
	LegacyAPIURL string `env:"NEXT_PUBLIC_API_URL"` // Accepted when PANEL_API_URL is unset
	DataDir      string `env:"PANEL_DATA_DIR"`      // Directory for durable state (default: ~/.renart-panel)
	DatabaseFile string `env:"PANEL_DATABASE_FILE"` // SQLite file (default: <data dir>/panel.db, ":memory:" disables persistence)
	StorageKey   string `env:"PANEL_STORAGE_KEY"`   // Optional: passphrase sealing stored values at rest

	HTTPTimeout   time.Duration `env:"PANEL_HTTP_TIMEOUT" envDefault:"10s"`
	APIRPS        float64       `env:"PANEL_API_RPS" envDefault:"10"`
	APIBurst      int           `env:"PANEL_API_BURST" envDefault:"20"`
	WatchInterval time.Duration `env:"PANEL_WATCH_INTERVAL" envDefault:"30s"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig reads an optional .env file from the working directory and
// then the process environment. Variables already set win over .env.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parseConfig(env.Options{})
}

// LoadConfigFrom parses vars instead of the process environment.
func LoadConfigFrom(vars map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: vars})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = cfg.LegacyAPIURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = panelsdk.DefaultBaseURL
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".renart-panel")
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = filepath.Join(cfg.DataDir, "panel.db")
	}

	if cfg.APIRPS <= 0 {
		return Config{}, fmt.Errorf("PANEL_API_RPS must be positive, got %v", cfg.APIRPS)
	}
	if cfg.APIBurst < 1 {
		cfg.APIBurst = 1
	}
	return cfg, nil
}
