package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"armoryhub/internal/scraper"
	"armoryhub/internal/store"
	"armoryhub/pkg/database"
)

var DefaultSources = []string{
	"https://en.wikipedia.org/wiki/List_of_firearms",
	"https://en.wikipedia.org/wiki/List_of_assault_rifles",
}

type Config struct {
	Addr         string        `yaml:"addr"`
	Store        store.Config  `yaml:"store"`
	Sources      []string      `yaml:"sources"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	LogLevel     string        `yaml:"log_level"`
}

func DefaultConfig() Config {
	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return Config{
		Addr:         addr,
		Store:        store.Config{Driver: store.DriverJSON, Path: filepath.Join("data", "database.json")},
		Sources:      append([]string(nil), DefaultSources...),
		FetchTimeout: scraper.DefaultTimeout,
		LogLevel:     "info",
	}
}

// LoadConfig starts from DefaultConfig, applies the YAML file named by
// ARMORYHUB_CONFIG if set, then the ARMORYHUB_* environment overrides.
// Unparseable env values are ignored.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("ARMORYHUB_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		// a driver without a path gets that driver's default path
		cfg.Store.Path = ""
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.Store.Path == "" {
			cfg.Store.Path = DefaultStorePath(cfg.Store.Driver)
		}
	}

	if v := os.Getenv("ARMORYHUB_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ARMORYHUB_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
		if os.Getenv("ARMORYHUB_STORE_PATH") == "" {
			cfg.Store.Path = DefaultStorePath(v)
		}
	}
	if v := os.Getenv("ARMORYHUB_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("ARMORYHUB_SOURCES"); v != "" {
		cfg.Sources = splitList(v)
	}
	if v := os.Getenv("ARMORYHUB_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.FetchTimeout = d
		}
	}
	if v := os.Getenv("ARMORYHUB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// DefaultStorePath is where each store driver keeps its snapshot by default.
func DefaultStorePath(driver string) string {
	switch driver {
	case store.DriverSQLite:
		return database.DefaultConfig().Path
	case store.DriverBolt:
		return filepath.Join("data", "weapons.bolt")
	default:
		return filepath.Join("data", "database.json")
	}
}

// Level maps LogLevel to a slog level; unknown names are info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
