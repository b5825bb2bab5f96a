package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything the remic app reads at startup.
type Config struct {
	RerenderInterval time.Duration
	TodosFile        string
	TodosURL         string
	RefreshInterval  time.Duration
	FetchDelay       time.Duration
	Theme            string
	LogFile          string
	LogLevel         slog.Level

	OTelEndpoint string
	OTelEnabled  bool
}

const (
	defaultConfigPath       = "~/.config/remic/config.toml"
	defaultTodosFile        = "~/.config/remic/todos.yaml"
	defaultLogFile          = "~/.local/state/remic/remic.log"
	defaultRerenderInterval = "16ms"
	defaultRefreshInterval  = "30s"
	defaultTheme            = "Nightfox"
)

// fileConfig mirrors config.toml. Durations stay strings until validated.
type fileConfig struct {
	RerenderInterval string `toml:"rerender_interval"`
	TodosFile        string `toml:"todos_file"`
	TodosURL         string `toml:"todos_url"`
	RefreshInterval  string `toml:"refresh_interval"`
	FetchDelay       string `toml:"fetch_delay"`
	Theme            string `toml:"theme"`
	LogFile          string `toml:"log_file"`
	LogLevel         string `toml:"log_level"`
}

// envConfig holds the REMIC_* overrides. Empty values leave the file's
// setting alone.
type envConfig struct {
	RerenderInterval string `env:"REMIC_RERENDER_INTERVAL"`
	TodosFile        string `env:"REMIC_TODOS_FILE"`
	TodosURL         string `env:"REMIC_TODOS_URL"`
	RefreshInterval  string `env:"REMIC_REFRESH_INTERVAL"`
	LogLevel         string `env:"REMIC_LOG_LEVEL"`
	OTelEndpoint     string `env:"REMIC_OTEL_ENDPOINT"`
	OTelEnabled      bool   `env:"REMIC_OTEL_ENABLED"`
}

// DefaultPath returns the config file consulted when Load is given "".
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default location), applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	raw.apply(overrides)

	cfg, err := raw.resolve()
	if err != nil {
		return Config{}, err
	}
	cfg.OTelEndpoint = strings.TrimSpace(overrides.OTelEndpoint)
	cfg.OTelEnabled = overrides.OTelEnabled || cfg.OTelEndpoint != ""
	return cfg, nil
}

func (raw *fileConfig) apply(e envConfig) {
	override := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&raw.RerenderInterval, e.RerenderInterval)
	override(&raw.TodosFile, e.TodosFile)
	override(&raw.TodosURL, e.TodosURL)
	override(&raw.RefreshInterval, e.RefreshInterval)
	override(&raw.LogLevel, e.LogLevel)
}

func (raw fileConfig) resolve() (Config, error) {
	var cfg Config
	var err error

	if cfg.RerenderInterval, err = parseDuration("rerender_interval", raw.RerenderInterval, defaultRerenderInterval); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval, defaultRefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.FetchDelay, err = parseDuration("fetch_delay", raw.FetchDelay, "0s"); err != nil {
		return Config{}, err
	}

	cfg.TodosFile = mustExpand(orDefault(raw.TodosFile, defaultTodosFile))
	cfg.TodosURL = strings.TrimSpace(raw.TodosURL)
	cfg.Theme = orDefault(raw.Theme, defaultTheme)
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))

	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("log_level %q: %w", level, err)
		}
	}
	return cfg, nil
}

// parseDuration accepts Go duration strings and a bare "0". Negative values
// are rejected.
func parseDuration(key, value, def string) (time.Duration, error) {
	value = orDefault(value, def)
	if value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %s", key, value)
	}
	return d, nil
}

func orDefault(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
