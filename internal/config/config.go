package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything roster reads from its config file and environment.
type Config struct {
	SpreadsheetURL string
	SheetName      string
	PollInterval   time.Duration
	BaseURL        string // sheets host override; empty means docs.google.com
	WriteURL       string // Apps Script web app; empty means simulated writes
	AccessCode     string
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/roster/config.toml"
	defaultSpreadsheetURL = "https://docs.google.com/spreadsheets/d/1AJoBk_odFcqrY8SMTuiEWf9Q5KcNzcAUyNxgDVelRBg/edit"
	defaultSheetName      = "Sheet1"
	defaultPollSeconds    = 3
	defaultLogFile        = "~/.local/share/roster/roster.log"
	defaultLogLevel       = "info"
	envPrefix             = "ROSTER_"
)

// raw mirrors the file layout. Environment variables are applied on top of
// the file with the ROSTER_ prefix.
type raw struct {
	SpreadsheetURL string `toml:"spreadsheet_url" env:"SPREADSHEET_URL"`
	SheetName      string `toml:"sheet_name" env:"SHEET_NAME"`
	PollSeconds    int    `toml:"poll_seconds" env:"POLL_SECONDS"`
	BaseURL        string `toml:"base_url" env:"BASE_URL"`
	WriteURL       string `toml:"write_url" env:"WRITE_URL"`
	AccessCode     string `toml:"access_code" env:"ACCESS_CODE"`
	LogFile        string `toml:"log_file" env:"LOG_FILE"`
	LogLevel       string `toml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg, _ := normalize(raw{})
	return cfg
}

// Path resolves the config file location, defaulting to
// ~/.config/roster/config.toml.
func Path(path string) (string, error) {
	return resolvePath(path)
}

// Load reads the config file, falling back to defaults when it is missing,
// and then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var r raw
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &r); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.ParseWithOptions(&r, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return normalize(r)
}

func normalize(r raw) (Config, error) {
	cfg := Config{
		SpreadsheetURL: strings.TrimSpace(r.SpreadsheetURL),
		SheetName:      strings.TrimSpace(r.SheetName),
		BaseURL:        strings.TrimSpace(r.BaseURL),
		WriteURL:       strings.TrimSpace(r.WriteURL),
		AccessCode:     strings.TrimSpace(r.AccessCode),
		LogFile:        strings.TrimSpace(r.LogFile),
		LogLevel:       strings.ToLower(strings.TrimSpace(r.LogLevel)),
	}
	if cfg.SpreadsheetURL == "" {
		cfg.SpreadsheetURL = defaultSpreadsheetURL
	}
	if cfg.SheetName == "" {
		cfg.SheetName = defaultSheetName
	}
	seconds := r.PollSeconds
	if seconds <= 0 {
		seconds = defaultPollSeconds
	}
	cfg.PollInterval = time.Duration(seconds) * time.Second
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if isLogSentinel(cfg.LogFile) {
		cfg.LogFile = strings.ToLower(cfg.LogFile)
		return cfg, nil
	}
	logFile, err := expandPath(cfg.LogFile)
	if err != nil {
		return Config{}, fmt.Errorf("log file: %w", err)
	}
	cfg.LogFile = logFile
	return cfg, nil
}

// isLogSentinel reports the log_file values that name a destination rather
// than a path.
func isLogSentinel(value string) bool {
	return strings.EqualFold(value, "off") || strings.EqualFold(value, "stderr")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
