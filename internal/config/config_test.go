package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPREADSHEET_URL", "SHEET_NAME", "POLL_SECONDS", "BASE_URL",
		"WRITE_URL", "ACCESS_CODE", "LOG_FILE", "LOG_LEVEL",
	} {
		t.Setenv(envPrefix+key, "")
		_ = os.Unsetenv(envPrefix + key)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SpreadsheetURL != defaultSpreadsheetURL {
		t.Fatalf("SpreadsheetURL = %q, want %q", cfg.SpreadsheetURL, defaultSpreadsheetURL)
	}
	if cfg.SheetName != defaultSheetName {
		t.Fatalf("SheetName = %q, want %q", cfg.SheetName, defaultSheetName)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if cfg.WriteURL != "" || cfg.AccessCode != "" {
		t.Fatalf("WriteURL=%q AccessCode=%q, want empty", cfg.WriteURL, cfg.AccessCode)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeConfig(t, `
spreadsheet_url = "  https://docs.google.com/spreadsheets/d/abc123/edit  "
sheet_name = " Team A "
poll_seconds = 10
write_url = " https://script.google.com/macros/s/xyz/exec "
access_code = " 11112222 "
log_file = "  ~/.roster/roster.log  "
log_level = " DEBUG "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SpreadsheetURL != "https://docs.google.com/spreadsheets/d/abc123/edit" {
		t.Fatalf("SpreadsheetURL = %q", cfg.SpreadsheetURL)
	}
	if cfg.SheetName != "Team A" {
		t.Fatalf("SheetName = %q, want %q", cfg.SheetName, "Team A")
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval = %v, want 10s", cfg.PollInterval)
	}
	if cfg.WriteURL != "https://script.google.com/macros/s/xyz/exec" {
		t.Fatalf("WriteURL = %q", cfg.WriteURL)
	}
	if cfg.AccessCode != "11112222" {
		t.Fatalf("AccessCode = %q", cfg.AccessCode)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := writeConfig(t, `
spreadsheet_url = "   "
sheet_name = ""
poll_seconds = -4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SpreadsheetURL != defaultSpreadsheetURL {
		t.Fatalf("SpreadsheetURL = %q, want default", cfg.SpreadsheetURL)
	}
	if cfg.SheetName != defaultSheetName {
		t.Fatalf("SheetName = %q, want default", cfg.SheetName)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
}

func TestLoad_LogFileSentinelsAreNotPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		value string
		want  string
	}{
		{"off", "off"},
		{"stderr", "stderr"},
		{" OFF ", "off"},
		{"Stderr", "stderr"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, "log_file = \""+tt.value+"\"\n")

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.LogFile != tt.want {
				t.Fatalf("LogFile = %q, want %q", cfg.LogFile, tt.want)
			}
		})
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := writeConfig(t, `
sheet_name = "From File"
poll_seconds = 10
`)
	t.Setenv("ROSTER_SHEET_NAME", "From Env")
	t.Setenv("ROSTER_POLL_SECONDS", "7")
	t.Setenv("ROSTER_WRITE_URL", "http://127.0.0.1:9000/exec")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SheetName != "From Env" {
		t.Fatalf("SheetName = %q, want env value", cfg.SheetName)
	}
	if cfg.PollInterval != 7*time.Second {
		t.Fatalf("PollInterval = %v, want 7s", cfg.PollInterval)
	}
	if cfg.WriteURL != "http://127.0.0.1:9000/exec" {
		t.Fatalf("WriteURL = %q, want env value", cfg.WriteURL)
	}
}

func TestLoad_BadEnvironmentFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("ROSTER_POLL_SECONDS", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "parse environment") {
		t.Fatalf("Load error = %v, want parse environment error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `spreadsheet_url = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestPath_DefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Path("")
	if err != nil {
		t.Fatalf("Path returned error: %v", err)
	}
	if got != filepath.Join(home, ".config", "roster", "config.toml") {
		t.Fatalf("Path = %q", got)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	path := writeConfig(t, "sheet_name = \"Before\"\n")

	var (
		mu   sync.Mutex
		seen []Config
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := Watch(ctx, path, zerolog.Nop(), func(cfg Config) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cfg)
	})
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	// A burst of writes collapses into one reload.
	for _, name := range []string{"One", "Two", "After"} {
		if err := os.WriteFile(path, []byte("sheet_name = \""+name+"\"\n"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(seen)
		var last string
		if n > 0 {
			last = seen[n-1].SheetName
		}
		mu.Unlock()
		if last == "After" {
			if n != 1 {
				t.Fatalf("reloads = %d, want 1", n)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("config change not observed")
}

func TestWatch_IgnoresInvalidFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	path := writeConfig(t, "sheet_name = \"Before\"\n")

	called := make(chan Config, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := Watch(ctx, path, zerolog.Nop(), func(cfg Config) { called <- cfg }); err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}

	if err := os.WriteFile(path, []byte("sheet_name = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	select {
	case cfg := <-called:
		t.Fatalf("onChange called with %+v for invalid file", cfg)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatch_MissingDirectoryErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.toml")
	if err := Watch(context.Background(), path, zerolog.Nop(), func(Config) {}); err == nil {
		t.Fatalf("Watch returned nil error for missing directory")
	}
}
