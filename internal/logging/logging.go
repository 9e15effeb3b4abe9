// Package logging builds the JSON logger shared by roster's components.
//
// The dashboard owns the terminal, so logs go to a file rather than stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects where logs go and how verbose they are.
type Config struct {
	Level string // zerolog level name; empty means info
	File  string // log file path; "stderr" writes to stderr, "off" discards
}

// New returns a logger and a closer for its output. Callers must Close when
// done.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if name := strings.TrimSpace(cfg.Level); name != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	out, closer, err := openOutput(strings.TrimSpace(cfg.File))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "roster").
		Logger()
	return logger, closer, nil
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	switch path {
	case "", "off":
		return io.Discard, nopCloser{}, nil
	case "stderr":
		return os.Stderr, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return file, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
