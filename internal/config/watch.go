package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the config file whenever it is written and hands each
// successfully parsed result to onChange. The parent directory is watched so
// editors that replace the file on save are picked up. Watch returns once the
// watcher is installed; it stops when ctx is cancelled.
func Watch(ctx context.Context, path string, logger zerolog.Logger, onChange func(Config)) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(resolved)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(resolved), err)
	}

	logger = logger.With().Str("component", "config").Str("path", resolved).Logger()
	go watchLoop(ctx, watcher, resolved, logger, onChange)
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, logger zerolog.Logger, onChange func(Config)) {
	defer func() { _ = watcher.Close() }()

	name := filepath.Base(path)
	var timer *time.Timer
	reload := func() {
		if ctx.Err() != nil {
			return
		}
		cfg, err := Load(path)
		if err != nil {
			logger.Warn().Err(err).Msg("config reload failed; keeping previous settings")
			return
		}
		logger.Info().Msg("config reloaded")
		onChange(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Debug().Err(err).Msg("watcher error")
		}
	}
}
