package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/mirror"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/sheets"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/ui"
)

// Options configure the roster application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roster/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the roster dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	sess, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sess.reconcile(ctx)

	if path, err := config.Path(opts.ConfigPath); err == nil {
		go func() {
			if err := config.Watch(ctx, path, logger, sess.applyConfig); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("config reload disabled")
			}
		}()
	}

	sess.poller.Start(ctx)
	logger.Info().
		Str("spreadsheet", sess.poller.Source().SpreadsheetID).
		Dur("interval", cfg.PollInterval).
		Bool("simulated_writes", sess.simulated).
		Msg("roster started")

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     sess.store,
		Poller:    sess.poller,
		Writer:    sess.writer,
		Simulated: sess.simulated,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		LogFile:   cfg.LogFile,
		Logger:    logger,
	})
}

// session is everything one dashboard run shares between the poller, the
// write path and the UI.
type session struct {
	store     *state.Store
	poller    *Poller
	writer    *mirror.Mirror
	simulated bool
	logger    zerolog.Logger
}

func newSession(cfg config.Config, logger zerolog.Logger) (*session, error) {
	client, err := sheets.NewClient(cfg.BaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	// An unusable sheet reference is not fatal: the poller reports it as an
	// invalid source and a config reload can fix it.
	src, err := sheets.NewSource(cfg.SpreadsheetURL, cfg.SheetName)
	if err != nil {
		logger.Error().Err(err).Str("spreadsheet_url", cfg.SpreadsheetURL).Msg("invalid spreadsheet reference")
	}

	var sink mirror.Sink
	simulated := cfg.WriteURL == ""
	if simulated {
		sink = mirror.NewSimulatedSink()
	} else {
		httpSink, err := mirror.NewHTTPSink(cfg.WriteURL)
		if err != nil {
			return nil, fmt.Errorf("init write endpoint: %w", err)
		}
		sink = httpSink
	}

	store := state.NewStore(roster.Sample())
	return &session{
		store:  store,
		poller: NewPoller(client, store, src, WithInterval(cfg.PollInterval), WithLogger(logger)),
		writer: mirror.New(
			mirror.NewWorkingSet(roster.Sample()),
			mirror.NewGate(cfg.AccessCode),
			sink,
			src.SpreadsheetID,
			mirror.WithLogger(logger),
		),
		simulated: simulated,
		logger:    logger,
	}, nil
}

// reconcile copies every newly published roster into the editable working
// set. Liveness-only updates leave local edits alone.
func (s *session) reconcile(ctx context.Context) {
	var seen uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.store.Changes():
		}
		snap := s.store.Snapshot()
		if snap.Generation == seen {
			continue
		}
		seen = snap.Generation
		if s.writer.WorkingSet().Reconcile(snap.Records) {
			s.logger.Debug().Uint64("generation", seen).Int("records", len(snap.Records)).Msg("working set reconciled")
		}
	}
}

// applyConfig points the session at the sheet named by a reloaded config.
// Interval, endpoint and logging changes take effect on the next start.
func (s *session) applyConfig(cfg config.Config) {
	src, err := sheets.NewSource(cfg.SpreadsheetURL, cfg.SheetName)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reloaded config has an invalid spreadsheet reference")
	}
	s.poller.SetSource(src)
	s.writer.SetSpreadsheetID(src.SpreadsheetID)
}
