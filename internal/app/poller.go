package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/sheets"
	"github.com/five82/roster/internal/state"
)

const (
	defaultPollInterval        = 3 * time.Second
	defaultStartDelay          = time.Second
	defaultSampleFallbackAfter = 3
)

// StalePolicy decides what happens to a fetch result that completes after a
// newer one has already been applied.
type StalePolicy int

const (
	// LastCompletedWins applies every result in completion order.
	LastCompletedWins StalePolicy = iota
	// DropStale discards results older than the newest applied one.
	DropStale
)

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the silent polling cadence.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithStartDelay sets the pause between the initial load and the first tick.
func WithStartDelay(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d >= 0 {
			p.startDelay = d
		}
	}
}

// WithSampleFallbackAfter sets how many consecutive cold-start failures are
// tolerated before the bundled sample data is shown.
func WithSampleFallbackAfter(n int) PollerOption {
	return func(p *Poller) {
		if n >= 0 {
			p.sampleAfter = n
		}
	}
}

// WithStalePolicy overrides the default LastCompletedWins behaviour.
func WithStalePolicy(policy StalePolicy) PollerOption {
	return func(p *Poller) {
		p.stale = policy
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = logger.With().Str("component", "poller").Logger()
	}
}

// Poller owns the refresh lifecycle of one dashboard session: the initial
// load, silent polling on a fixed interval, pause and resume on visibility
// changes, and manual refreshes. It is the only writer of its Store.
type Poller struct {
	fetcher     sheets.Fetcher
	store       *state.Store
	interval    time.Duration
	startDelay  time.Duration
	sampleAfter int
	stale       StalePolicy
	logger      zerolog.Logger

	seq atomic.Uint64

	mu              sync.Mutex
	ctx             context.Context
	source          sheets.Source
	started         bool
	disposed        bool
	visible         bool
	stopTimer       chan struct{} // non-nil while the repeating timer runs
	delayTimer      *time.Timer
	lastFingerprint string
	everConnected   bool
	fellBack        bool
	lastApplied     uint64
}

// NewPoller builds a Poller for src. Nothing runs until Start.
func NewPoller(fetcher sheets.Fetcher, store *state.Store, src sheets.Source, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:     fetcher,
		store:       store,
		source:      src,
		interval:    defaultPollInterval,
		startDelay:  defaultStartDelay,
		sampleAfter: defaultSampleFallbackAfter,
		logger:      zerolog.Nop(),
		ctx:         context.Background(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start performs the initial loud load in the background and, StartDelay
// after it completes, begins silent polling. Cancelling ctx disposes the
// poller. Start returns immediately; calling it twice is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.disposed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.visible = true
	p.ctx = ctx
	p.mu.Unlock()

	go func() {
		p.refresh(ctx, false)

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.disposed || !p.visible || p.stopTimer != nil {
			return
		}
		p.delayTimer = time.AfterFunc(p.startDelay, p.startPolling)
	}()

	go func() {
		<-ctx.Done()
		p.Dispose()
	}()
}

// Refresh runs one loud fetch and blocks until it has been applied. It does
// not touch the polling timer.
func (p *Poller) Refresh(ctx context.Context) {
	p.refresh(ctx, false)
}

// SetVisible pauses polling while the dashboard is hidden. Becoming visible
// triggers an immediate silent refresh and restarts the timer. In-flight
// requests are neither cancelled nor discarded.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	if !p.started || p.disposed {
		p.mu.Unlock()
		return
	}
	p.visible = visible
	if !visible {
		p.stopPollingLocked()
		p.mu.Unlock()
		p.logger.Debug().Msg("polling paused")
		return
	}
	p.startPollingLocked()
	ctx := p.ctx
	p.mu.Unlock()

	p.logger.Debug().Msg("polling resumed")
	go p.refresh(ctx, true)
}

// SetSource points the poller at a different sheet. The fingerprint is reset
// so the next successful fetch always publishes.
func (p *Poller) SetSource(src sheets.Source) {
	p.mu.Lock()
	if src == p.source || p.disposed {
		p.mu.Unlock()
		return
	}
	p.source = src
	p.lastFingerprint = ""
	running := p.started
	if running && p.visible {
		p.startPollingLocked()
	}
	ctx := p.ctx
	p.mu.Unlock()

	p.logger.Info().Str("spreadsheet", src.SpreadsheetID).Str("sheet", src.SheetName).Msg("source changed")
	if running {
		go p.refresh(ctx, false)
	}
}

// Source returns the sheet currently being polled.
func (p *Poller) Source() sheets.Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Dispose stops the timer and marks the poller inactive. Fetches still in
// flight run to completion but their results are dropped.
func (p *Poller) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.disposed = true
	p.stopPollingLocked()
}

func (p *Poller) startPolling() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startPollingLocked()
}

// startPollingLocked replaces any running timer; at most one is ever active.
func (p *Poller) startPollingLocked() {
	p.stopPollingLocked()
	if p.disposed || !p.visible {
		return
	}
	if err := p.source.Validate(); err != nil {
		return
	}
	stop := make(chan struct{})
	p.stopTimer = stop
	go p.pollLoop(p.ctx, stop, p.interval)
}

func (p *Poller) stopPollingLocked() {
	if p.delayTimer != nil {
		p.delayTimer.Stop()
		p.delayTimer = nil
	}
	if p.stopTimer != nil {
		close(p.stopTimer)
		p.stopTimer = nil
	}
}

func (p *Poller) pollLoop(ctx context.Context, stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
		}
		select {
		case <-stop:
			return
		default:
		}
		p.refresh(ctx, true)
	}
}

func (p *Poller) active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.disposed
}

func (p *Poller) refresh(ctx context.Context, silent bool) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	src := p.source
	p.mu.Unlock()

	if err := src.Validate(); err != nil {
		p.store.Invalid(err)
		p.logger.Error().Err(err).Msg("cannot poll")
		return
	}

	seq := p.seq.Add(1)
	if !silent {
		p.store.SetLoading(true)
		defer func() {
			if p.active() {
				p.store.SetLoading(false)
			}
		}()
	}

	res := p.fetcher.Fetch(ctx, src)
	p.apply(src, seq, silent, res)
}

func (p *Poller) apply(src sheets.Source, seq uint64, silent bool, res sheets.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := p.logger.With().Uint64("seq", seq).Bool("silent", silent).Logger()
	switch {
	case p.disposed:
		log.Debug().Msg("discarding result after dispose")
		return
	case src != p.source:
		log.Debug().Msg("discarding result for replaced source")
		return
	case p.stale == DropStale && seq < p.lastApplied:
		log.Debug().Uint64("applied", p.lastApplied).Msg("discarding stale result")
		return
	}
	if seq > p.lastApplied {
		p.lastApplied = seq
	}

	if res.OK() {
		p.everConnected = true
		method := string(res.Method)
		fp := roster.Fingerprint(res.Records)
		if fp == p.lastFingerprint {
			p.store.Touch(method, seq)
			return
		}
		p.lastFingerprint = fp
		p.store.Publish(res.Records, method, seq)
		log.Info().Str("method", method).Int("records", len(res.Records)).Msg("roster updated")
		return
	}

	err := res.Err
	if err == nil {
		err = fmt.Errorf("%w: fetch returned no records", sheets.ErrEmptyResult)
	}
	failures := p.store.Fail(err, seq)
	log.Warn().Err(err).Int("failures", failures).Msg("poll failed")

	if failures > p.sampleAfter && !p.everConnected && !p.fellBack {
		p.fellBack = true
		p.store.UseSample(roster.Sample())
		log.Warn().Msg("showing sample data until the sheet is reachable")
	}
}
