package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/roster"
)

// ConsistencyPolicy decides what happens to a local change whose remote
// write failed.
type ConsistencyPolicy int

const (
	// LocalWins keeps the local change; the next poll may overwrite it.
	LocalWins ConsistencyPolicy = iota
	// RollbackOnFailure reverts the local change.
	RollbackOnFailure
)

// Option configures a Mirror.
type Option func(*Mirror)

// WithPolicy selects the consistency policy. The default is LocalWins.
func WithPolicy(policy ConsistencyPolicy) Option {
	return func(m *Mirror) {
		m.policy = policy
	}
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger.With().Str("component", "mirror").Logger()
	}
}

// WithClock overrides the time source used to mint ids.
func WithClock(now func() time.Time) Option {
	return func(m *Mirror) {
		if now != nil {
			m.now = now
		}
	}
}

// Mirror applies user mutations to the working set and replays them to the
// spreadsheet. The local change always lands first; the remote write is best
// effort and never retried.
type Mirror struct {
	set    *WorkingSet
	gate   *Gate
	sink   Sink
	policy ConsistencyPolicy
	logger zerolog.Logger
	now    func() time.Time

	mu            sync.RWMutex
	spreadsheetID string
}

// New builds a Mirror over set, guarded by gate and writing through sink.
func New(set *WorkingSet, gate *Gate, sink Sink, spreadsheetID string, opts ...Option) *Mirror {
	m := &Mirror{
		set:           set,
		gate:          gate,
		sink:          sink,
		spreadsheetID: spreadsheetID,
		logger:        zerolog.Nop(),
		now:           time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// WorkingSet returns the set this mirror mutates.
func (m *Mirror) WorkingSet() *WorkingSet {
	return m.set
}

// Gate returns the access gate guarding writes.
func (m *Mirror) Gate() *Gate {
	return m.gate
}

// SetSpreadsheetID changes the spreadsheet named in subsequent requests.
func (m *Mirror) SetSpreadsheetID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spreadsheetID = id
}

func (m *Mirror) currentSpreadsheetID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.spreadsheetID
}

// Apply performs action on the working set and then on the spreadsheet. For
// add the id argument is ignored; for delete only id is used. Remote rows are
// located by name, so with duplicate names only the first match changes.
func (m *Mirror) Apply(ctx context.Context, action Action, rec roster.Record, id int64) Result {
	intent := uuid.NewString()
	log := m.logger.With().Str("intent", intent).Str("action", string(action)).Logger()
	res := Result{Action: action, IntentID: intent, Outcome: Failed}

	if !m.gate.Unlocked() {
		res.Err = ErrLocked
		return res
	}
	if !action.Valid() {
		res.Err = fmt.Errorf("%w: unknown action %q", ErrInvalidRecord, action)
		return res
	}

	var undo func()
	switch action {
	case ActionAdd, ActionEdit:
		rec = normalize(rec)
		if rec.Name == "" {
			res.Err = fmt.Errorf("%w: name is required", ErrInvalidRecord)
			return res
		}
		if action == ActionAdd {
			stored := m.set.add(rec, m.now())
			res.Record = stored
			undo = func() { m.set.remove(stored.ID) }
			break
		}
		prev, ok := m.set.replace(id, rec)
		if !ok {
			res.Err = fmt.Errorf("%w: id %d", ErrUnknownRecord, id)
			return res
		}
		rec.ID = id
		res.Record = rec
		undo = func() { m.set.replace(id, prev) }
	case ActionDelete:
		prev, idx, ok := m.set.remove(id)
		if !ok {
			res.Err = fmt.Errorf("%w: id %d", ErrUnknownRecord, id)
			return res
		}
		res.Record = prev
		undo = func() { m.set.insert(idx, prev) }
	}

	log.Debug().Int64("id", res.Record.ID).Str("name", res.Record.Name).Msg("local change applied")

	resp, err := m.sink.Write(ctx, Request{
		Action:        action,
		Data:          res.Record.WriteData(),
		SpreadsheetID: m.currentSpreadsheetID(),
	})
	if err == nil && !resp.Success {
		err = rejection(resp)
	}
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrWriteFailure, err)
		res.Outcome = PartialSuccess
		if m.policy == RollbackOnFailure {
			undo()
			res.Outcome = Failed
		}
		log.Warn().Err(err).Str("outcome", res.Outcome.String()).Msg("remote write failed")
		return res
	}

	res.Outcome = Success
	res.Message = resp.Message
	log.Info().Msg("remote write confirmed")
	return res
}

func normalize(rec roster.Record) roster.Record {
	data := rec.WriteData()
	rec.Name = data.Name
	rec.Department = data.Department
	return rec
}

func rejection(resp Response) error {
	for _, msg := range []string{resp.Error, resp.Message} {
		if msg = strings.TrimSpace(msg); msg != "" {
			return errors.New(msg)
		}
	}
	return errors.New("endpoint reported failure")
}
