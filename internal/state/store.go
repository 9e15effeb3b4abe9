package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/roster/internal/roster"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Records []roster.Record
	// Generation increases every time Records is replaced. Observers compare
	// it to tell a real data change from a liveness-only update.
	Generation          uint64
	Connected           bool
	Method              string
	Loading             bool
	UsingSample         bool
	LastUpdated         time.Time // when Records last changed from a fetch
	LastSuccess         time.Time // when a fetch last succeeded
	LastError           error
	ConsecutiveFailures int
	Seq                 uint64 // sequence number of the fetch last applied
}

// IsUsingFallback reports whether the bundled sample data is on display.
func (s Snapshot) IsUsingFallback() bool {
	return s.UsingSample
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	changes  chan struct{}
}

// NewStore returns a disconnected store seeded with the given records.
func NewStore(seed []roster.Record) *Store {
	return &Store{
		snapshot: Snapshot{
			Records:     roster.Clone(seed),
			UsingSample: true,
		},
		changes: make(chan struct{}, 1),
	}
}

// Changes delivers a coalesced signal after every mutation. Receivers should
// call Snapshot to read the new state.
func (s *Store) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureChanges()
	return s.changes
}

// Publish replaces the record set with freshly fetched data.
func (s *Store) Publish(records []roster.Record, method string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.Records = roster.Clone(records)
	s.snapshot.Generation++
	s.snapshot.UsingSample = false
	s.snapshot.LastUpdated = now
	s.markConnected(method, seq, now)
	s.notify()
}

// Touch records a successful fetch whose data matched what is already
// published. Records and Generation are left alone.
func (s *Store) Touch(method string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markConnected(method, seq, time.Now())
	s.notify()
}

// Fail records a failed fetch, keeping the previous data, and returns the new
// consecutive failure count.
func (s *Store) Fail(err error, seq uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Connected = false
	s.snapshot.Method = ""
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
	s.snapshot.Seq = seq
	s.notify()
	return s.snapshot.ConsecutiveFailures
}

// Invalid records a terminal configuration error without counting it as a
// failed poll.
func (s *Store) Invalid(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Connected = false
	s.snapshot.Method = ""
	s.snapshot.LastError = err
	s.snapshot.Loading = false
	s.notify()
}

// UseSample swaps in the bundled fallback data.
func (s *Store) UseSample(records []roster.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Records = roster.Clone(records)
	s.snapshot.Generation++
	s.snapshot.UsingSample = true
	s.notify()
}

// SetLoading toggles the user-visible loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Loading == loading {
		return
	}
	s.snapshot.Loading = loading
	s.notify()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = roster.Clone(s.snapshot.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) markConnected(method string, seq uint64, now time.Time) {
	s.snapshot.Connected = true
	s.snapshot.Method = method
	s.snapshot.LastError = nil
	s.snapshot.LastSuccess = now
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Seq = seq
}

// notify must be called with mu held.
func (s *Store) notify() {
	s.ensureChanges()
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (s *Store) ensureChanges() {
	if s.changes == nil {
		s.changes = make(chan struct{}, 1)
	}
}
