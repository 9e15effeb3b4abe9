package mirror

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/roster/internal/roster"
)

// WorkingSet is the locally editable copy of the roster. It is seeded from
// and periodically overwritten by the published set, and mutated by Apply in
// between.
type WorkingSet struct {
	mu      sync.RWMutex
	records []roster.Record
	changes chan struct{}
}

// NewWorkingSet returns a working set holding a copy of seed.
func NewWorkingSet(seed []roster.Record) *WorkingSet {
	return &WorkingSet{
		records: roster.Clone(seed),
		changes: make(chan struct{}, 1),
	}
}

// Records returns a copy of the current records.
func (w *WorkingSet) Records() []roster.Record {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return roster.Clone(w.records)
}

// Len reports the number of records.
func (w *WorkingSet) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.records)
}

// Changes delivers a coalesced signal after every mutation.
func (w *WorkingSet) Changes() <-chan struct{} {
	return w.changes
}

// Reconcile overwrites the working set with a freshly published set. An
// empty set is ignored so a transient blank read never wipes local data.
// Local edits not yet visible remotely are lost; that is accepted.
func (w *WorkingSet) Reconcile(records []roster.Record) bool {
	if len(records) == 0 {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = roster.Clone(records)
	w.notify()
	return true
}

// add appends rec under a fresh id minted from now in milliseconds.
func (w *WorkingSet) add(rec roster.Record, now time.Time) roster.Record {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := now.UnixMilli()
	for roster.IndexOf(w.records, id) >= 0 {
		id++
	}
	rec.ID = id
	w.records = append(w.records, rec)
	w.notify()
	return rec
}

// replace swaps the record with the given id and returns the previous value.
func (w *WorkingSet) replace(id int64, rec roster.Record) (roster.Record, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := roster.IndexOf(w.records, id)
	if idx < 0 {
		return roster.Record{}, false
	}
	prev := w.records[idx]
	rec.ID = id
	w.records[idx] = rec
	w.notify()
	return prev, true
}

// remove deletes the record with the given id, returning it and its position.
func (w *WorkingSet) remove(id int64) (roster.Record, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := roster.IndexOf(w.records, id)
	if idx < 0 {
		return roster.Record{}, -1, false
	}
	prev := w.records[idx]
	w.records = slices.Delete(w.records, idx, idx+1)
	w.notify()
	return prev, idx, true
}

// insert puts rec back at idx, clamped to the current length.
func (w *WorkingSet) insert(idx int, rec roster.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx = min(max(idx, 0), len(w.records))
	w.records = slices.Insert(w.records, idx, rec)
	w.notify()
}

// notify must be called with mu held.
func (w *WorkingSet) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
