// Package state holds the roster data and connection status published by the
// poller.
//
// # Overview
//
// The poller is the only writer; the UI and the working-set reconciler read.
// Store mediates between them with a readers-writer lock and hands out
// Snapshots that share no memory with the store.
//
//	Poller goroutines                   Readers
//	┌──────────────────┐               ┌──────────────────┐
//	│ Fetch            │               │ <-store.Changes()│
//	│   ↓              │               │   ↓              │
//	│ Publish / Touch  │──── mutex ───→│ store.Snapshot() │
//	│ Fail / UseSample │               │   ↓              │
//	└──────────────────┘               │ render / reconcile│
//	                                   └──────────────────┘
//
// # Update Semantics
//
//   - Publish: new data. Records replaced, Generation incremented, connected.
//   - Touch: fetch succeeded but the fingerprint matched. Only the connection
//     fields move; Records and Generation stay put so observers see no data
//     change.
//   - Fail: records kept, disconnected, ConsecutiveFailures incremented.
//   - UseSample: bundled data swapped in after repeated cold-start failures.
//   - Invalid: terminal configuration error; not counted as a failure.
//
// A new Store starts disconnected and shows the seed records (normally
// roster.Sample) until the first fetch succeeds.
//
// # Notification
//
// Changes returns a channel with a one-slot buffer. Every mutation performs a
// non-blocking send, so bursts collapse into a single wake-up and a slow
// reader never stalls the poller.
package state
