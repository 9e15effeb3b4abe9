// Package app is the composition root of the roster dashboard.
//
// # Overview
//
// Run loads configuration, opens the log, and builds one session:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        File + ROSTER_* environment
//	       ├─────> logging.New()        zerolog to the log file
//	       ├─────> sheets.NewClient()   Read path (three retrieval methods)
//	       ├─────> state.NewStore()     Seeded with the sample roster
//	       ├─────> NewPoller()          Initial load, then silent polling
//	       ├─────> mirror.New()         Working set, gate, write sink
//	       ├─────> reconcile()          Store generations -> working set
//	       ├─────> config.Watch()       Sheet changes without a restart
//	       └─────> ui.Run()             Blocks until quit
//
// # Polling
//
// Poller is the single writer of the store. Start performs a loud initial
// load (the header shows Syncing), waits StartDelay, and then polls silently
// every interval. Each result is fingerprinted; an unchanged roster only
// refreshes the connection status, so the UI and working set see no data
// change. Focus loss pauses the timer and focus gain triggers an immediate
// silent refresh.
//
// Failures keep the last good roster. After more than three consecutive
// failures with no success this session, the bundled sample roster is shown
// once. An invalid spreadsheet reference is reported and never retried until
// the source changes.
//
// Every fetch carries a sequence number. By default results are applied in
// completion order (LastCompletedWins); WithStalePolicy(DropStale) discards
// results older than one already applied.
//
// # Writes
//
// The working set in internal/mirror is what the user edits. reconcile
// replaces it whenever the store publishes a new generation, which discards
// local edits that never reached the sheet.
package app
