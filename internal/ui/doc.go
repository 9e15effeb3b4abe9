// Package ui provides the terminal dashboard for the roster application.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds all view state and never blocks
// in Update: sheet refreshes and writes run as tea.Cmds and report back with
// messages.
//
// Data arrives two ways:
//
//   - A tick every DefaultUIInterval reads the state.Store snapshot and the
//     editable working set. The poller publishes into the store on its own
//     schedule, so the dashboard only ever renders what was last published.
//   - Write results (applyResultMsg) re-read the working set immediately so
//     the change shows up before the next tick.
//
// # Views
//
//   - Chart: one horizontal bar per metric for each employee, scaled to the
//     largest value on screen.
//   - Table: bubbles/table listing of the same records.
//
// The chosen view and theme persist through internal/prefs.
//
// # Editing
//
// Add, edit and delete open a Modal. The first write of a session goes
// through the access code prompt; once the mirror.Gate is unlocked it stays
// unlocked. Outcomes surface as toasts: a write that reached the sheet is a
// success, one that only changed the local copy is a warning.
//
// # Visibility
//
// Terminal focus events (tea.WithReportFocus) pause and resume polling via
// Poller.SetVisible.
package ui
