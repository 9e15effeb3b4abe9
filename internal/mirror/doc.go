// Package mirror stages roster edits locally and replays them to the
// spreadsheet.
//
// The dashboard edits a WorkingSet, not the published state. Every Apply
// changes the WorkingSet first so the user sees the result immediately, then
// sends the same payload to a Sink: an Apps Script web app (HTTPSink) or, when
// none is configured, a SimulatedSink. A failed remote write leaves the local
// change in place (PartialSuccess) unless RollbackOnFailure is selected. The
// next poll that publishes data overwrites the WorkingSet wholesale.
//
// Writes are refused with ErrLocked until the session's Gate is unlocked.
//
// AppsScript renders the server side of the protocol: doPost handles add,
// edit and delete by exact name match, doGet is a health check.
package mirror
