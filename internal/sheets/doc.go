// Package sheets reads roster data from a published Google spreadsheet.
//
// # Overview
//
// Public sheets can be read without credentials through several export
// endpoints, none of which is reliable on its own. The Client tries three of
// them in a fixed order and returns the first that yields at least one record:
//
//  1. CSV export (/export?format=csv&gid=0), parsed with quote awareness
//  2. Visualization API (/gviz/tq?tqx=out:json), a JSON table wrapped in a
//     JavaScript callback envelope
//  3. Alternative CSV export (/export?format=csv&id=...), split naively on
//     commas as a last resort
//
// Each strategy produces a raw cell grid which roster.ParseGrid turns into
// records.
//
// # Usage
//
//	client, err := sheets.NewClient("", logger)
//	if err != nil {
//		return err
//	}
//	src, err := sheets.NewSource(cfg.SpreadsheetURL, cfg.SheetName)
//	if err != nil {
//		return err // ErrInvalidSource
//	}
//	res := client.Fetch(ctx, src)
//	if !res.OK() {
//		log.Printf("fetch failed: %v", res.Err)
//	}
//
// # Error Handling
//
// Fetch never returns a Go error directly; the outcome is folded into
// Result.Err and classified with errors.Is:
//
//   - ErrInvalidSource: the spreadsheet id is missing or malformed
//   - ErrFetchFailure: transport errors, HTTP >= 400, "does not exist" or
//     "need permission" pages, undecodable payloads
//   - ErrEmptyResult: every strategy parsed but no row had a name
//
// A single Fetch performs no retries; the poller decides when to try again.
package sheets
