// Package config loads roster's settings.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. ~/.config/roster/config.toml, or the path given with -config
//  3. ROSTER_* environment variables
//
// A missing file is not an error. Blank values fall back to defaults, strings
// are trimmed and a leading ~ in log_file is expanded.
//
// # Keys
//
//	spreadsheet_url = "https://docs.google.com/spreadsheets/d/<id>/edit"
//	sheet_name      = "Sheet1"
//	poll_seconds    = 3
//	base_url        = ""          # sheets host override, for testing
//	write_url       = ""          # Apps Script web app; blank simulates writes
//	access_code     = "20237859"
//	log_file        = "~/.local/share/roster/roster.log"
//	log_level       = "info"
//
// Each key has an environment counterpart: ROSTER_ followed by the key in
// upper case, e.g. ROSTER_WRITE_URL.
//
// # Hot Reload
//
// Watch observes the file's directory with fsnotify and reloads after writes
// settle for 200ms. Files that fail to parse are skipped and the previous
// settings stay in effect.
package config
