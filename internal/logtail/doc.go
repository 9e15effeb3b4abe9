// Package logtail reads the end of roster's own log file for the activity
// view.
//
// # Reading
//
// Read uses a ring buffer to return the last N lines of a file in one
// sequential pass, using memory proportional to N rather than the file size.
// A missing file yields no lines and no error, since nothing has been logged
// yet.
//
// # Decoding
//
// The log is zerolog JSON. Parse splits a line into the envelope fields the
// UI shows in columns (time, level, component, message, error) and the
// remaining key/value pairs, sorted by key. Lines that are not JSON, such as
// a panic trace, come back as a plain message.
package logtail
