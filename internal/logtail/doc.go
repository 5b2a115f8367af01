// Package logtail reads the tail of postboard's structured log file.
//
// The log is written by zerolog as one JSON object per line. Read keeps only
// the last N lines in a ring buffer, so memory stays bounded regardless of
// file size, then decodes each line into an Entry:
//
//	{"level":"warn","component":"controller","time":"2026-01-02T15:04:05Z","message":"fetch failed"}
//
// becomes Entry{Level: zerolog.WarnLevel, Message: "fetch failed",
// Fields: {"component": "controller"}}. Lines that are not JSON objects are
// kept verbatim in Entry.Raw so nothing written to the file is hidden.
//
// A missing log file is not an error; Read returns no entries.
package logtail
