// Package timex owns the canonical timestamp representation used by both
// storage backends. Timestamps are stored as plain strings so that the two
// engines sort them identically.
package timex

import "time"

// Layout is the storage timestamp format. Lexicographic comparison of two
// values in this layout equals chronological comparison, which the draft
// listing order relies on.
const Layout = "2006-01-02 15:04:05"

// Now returns the current local time in the storage layout.
func Now() string {
	return time.Now().Format(Layout)
}

// Parse converts a storage timestamp back into a time.Time.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}
