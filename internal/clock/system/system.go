// Package system provides the wall clock used to stamp crawls and the
// fixed clock used when a deterministic time is required.
package system

import "time"

// Clock implements crawler.Clock using time.Now, truncated to the
// millisecond precision of the ISO-8601 timestamps the API emits.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Fixed is a crawler.Clock that always reports the same instant.
type Fixed struct {
	At time.Time
}

// Now returns At.
func (f Fixed) Now() time.Time {
	return f.At
}
