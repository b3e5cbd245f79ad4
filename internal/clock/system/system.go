// Package system provides a real clock implementation.
package system

import "time"

// Clock implements ingest.Clock using time.Now. Timestamps are normalized to
// UTC so fetched_at/measured_at rows compare across hosts.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
