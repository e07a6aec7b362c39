// Package clock provides the matching engine's only source of wall-clock
// time, so tests can substitute a deterministic clock instead of the
// system one.
package clock

import "time"

// Clock is the external time source the core consumes for order arrival
// and trade timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock delegates to time.Now.
type SystemClock struct{}

// NewSystemClock returns a Clock backed by the OS wall clock.
func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now() }
