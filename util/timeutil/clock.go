package timeutil

import (
	"time"
)

// Time is the clock the auction pipeline reads. Production code uses RealTime,
// tests use MockClock.
type Time interface {
	// Now returns the current time.
	Now() time.Time
}

// RealTime reads the wall clock.
type RealTime struct{}

func (RealTime) Now() time.Time {
	return time.Now()
}
