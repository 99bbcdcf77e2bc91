package timeutil

import (
	"sync"
	"time"
)

// MockClock is a Time for tests. It stays put until Advance is called, or moves by a
// fixed step on every read when built with NewSteppingClock, which makes the latency
// measured between two reads predictable.
type MockClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

var _ Time = &MockClock{}

func NewMockClockAt(now time.Time) *MockClock {
	return &MockClock{now: now}
}

// NewSteppingClock returns a clock which starts at now and adds step after each read.
func NewSteppingClock(now time.Time, step time.Duration) *MockClock {
	return &MockClock{now: now, step: step}
}

func (mc *MockClock) Advance(d time.Duration) {
	mc.mu.Lock()
	mc.now = mc.now.Add(d)
	mc.mu.Unlock()
}

func (mc *MockClock) Now() time.Time {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now
	mc.now = mc.now.Add(mc.step)
	return now
}
