package domain

import "time"

// Clock abstracts the time source so timestamp-dependent behavior
// (eviction ordering, play-count bumps) is deterministic in tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation used in production
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
