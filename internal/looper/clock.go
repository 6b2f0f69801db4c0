package looper

import "time"

// Clock supplies monotonic timestamps, expressed as the time elapsed since an
// arbitrary fixed epoch.
type Clock interface {
	Now() time.Duration
}

type monotonicClock struct {
	epoch time.Time
}

// NewClock returns a Clock backed by the runtime's monotonic clock, so wall
// clock adjustments never show up as recorded delays.
func NewClock() Clock {
	return monotonicClock{epoch: time.Now()}
}

func (c monotonicClock) Now() time.Duration {
	return time.Since(c.epoch)
}
