package timer

import "time"

// Clock is the time source sampled once per frame.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the monotonic wall clock.
var SystemClock Clock = systemClock{}

// Millis converts t to milliseconds since origin, the timestamp Advance expects.
func Millis(origin, t time.Time) int64 {
	return t.Sub(origin).Milliseconds()
}
