//go:build windows
// +build windows

package hrtime

import "time"

// Resolution of the runtime monotonic clock on Windows.
func Resolution() time.Duration {
	return 100 * time.Nanosecond
}

func DefaultClock() Clock {
	return GoMonotonicClock
}
