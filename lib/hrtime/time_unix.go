//go:build !windows
// +build !windows

package hrtime

import (
	"time"

	"github.com/samber/lo"
	"golang.org/x/sys/unix"
)

var UnixMonotonicClock Clock = unixMonotonicClock{}

// unixMonotonicClock reads CLOCK_MONOTONIC directly, the reading is not
// affected by the wall clock adjustments.
type unixMonotonicClock struct{}

func (unixMonotonicClock) Nanotime() int64 {
	ts := unix.Timespec{}
	lo.Must0(unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts))
	return ts.Nano()
}

func (c unixMonotonicClock) Since(begin int64) time.Duration {
	return time.Duration(c.Nanotime() - begin)
}

// Resolution of CLOCK_MONOTONIC.
func Resolution() time.Duration {
	res := unix.Timespec{}
	if err := unix.ClockGetres(unix.CLOCK_MONOTONIC, &res); err != nil {
		return time.Microsecond
	}
	return time.Duration(res.Nano())
}

func DefaultClock() Clock {
	return UnixMonotonicClock
}
