package hrtime

import "time"

// Clock reads a monotonic nanosecond counter. Only the difference of two
// readings is meaningful.
type Clock interface {
	Nanotime() int64
	Since(begin int64) time.Duration
}
