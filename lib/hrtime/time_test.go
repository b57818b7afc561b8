package hrtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now int64
}

func (c *fakeClock) Nanotime() int64 {
	return c.now
}

func (c *fakeClock) Since(begin int64) time.Duration {
	return time.Duration(c.now - begin)
}

func TestStopwatch(t *testing.T) {
	clock := &fakeClock{}
	sw := NewStopwatch(clock)
	require.Equal(t, time.Duration(0), sw.Average())
	require.Equal(t, time.Duration(0), sw.Lap())

	for _, d := range []time.Duration{time.Microsecond, 3 * time.Microsecond, 1500 * time.Nanosecond} {
		sw.Start()
		clock.now += int64(d)
		require.Equal(t, d, sw.Lap())
	}
	// Stopped already.
	require.Equal(t, time.Duration(0), sw.Lap())

	require.Len(t, sw.Laps(), 3)
	require.Equal(t, 5500*time.Nanosecond, sw.Total())
	require.Equal(t, 1833*time.Nanosecond, sw.Average())
	require.InDelta(t, 1.833, sw.Microseconds(), 1e-9)

	sw.Reset()
	require.Empty(t, sw.Laps())
	require.Equal(t, float64(0), sw.Microseconds())
}

func TestClocksAreMonotonic(t *testing.T) {
	for name, clock := range map[string]Clock{
		"go":      GoMonotonicClock,
		"default": DefaultClock(),
	} {
		t.Run(name, func(tt *testing.T) {
			begin := clock.Nanotime()
			time.Sleep(2 * time.Millisecond)
			require.GreaterOrEqual(tt, clock.Since(begin), 2*time.Millisecond)
			require.GreaterOrEqual(tt, clock.Nanotime(), begin)
		})
	}
	require.Greater(t, Resolution(), time.Duration(0))
}

func TestStopwatchDefaultClock(t *testing.T) {
	sw := NewStopwatch(nil)
	sw.Start()
	time.Sleep(time.Millisecond)
	require.GreaterOrEqual(t, sw.Lap(), time.Millisecond)
}
