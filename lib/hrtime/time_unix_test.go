//go:build !windows
// +build !windows

package hrtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnixMonotonicClockResolution(t *testing.T) {
	require.LessOrEqual(t, Resolution().Nanoseconds(), int64(1000))
	t.Logf("monotonic clock resolution %s", Resolution())
	require.Equal(t, UnixMonotonicClock, DefaultClock())
}
