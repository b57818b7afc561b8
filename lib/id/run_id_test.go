package id

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRunIDGen(t *testing.T) {
	_, err := NewRunIDGen(3, nil)
	require.Error(t, err)
	_, err = NewRunIDGen(65, nil)
	require.Error(t, err)

	ts := time.Unix(1_700_000_000, 0)
	gen, err := NewRunIDGen(8, func() time.Time { return ts })
	require.NoError(t, err)

	seen := make(map[string]struct{}, 1024)
	for i := 0; i < 1024; i++ {
		runID := gen()
		prefix, random, ok := strings.Cut(runID, "-")
		require.True(t, ok)
		require.Equal(t, "s44we8", prefix)
		require.Len(t, random, 8)
		for _, r := range random {
			require.True(t, strings.ContainsRune(runIDAlphabet, r))
		}
		seen[runID] = struct{}{}
	}
	require.Greater(t, len(seen), 1000)
}
