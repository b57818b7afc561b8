package bench

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/xlog"
)

func TestResultStore(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(xlog.WithXLoggerWriter(buf))
	store, err := OpenResultStore(":memory:", logger)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "run-1", testSeries()...))
	require.NoError(t, store.Save(ctx, "run-2", testSeries()[1]))
	require.NoError(t, store.Save(ctx, "run-3"))

	rows, err := store.Query(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "avl", rows[0].Kind)
	require.Equal(t, "search", rows[0].Op)
	require.Equal(t, "rbtree", rows[1].Kind)
	require.Equal(t, 1024, rows[1].Elements)
	require.Equal(t, 2048, rows[2].Elements)
	require.InDelta(t, 250.5, rows[2].AvgMicros, 1e-9)
	require.Equal(t, 10, rows[2].Repeat)

	rows, err = store.Query(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, rows)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"run-1", "run-2"}, runs)
}

func TestResultStore_File(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "results.db")
	store, err := OpenResultStore(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "run-1", testSeries()...))
	require.NoError(t, store.Close())

	store, err = OpenResultStore(dsn, nil)
	require.NoError(t, err)
	rows, err := store.Query(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.NoError(t, store.Close())
}
