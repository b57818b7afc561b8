package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/infra"
)

func TestAVLRotations(t *testing.T) {
	testcases := []struct {
		name string
		keys []int
	}{
		{"ll", []int{3, 2, 1}},
		{"lr", []int{3, 1, 2}},
		{"rr", []int{1, 2, 3}},
		{"rl", []int{1, 3, 2}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTree[int, int](infra.OrderedComparator[int]())
			for _, k := range tc.keys {
				tree.Insert(k, k)
			}
			root := tree.Root()
			require.Equal(tt, 2, root.Key())
			require.Equal(tt, 2, root.Height())
			require.Equal(tt, 1, root.Left().Key())
			require.Equal(tt, 1, root.Left().Height())
			require.Equal(tt, 3, root.Right().Key())
			require.Equal(tt, 1, root.Right().Height())
			require.NoError(tt, BalanceViolationValidate(tree))
		})
	}
}

func TestAVLSequentialInsert(t *testing.T) {
	tree := NewAVLTree[int, int](infra.OrderedComparator[int]())
	for i := 1; i <= 7; i++ {
		tree.Insert(i, i)
		require.NoError(t, BalanceViolationValidate(tree))
	}
	//        4
	//      /   \
	//     2     6
	//    / \   / \
	//   1   3 5   7
	root := tree.Root()
	require.Equal(t, 4, root.Key())
	require.Equal(t, 3, root.Height())
	require.Equal(t, 2, root.Left().Key())
	require.Equal(t, 6, root.Right().Key())
	require.Equal(t, 5, root.Right().Left().Key())
}

func TestAVLRemoveBorrow(t *testing.T) {
	pred := NewAVLTree[int, int](infra.OrderedComparator[int]())
	succ := NewAVLTree[int, int](infra.OrderedComparator[int](), WithTreeRemoveBorrowSucc[int, int]())
	for i := 1; i <= 7; i++ {
		pred.Insert(i, i)
		succ.Insert(i, i)
	}

	require.True(t, pred.Remove(4))
	require.Equal(t, 3, pred.Root().Key())
	require.Equal(t, 2, pred.Root().Left().Key())
	require.Nil(t, pred.Root().Left().Right())
	require.NoError(t, Validate(pred))

	require.True(t, succ.Remove(4))
	require.Equal(t, 5, succ.Root().Key())
	require.Equal(t, 6, succ.Root().Right().Key())
	require.Nil(t, succ.Root().Right().Left())
	require.NoError(t, Validate(succ))
}

func TestAVLRemoveRebalance(t *testing.T) {
	tree := NewAVLTree[int, int](infra.OrderedComparator[int]())
	for _, k := range []int{2, 1, 3, 4} {
		tree.Insert(k, k)
	}
	// Removing 1 leaves 2 right heavy by two, rr rotation.
	require.True(t, tree.Remove(1))
	root := tree.Root()
	require.Equal(t, 3, root.Key())
	require.Equal(t, 2, root.Left().Key())
	require.Equal(t, 4, root.Right().Key())
	require.NoError(t, Validate(tree))
}

func TestAVLRandomHeight(t *testing.T) {
	tree := NewAVLTree[uint64, uint64](infra.OrderedComparator[uint64]())
	total := 1 << 12
	for tree.Len() < int64(total) {
		k := randv2.Uint64()
		tree.Insert(k, k)
	}
	require.NoError(t, Validate(tree))
	_, depth := tree.DepthStats()
	// 1.44 * log2(n) bound.
	require.LessOrEqual(t, depth, 18)
}

func BenchmarkAVLTree_Serial(b *testing.B) {
	tree := NewAVLTree[int, int](infra.OrderedComparator[int]())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i, i)
	}
}
