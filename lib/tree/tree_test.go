package tree

import (
	randv2 "math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/infra"
)

type treeCtor func(opts ...TreeOpt[uint64, uint64]) Tree[uint64, uint64]

func allTrees() map[Kind]treeCtor {
	cmp := infra.OrderedComparator[uint64]()
	return map[Kind]treeCtor{
		KindBST: func(opts ...TreeOpt[uint64, uint64]) Tree[uint64, uint64] {
			return NewBST[uint64, uint64](cmp, opts...)
		},
		KindAVL: func(opts ...TreeOpt[uint64, uint64]) Tree[uint64, uint64] {
			return NewAVLTree[uint64, uint64](cmp, opts...)
		},
		KindRB: func(opts ...TreeOpt[uint64, uint64]) Tree[uint64, uint64] {
			return NewRBTree[uint64, uint64](cmp, opts...)
		},
		KindSplay: func(opts ...TreeOpt[uint64, uint64]) Tree[uint64, uint64] {
			return NewSplayTree[uint64, uint64](cmp, opts...)
		},
	}
}

func inorderKeys[K any, V any](tree Tree[K, V]) []K {
	keys := make([]K, 0, tree.Len())
	walkInorder[K, V](tree.Root(), func(n Node[K, V]) bool {
		keys = append(keys, n.Key())
		return true
	})
	return keys
}

func TestNilComparator(t *testing.T) {
	require.PanicsWithValue(t, ErrNilComparator, func() {
		NewBST[int, int](nil)
	})
	require.PanicsWithValue(t, ErrNilComparator, func() {
		NewSet[int](nil)
	})
}

func TestTreeKind(t *testing.T) {
	for kind, ctor := range allTrees() {
		require.Equal(t, kind, ctor().Kind())
	}
	require.Equal(t, "rbtree", KindRB.String())
	require.Equal(t, "unknown", Kind(100).String())
}

func TestTreeInsertAndOverwrite(t *testing.T) {
	for kind, ctor := range allTrees() {
		t.Run(kind.String(), func(tt *testing.T) {
			tree := ctor()
			require.True(tt, tree.Insert(5, 50))
			require.True(tt, tree.Insert(3, 30))
			require.True(tt, tree.Insert(8, 80))
			require.Equal(tt, int64(3), tree.Len())

			require.False(tt, tree.Insert(3, 33))
			require.Equal(tt, int64(3), tree.Len())
			item, ok := tree.Search(3)
			require.True(tt, ok)
			require.Equal(tt, uint64(33), item)

			_, ok = tree.Search(4)
			require.False(tt, ok)
			require.True(tt, tree.Contains(8))
			require.False(tt, tree.Contains(6))
			require.NoError(tt, Validate(tree))
		})
	}
}

func TestTreeAddAndAppend(t *testing.T) {
	tree := NewRBTree[int, int](infra.OrderedComparator[int]())
	require.True(t, Add(tree, 2))
	require.True(t, Append(tree, 1))
	require.False(t, Add(tree, 1))
	require.Equal(t, []int{1, 2}, inorderKeys(tree))
}

func TestTreeRemoveAndPop(t *testing.T) {
	for kind, ctor := range allTrees() {
		t.Run(kind.String(), func(tt *testing.T) {
			tree := ctor()
			for _, k := range []uint64{5, 3, 8, 1, 4, 7, 9} {
				tree.Insert(k, k*10)
			}
			item, ok := tree.Pop(3)
			require.True(tt, ok)
			require.Equal(tt, uint64(30), item)
			require.False(tt, tree.Contains(3))
			require.NoError(tt, Validate(tree))

			require.False(tt, tree.Remove(3))
			_, ok = tree.Pop(100)
			require.False(tt, ok)
			require.Equal(tt, int64(6), tree.Len())

			require.True(tt, tree.Remove(5))
			require.True(tt, tree.Remove(1))
			require.NoError(tt, Validate(tree))
			require.Equal(tt, []uint64{4, 7, 8, 9}, inorderKeys(tree))

			for _, k := range []uint64{4, 7, 8, 9} {
				require.True(tt, tree.Remove(k))
				require.NoError(tt, Validate(tree))
			}
			require.Nil(tt, tree.Root())
			require.Equal(tt, int64(0), tree.Len())
		})
	}
}

func TestBSTRemoveByRotation(t *testing.T) {
	tree := NewBST[int, int](infra.OrderedComparator[int]())
	tree.Insert(5, 5)
	tree.Insert(3, 3)
	tree.Insert(8, 8)

	// 5 is rotated left under 8 and then has the single child 3.
	require.True(t, tree.Remove(5))
	require.Equal(t, 8, tree.Root().Key())
	require.Equal(t, 3, tree.Root().Left().Key())
	require.Nil(t, tree.Root().Right())
	require.NoError(t, Validate(tree))
}

func TestTreeMinMax(t *testing.T) {
	for kind, ctor := range allTrees() {
		t.Run(kind.String(), func(tt *testing.T) {
			tree := ctor()
			_, _, ok := tree.Min()
			require.False(tt, ok)
			_, _, ok = tree.Max()
			require.False(tt, ok)

			for _, k := range []uint64{5, 3, 8, 1, 4, 7, 9} {
				tree.Insert(k, k+100)
			}
			k, v, ok := tree.Min()
			require.True(tt, ok)
			require.Equal(tt, uint64(1), k)
			require.Equal(tt, uint64(101), v)
			k, v, ok = tree.Max()
			require.True(tt, ok)
			require.Equal(tt, uint64(9), k)
			require.Equal(tt, uint64(109), v)
		})
	}
}

func TestTreeDesc(t *testing.T) {
	for kind, ctor := range allTrees() {
		t.Run(kind.String(), func(tt *testing.T) {
			tree := ctor(WithTreeDesc[uint64, uint64]())
			for _, k := range []uint64{5, 3, 8, 1, 4, 7, 9} {
				tree.Insert(k, k)
			}
			require.Equal(tt, []uint64{9, 8, 7, 5, 4, 3, 1}, inorderKeys(tree))
			item, err := tree.At(0)
			require.NoError(tt, err)
			require.Equal(tt, uint64(9), item)
			require.NoError(tt, Validate(tree))
		})
	}
}

func TestTreeClearAndRelease(t *testing.T) {
	for kind, ctor := range allTrees() {
		t.Run(kind.String(), func(tt *testing.T) {
			tree := ctor()
			for k := uint64(0); k < 16; k++ {
				tree.Insert(k, k)
			}
			tree.Clear()
			require.Equal(tt, int64(0), tree.Len())
			require.Nil(tt, tree.Root())
			require.True(tt, tree.IsSorted())
			require.False(tt, tree.Contains(3))
			require.NoError(tt, Validate(tree))

			for _, k := range []uint64{2, 0, 1} {
				tree.Insert(k, k*2)
			}
			released := make([]uint64, 0, 3)
			tree.Release(func(key uint64, item uint64) {
				require.Equal(tt, key*2, item)
				released = append(released, key)
			})
			require.Equal(tt, []uint64{0, 1, 2}, released)
			require.Equal(tt, int64(0), tree.Len())

			tree.Insert(1, 1)
			tree.Release(nil)
			require.Nil(tt, tree.Root())
		})
	}
}

func TestTreeDepthStats(t *testing.T) {
	bst := NewBST[int, int](infra.OrderedComparator[int]())
	count, depth := bst.DepthStats()
	require.Equal(t, int64(0), count)
	require.Equal(t, 0, depth)

	bst.Insert(1, 1)
	count, depth = bst.DepthStats()
	require.Equal(t, int64(1), count)
	require.Equal(t, 0, depth)

	// Sorted insertion degenerates the plain tree into a list.
	for i := 2; i <= 10; i++ {
		bst.Insert(i, i)
	}
	count, depth = bst.DepthStats()
	require.Equal(t, int64(10), count)
	require.Equal(t, 9, depth)

	avl := NewAVLTree[int, int](infra.OrderedComparator[int]())
	for i := 1; i <= 7; i++ {
		avl.Insert(i, i)
	}
	count, depth = avl.DepthStats()
	require.Equal(t, int64(7), count)
	require.Equal(t, 2, depth)
}

func treeRandomInsertAndRemoveRunCore(t *testing.T, ctor treeCtor, opts ...TreeOpt[uint64, uint64]) {
	tree := ctor(opts...)
	total := 1000
	keys := make([]uint64, 0, total)
	uniq := make(map[uint64]struct{}, total)
	for len(keys) < total {
		k := randv2.Uint64N(100_000)
		if _, ok := uniq[k]; ok {
			require.False(t, tree.Insert(k, k))
			continue
		}
		uniq[k] = struct{}{}
		keys = append(keys, k)
		require.True(t, tree.Insert(k, k))
		if len(keys)%50 == 0 {
			require.NoError(t, Validate(tree))
		}
	}
	require.Equal(t, int64(total), tree.Len())
	require.NoError(t, Validate(tree))

	sorted := make([]uint64, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	require.Equal(t, sorted, inorderKeys(tree))

	randv2.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	for i, k := range keys {
		item, ok := tree.Pop(k)
		require.True(t, ok)
		require.Equal(t, k, item)
		require.False(t, tree.Contains(k))
		require.Equal(t, int64(total-i-1), tree.Len())
		if i%25 == 0 {
			require.NoError(t, Validate(tree))
		}
	}
	require.Nil(t, tree.Root())
	require.NoError(t, Validate(tree))
}

func TestTreeRandomInsertAndRemove(t *testing.T) {
	for kind, ctor := range allTrees() {
		t.Run(kind.String()+"/pred", func(tt *testing.T) {
			treeRandomInsertAndRemoveRunCore(tt, ctor)
		})
		t.Run(kind.String()+"/succ", func(tt *testing.T) {
			treeRandomInsertAndRemoveRunCore(tt, ctor, WithTreeRemoveBorrowSucc[uint64, uint64]())
		})
	}
}

func TestNodeView(t *testing.T) {
	var nilNode *node[int, int]
	require.Equal(t, Black, nilNode.Color())
	require.Equal(t, 0, nilNode.Height())
	require.Nil(t, nilNode.Left())
	require.Nil(t, nilNode.Right())

	tree := NewRBTree[int, string](infra.OrderedComparator[int]())
	tree.Insert(1, "a")
	root := tree.Root()
	require.Equal(t, 1, root.Key())
	require.Equal(t, "a", root.Item())
	require.Equal(t, Black, root.Color())
	require.Nil(t, root.Left())
}

func BenchmarkTree_Random(b *testing.B) {
	for kind, ctor := range allTrees() {
		b.Run(kind.String(), func(bb *testing.B) {
			tree := ctor()
			bb.ResetTimer()
			for i := 0; i < bb.N; i++ {
				tree.Insert(randv2.Uint64(), uint64(i))
			}
		})
	}
}
