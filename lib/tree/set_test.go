package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/infra"
)

func TestSetAlgebra(t *testing.T) {
	a := NewOrderedSet[int](1, 2, 3)
	b := NewOrderedSet[int](3, 4, 5)

	union, err := a.Union(b)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, union.Items())

	intersection, err := a.Intersection(b)
	require.NoError(t, err)
	require.Equal(t, []int{3}, intersection.Items())

	difference, err := a.Difference(b)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, difference.Items())

	// Operands are untouched.
	require.Equal(t, []int{1, 2, 3}, a.Items())
	require.Equal(t, []int{3, 4, 5}, b.Items())

	for _, s := range []*Set[int]{union, intersection, difference} {
		require.NoError(t, Validate[int, int](s.tree))
	}
}

func TestSetOperatorAliases(t *testing.T) {
	a := NewOrderedSet[int](1, 2, 3)
	b := NewOrderedSet[int](3, 4, 5)

	testcases := []struct {
		name     string
		op       func(Collection[int]) (*Set[int], error)
		expected []int
	}{
		{"or", a.Or, []int{1, 2, 3, 4, 5}},
		{"plus", a.Plus, []int{1, 2, 3, 4, 5}},
		{"and", a.And, []int{3}},
		{"mul", a.Mul, []int{3}},
		{"sub", a.Sub, []int{1, 2}},
		{"xor", a.Xor, []int{1, 2}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			res, err := tc.op(b)
			require.NoError(tt, err)
			require.Equal(tt, tc.expected, res.Items())
		})
	}
}

func TestSetTypeMismatch(t *testing.T) {
	a := NewOrderedSet[int](1, 2, 3)
	tree := NewRBTree[int, int](infra.OrderedComparator[int]())
	tree.Insert(1, 1)

	_, err := a.Union(tree)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = a.Intersection(tree)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = a.Difference(tree)
	require.ErrorIs(t, err, ErrTypeMismatch)

	var nilSet *Set[int]
	_, err = a.Union(nilSet)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func collectNodes[T any](s *Set[T]) map[*node[T, T]]struct{} {
	nodes := make(map[*node[T, T]]struct{}, s.Len())
	s.tree.preorder(func(x *node[T, T]) {
		nodes[x] = struct{}{}
	})
	return nodes
}

func sameShape[T any](t *testing.T, a, b Node[T, T]) {
	if a == nil || b == nil {
		require.True(t, a == nil && b == nil)
		return
	}
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, a.Color(), b.Color())
	sameShape(t, a.Left(), b.Left())
	sameShape(t, a.Right(), b.Right())
}

func TestSetCopy(t *testing.T) {
	src := NewOrderedSet[int]()
	for i := 0; i < 200; i++ {
		src.Add(randv2.IntN(1000))
	}
	dup := src.Copy()
	require.Equal(t, src.Items(), dup.Items())
	require.Equal(t, src.Len(), dup.Len())
	sameShape(t, src.Root(), dup.Root())
	require.NoError(t, Validate[int, int](dup.tree))

	srcNodes := collectNodes(src)
	for x := range collectNodes(dup) {
		_, ok := srcNodes[x]
		require.False(t, ok)
	}

	// The copy lives on its own.
	dup.Add(5000)
	require.False(t, src.Contains(5000))
	require.NoError(t, Validate[int, int](dup.tree))
}

func TestSetCopyTransform(t *testing.T) {
	type box struct {
		v int
	}
	s := NewSet[*box](func(i, j *box) int64 {
		return int64(i.v - j.v)
	})
	for _, v := range []int{3, 1, 2} {
		s.Add(&box{v: v})
	}
	dup := s.Copy(func(b *box) *box {
		return &box{v: b.v}
	})
	require.Equal(t,
		lo.Map(s.Items(), func(b *box, _ int) int { return b.v }),
		lo.Map(dup.Items(), func(b *box, _ int) int { return b.v }),
	)
	for i, b := range dup.Items() {
		require.NotSame(t, s.Items()[i], b)
	}

	scaled, err := s.Union(NewSet[*box](s.tree.cmp), func(b *box) *box {
		return &box{v: b.v * 10}
	})
	require.NoError(t, err)
	require.Equal(t, []int{10, 20, 30}, lo.Map(scaled.Items(), func(b *box, _ int) int { return b.v }))
}

func TestSetDesc(t *testing.T) {
	s := NewSet[int](infra.OrderedComparator[int](), WithTreeDesc[int, int]())
	for _, v := range []int{1, 3, 2} {
		s.Add(v)
	}
	dup := s.Copy()
	dup.Add(4)
	require.Equal(t, []int{4, 3, 2, 1}, dup.Items())

	diff, err := dup.Difference(s)
	require.NoError(t, err)
	require.Equal(t, []int{4}, diff.Items())
}

func randomSet(n int) *Set[int] {
	s := NewOrderedSet[int]()
	for i := 0; i < n; i++ {
		s.Add(randv2.IntN(n * 2))
	}
	return s
}

func TestSetLaws(t *testing.T) {
	for round := 0; round < 20; round++ {
		a, b := randomSet(100), randomSet(80)

		aa, err := a.Union(a)
		require.NoError(t, err)
		require.Equal(t, a.Items(), aa.Items())

		ab, err := a.Intersection(b)
		require.NoError(t, err)
		for _, v := range ab.Items() {
			require.True(t, a.Contains(v))
			require.True(t, b.Contains(v))
		}

		diff, err := a.Difference(b)
		require.NoError(t, err)
		for _, v := range diff.Items() {
			require.False(t, b.Contains(v))
			require.True(t, a.Contains(v))
		}
		require.Equal(t, a.Len(), diff.Len()+ab.Len())

		union, err := a.Union(b)
		require.NoError(t, err)
		rest, err := union.Difference(b)
		require.NoError(t, err)
		require.Equal(t, diff.Items(), rest.Items())
		require.ElementsMatch(t, lo.Union(a.Items(), b.Items()), union.Items())

		for _, s := range []*Set[int]{aa, ab, diff, union, rest} {
			require.NoError(t, Validate[int, int](s.tree))
		}
	}
}

func TestSetSurface(t *testing.T) {
	s := NewOrderedSet[int](5, 3, 8)
	require.True(t, s.Append(1))
	require.False(t, s.Add(3))
	require.Equal(t, int64(4), s.Len())

	v, ok := s.Pop(8)
	require.True(t, ok)
	require.Equal(t, 8, v)
	require.True(t, s.Remove(5))
	require.False(t, s.Remove(5))

	first, err := s.At(0)
	require.NoError(t, err)
	require.Equal(t, 1, first)
	require.True(t, s.IsSorted())

	str, err := s.Render()
	require.NoError(t, err)
	require.Equal(t, "[1, 3]", str)

	count, _ := s.DepthStats()
	require.Equal(t, int64(2), count)

	items := make([]int, 0, 2)
	s.Foreach(true, func(_ int64, item int) bool {
		items = append(items, item)
		return true
	})
	require.Equal(t, []int{1, 3}, items)

	it := s.Iterator(true)
	k, v, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, 1, k)
	require.Equal(t, 1, v)

	s.Clear()
	require.Equal(t, int64(0), s.Len())
	require.Nil(t, s.Root())
}

func BenchmarkSet_Union(b *testing.B) {
	x, y := randomSet(1000), randomSet(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = x.Union(y)
	}
}
