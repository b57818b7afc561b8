package tree

import (
	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
)

// Set is an ordered set over the red-black tree, every item is its own key.
//
// The optional transform of the set algebra is applied to every item placed
// into the result, it is the hook to deep copy items. It must keep the
// relative order of the items.
type Set[T any] struct {
	tree *orderedTree[T, T]
}

func NewSet[T any](cmp infra.Comparator[T], opts ...TreeOpt[T, T]) *Set[T] {
	return &Set[T]{
		tree: newRBTree[T, T](cmp, opts...),
	}
}

func NewOrderedSet[T infra.OrderedKey](items ...T) *Set[T] {
	s := NewSet[T](infra.OrderedComparator[T]())
	lo.ForEach(items, func(item T, _ int) {
		s.Add(item)
	})
	return s
}

// empty returns a set sharing the comparator and options of s.
func (s *Set[T]) empty() *Set[T] {
	return &Set[T]{
		tree: &orderedTree[T, T]{
			cmp:            s.tree.cmp,
			policy:         s.tree.policy,
			isSorted:       true,
			isDesc:         s.tree.isDesc,
			isRmBorrowSucc: s.tree.isRmBorrowSucc,
		},
	}
}

func (s *Set[T]) Add(item T) bool {
	return s.tree.Insert(item, item)
}

func (s *Set[T]) Append(item T) bool {
	return s.Add(item)
}

func (s *Set[T]) Remove(item T) bool {
	return s.tree.Remove(item)
}

func (s *Set[T]) Pop(item T) (T, bool) {
	return s.tree.Pop(item)
}

func (s *Set[T]) Contains(item T) bool {
	return s.tree.Contains(item)
}

func (s *Set[T]) Len() int64 {
	return s.tree.Len()
}

func (s *Set[T]) Clear() {
	s.tree.Clear()
}

func (s *Set[T]) Root() Node[T, T] {
	return s.tree.Root()
}

func (s *Set[T]) DepthStats() (int64, int) {
	return s.tree.DepthStats()
}

func (s *Set[T]) IsSorted() bool {
	return s.tree.IsSorted()
}

func (s *Set[T]) Sort() {
	s.tree.Sort()
}

func (s *Set[T]) At(index int64) (T, error) {
	return s.tree.At(index)
}

func (s *Set[T]) Render() (string, error) {
	return s.tree.Render()
}

func (s *Set[T]) Iterator(sorted bool) *Iterator[T, T] {
	return s.tree.Iterator(sorted)
}

func (s *Set[T]) Foreach(sorted bool, action func(idx int64, item T) bool) {
	s.tree.Foreach(sorted, func(idx int64, _ T, item T) bool {
		return action(idx, item)
	})
}

// Items returns the items in sorted order.
func (s *Set[T]) Items() []T {
	items := make([]T, 0, s.tree.count)
	s.tree.inorder(func(x *node[T, T]) bool {
		items = append(items, x.item)
		return true
	})
	return items
}

func transformOf[T any](transform []func(T) T) func(T) T {
	if len(transform) <= 0 || transform[0] == nil {
		return nil
	}
	return transform[0]
}

func setOf[T any](other Collection[T]) (*Set[T], error) {
	o, ok := other.(*Set[T])
	if !ok || o == nil {
		return nil, ErrTypeMismatch
	}
	return o, nil
}

// Copy duplicates the set node by node. The nodes are visited parents first
// and relinked the plain binary search tree way, so the copy gets the same
// shape and colors without running any rebalancing.
func (s *Set[T]) Copy(transform ...func(T) T) *Set[T] {
	fn := transformOf(transform)
	dup := s.empty()
	s.tree.preorder(func(x *node[T, T]) {
		item := x.item
		if fn != nil {
			item = fn(item)
		}
		dup.tree.insertPlain(item, item, x.color)
	})
	return dup
}

// Union returns a copy of s with every item of other added in.
func (s *Set[T]) Union(other Collection[T], transform ...func(T) T) (*Set[T], error) {
	o, err := setOf(other)
	if err != nil {
		return nil, err
	}
	fn := transformOf(transform)
	res := s.Copy(transform...)
	o.tree.preorder(func(x *node[T, T]) {
		item := x.item
		if fn != nil {
			item = fn(item)
		}
		res.Add(item)
	})
	return res, nil
}

// Intersection returns the items of s which other contains as well.
func (s *Set[T]) Intersection(other Collection[T], transform ...func(T) T) (*Set[T], error) {
	o, err := setOf(other)
	if err != nil {
		return nil, err
	}
	return s.filter(func(item T) bool { return o.Contains(item) }, transformOf(transform)), nil
}

// Difference returns the items of s which other does not contain.
func (s *Set[T]) Difference(other Collection[T], transform ...func(T) T) (*Set[T], error) {
	o, err := setOf(other)
	if err != nil {
		return nil, err
	}
	return s.filter(func(item T) bool { return !o.Contains(item) }, transformOf(transform)), nil
}

func (s *Set[T]) filter(keep func(item T) bool, fn func(T) T) *Set[T] {
	res := s.empty()
	s.tree.preorder(func(x *node[T, T]) {
		if !keep(x.item) {
			return
		}
		item := x.item
		if fn != nil {
			item = fn(item)
		}
		res.Add(item)
	})
	return res
}

// Or is the "|" alias of Union.
func (s *Set[T]) Or(other Collection[T]) (*Set[T], error) {
	return s.Union(other)
}

// Plus is the "+" alias of Union.
func (s *Set[T]) Plus(other Collection[T]) (*Set[T], error) {
	return s.Union(other)
}

// And is the "&" alias of Intersection.
func (s *Set[T]) And(other Collection[T]) (*Set[T], error) {
	return s.Intersection(other)
}

// Mul is the "*" alias of Intersection.
func (s *Set[T]) Mul(other Collection[T]) (*Set[T], error) {
	return s.Intersection(other)
}

// Sub is the "-" alias of Difference.
func (s *Set[T]) Sub(other Collection[T]) (*Set[T], error) {
	return s.Difference(other)
}

// Xor is the "^" alias of Difference.
func (s *Set[T]) Xor(other Collection[T]) (*Set[T], error) {
	return s.Difference(other)
}
