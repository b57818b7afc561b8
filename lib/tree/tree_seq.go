package tree

import (
	"fmt"
	"reflect"
	"strings"
)

// The secondary sequence links every live node in most-recent-insertion
// order. It is maintained by insert and remove events only, rotations never
// touch it. Removal splices the node out at once through the prev link.

func (tree *orderedTree[K, V]) pushFront(x *node[K, V]) {
	x.prev = nil
	x.next = tree.head
	if tree.head != nil {
		tree.head.prev = x
		if tree.isSorted && tree.cmp(x.key, tree.head.key) > 0 {
			tree.isSorted = false
		}
	}
	tree.head = x
}

func (tree *orderedTree[K, V]) unlink(x *node[K, V]) {
	if x.prev != nil {
		x.prev.next = x.next
	} else if tree.head == x {
		tree.head = x.next
	}
	if x.next != nil {
		x.next.prev = x.prev
	}
	x.next, x.prev = nil, nil
}

// IsSorted reports whether the sequence is in non-decreasing comparator order.
// The comparator is a total order, so checking adjacent pairs is enough.
func (tree *orderedTree[K, V]) IsSorted() bool {
	if tree.isSorted {
		return true
	}
	for aux := tree.head; aux != nil && aux.next != nil; aux = aux.next {
		if tree.cmp(aux.key, aux.next.key) > 0 {
			return false
		}
	}
	tree.isSorted = true
	return true
}

// Sort merge sorts the sequence in place. Already sorted sequences are
// left untouched and live iterators stay valid.
func (tree *orderedTree[K, V]) Sort() {
	if tree.IsSorted() {
		return
	}
	tree.head = tree.mergeSort(tree.head)
	var prev *node[K, V]
	for aux := tree.head; aux != nil; aux = aux.next {
		aux.prev = prev
		prev = aux
	}
	tree.isSorted = true
	tree.version++
}

// split cuts the sequence in the middle, slow advances once and fast twice
// per cycle, and returns the head of the second half.
func (tree *orderedTree[K, V]) split(head *node[K, V]) *node[K, V] {
	slow, fast := head, head.next
	for fast != nil && fast.next != nil {
		slow = slow.next
		fast = fast.next.next
	}
	second := slow.next
	slow.next = nil
	return second
}

// merge links two sorted sequences, the left one wins ties.
func (tree *orderedTree[K, V]) merge(a, b *node[K, V]) *node[K, V] {
	dummy := &node[K, V]{}
	tail := dummy
	for a != nil && b != nil {
		if tree.cmp(a.key, b.key) <= 0 {
			tail.next, a = a, a.next
		} else {
			tail.next, b = b, b.next
		}
		tail = tail.next
	}
	if a != nil {
		tail.next = a
	} else {
		tail.next = b
	}
	head := dummy.next
	dummy.next = nil
	return head
}

func (tree *orderedTree[K, V]) mergeSort(head *node[K, V]) *node[K, V] {
	if head == nil || head.next == nil {
		return head
	}
	second := tree.split(head)
	return tree.merge(tree.mergeSort(head), tree.mergeSort(second))
}

func (tree *orderedTree[K, V]) sequence(sorted bool) *node[K, V] {
	if sorted {
		tree.Sort()
	}
	return tree.head
}

// Iterator is a restartable cursor over the secondary sequence.
// Any insert, remove, clear or re-sort of the tree invalidates it,
// Next then fails fast until Reset is called.
type Iterator[K any, V any] struct {
	tree    *orderedTree[K, V]
	cur     *node[K, V]
	version uint64
	sorted  bool
}

func (tree *orderedTree[K, V]) Iterator(sorted bool) *Iterator[K, V] {
	it := &Iterator[K, V]{
		tree:   tree,
		sorted: sorted,
	}
	it.Reset()
	return it
}

func (it *Iterator[K, V]) HasNext() bool {
	return it.cur != nil && it.version == it.tree.version
}

func (it *Iterator[K, V]) Next() (K, V, error) {
	var (
		k K
		v V
	)
	if it.version != it.tree.version {
		return k, v, ErrIteratorInvalidated
	}
	if it.cur == nil {
		return k, v, ErrIteratorExhausted
	}
	k, v = it.cur.key, it.cur.item
	it.cur = it.cur.next
	return k, v, nil
}

// Reset moves the iterator back to the head of the sequence, sorting it
// first for sorted iterators. It also revalidates an invalidated iterator.
func (it *Iterator[K, V]) Reset() {
	it.cur = it.tree.sequence(it.sorted)
	it.version = it.tree.version
}

func (tree *orderedTree[K, V]) Foreach(sorted bool, action func(idx int64, key K, item V) bool) {
	idx := int64(0)
	for aux := tree.sequence(sorted); aux != nil; aux = aux.next {
		if !action(idx, aux.key, aux.item) {
			return
		}
		idx++
	}
}

// At is O(height) for the first and the last index. Any other index sorts
// the sequence if needed and walks it.
func (tree *orderedTree[K, V]) At(index int64) (V, error) {
	var zero V
	if tree.count <= 0 || index < -1 || index >= tree.count {
		return zero, ErrOutOfRange
	}
	switch {
	case index == 0:
		return tree.root.minimum().item, nil
	case index == -1 || index == tree.count-1:
		return tree.root.maximum().item, nil
	default:
	}
	aux := tree.sequence(true)
	for i := int64(0); i < index; i++ {
		aux = aux.next
	}
	return aux.item, nil
}

func (tree *orderedTree[K, V]) Render() (string, error) {
	builder := strings.Builder{}
	_, _ = builder.WriteString("[")
	var err error
	first := true
	tree.inorder(func(x *node[K, V]) bool {
		var str string
		if str, err = itemString(x.item); err != nil {
			return false
		}
		if !first {
			_, _ = builder.WriteString(", ")
		}
		first = false
		_, _ = builder.WriteString(str)
		return true
	})
	if err != nil {
		return "", err
	}
	_, _ = builder.WriteString("]")
	return builder.String(), nil
}

func itemString(item any) (string, error) {
	switch v := item.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case string:
		return v, nil
	case error:
		return v.Error(), nil
	case []byte:
		return string(v), nil
	default:
	}
	if item == nil {
		return "", fmt.Errorf("%w: <nil>", ErrUnrenderableItem)
	}
	switch reflect.ValueOf(item).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return fmt.Sprint(item), nil
	default:
	}
	return "", fmt.Errorf("%w: %T", ErrUnrenderableItem, item)
}
