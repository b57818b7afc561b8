package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(unknown)"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "RBDirection(unknown)"
}

// Kind is the balancing strategy a tree is built with.
type Kind uint8

const (
	KindBST Kind = iota
	KindAVL
	KindRB
	KindSplay
)

func (k Kind) String() string {
	switch k {
	case KindBST:
		return "bst"
	case KindAVL:
		return "avl"
	case KindRB:
		return "rbtree"
	case KindSplay:
		return "splay"
	default:
	}
	return "unknown"
}

var (
	ErrOutOfRange          = errors.New("[xtree] index out of range")
	ErrTypeMismatch        = errors.New("[xtree] operand is not a set")
	ErrUnrenderableItem    = errors.New("[xtree] item has no string representation")
	ErrIteratorExhausted   = errors.New("[xtree] iterator exhausted")
	ErrIteratorInvalidated = errors.New("[xtree] iterator invalidated by mutation")
	ErrNilComparator       = errors.New("[xtree] nil comparator")

	ErrRedViolation      = errors.New("[xtree] rbtree red violation")
	ErrBlackViolation    = errors.New("[xtree] rbtree black violation")
	ErrBalanceViolation  = errors.New("[xtree] avl balance violation")
	ErrOrderViolation    = errors.New("[xtree] bst order violation")
	ErrSequenceViolation = errors.New("[xtree] sequence violation")
)

// Node is the read-only view of a tree node.
// Height is only maintained by the AVL tree and Color by the red-black tree.
type Node[K any, V any] interface {
	Key() K
	Item() V
	Color() RBColor
	Height() int
	Left() Node[K, V]
	Right() Node[K, V]
}

// Collection is the smallest readable surface shared by trees and sets.
type Collection[T any] interface {
	Len() int64
	Contains(key T) bool
}

// Tree is an ordered container driven by an external comparator.
//
// Besides the search tree, every entry is linked into a secondary sequence in
// most-recent-insertion order. Iteration walks that sequence, either as is or
// after merge sorting it.
//
// Trees are not thread safe.
type Tree[K any, V any] interface {
	Kind() Kind
	Comparator() infra.Comparator[K]
	Len() int64
	Root() Node[K, V]
	// Insert returns true if a new entry was created and false if an
	// existing entry had its item overwritten.
	Insert(key K, item V) bool
	Search(key K) (V, bool)
	Contains(key K) bool
	Remove(key K) bool
	Pop(key K) (V, bool)
	Min() (K, V, bool)
	Max() (K, V, bool)
	// Clear drops every entry in O(1).
	Clear()
	// Release visits every entry in sorted order, then clears the tree.
	Release(fn func(key K, item V))
	// DepthStats returns the number of entries and the deepest level,
	// counting the root as level 0.
	DepthStats() (count int64, maxDepth int)
	IsSorted() bool
	Sort()
	Iterator(sorted bool) *Iterator[K, V]
	Foreach(sorted bool, action func(idx int64, key K, item V) bool)
	// At returns the item at the sorted position index, -1 means the last one.
	At(index int64) (V, error)
	// Render concatenates the items in sorted order, like "[1, 2, 3]".
	Render() (string, error)
}

// SplayTree additionally supports lookups which splay the accessed node.
type SplayTree[K any, V any] interface {
	Tree[K, V]
	// Access searches key and splays the found node, or the last node met,
	// to the root.
	Access(key K) (V, bool)
}
