package tree

import (
	"fmt"

	"go.uber.org/multierr"
)

// Tree rule validation utilities.

// Inorder traversal over the read-only node view.
func walkInorder[K any, V any](root Node[K, V], action func(n Node[K, V]) bool) {
	if root == nil {
		return
	}
	stack := make([]Node[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for aux := root; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !action(aux) {
			return
		}
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
}

func isRedNode[K any, V any](n Node[K, V]) bool {
	return n != nil && n.Color() == Red
}

// OrderViolationValidate checks that the inorder keys are strictly increasing
// by the tree's comparator.
func OrderViolationValidate[K any, V any](tree Tree[K, V]) error {
	cmp := tree.Comparator()
	var (
		prev    K
		hasPrev bool
		err     error
	)
	walkInorder[K, V](tree.Root(), func(n Node[K, V]) bool {
		if hasPrev && cmp(prev, n.Key()) >= 0 {
			err = fmt.Errorf("%w: key %v after %v", ErrOrderViolation, n.Key(), prev)
			return false
		}
		prev, hasPrev = n.Key(), true
		return true
	})
	return err
}

// SequenceViolationValidate checks that the secondary sequence holds every
// entry of the tree exactly once.
func SequenceViolationValidate[K any, V any](tree Tree[K, V]) error {
	var (
		count int64
		err   error
	)
	tree.Foreach(false, func(idx int64, key K, _ V) bool {
		count++
		if !tree.Contains(key) {
			err = fmt.Errorf("%w: key %v at %d is not in the tree", ErrSequenceViolation, key, idx)
			return false
		}
		return count <= tree.Len()
	})
	if err != nil {
		return err
	}
	if count != tree.Len() {
		return fmt.Errorf("%w: %d linked, %d entries", ErrSequenceViolation, count, tree.Len())
	}
	return nil
}

// RedViolationValidate checks that the root is black and that no red node
// has a red child.
func RedViolationValidate[K any, V any](tree Tree[K, V]) error {
	if isRedNode(tree.Root()) {
		return fmt.Errorf("%w: red root", ErrRedViolation)
	}
	var err error
	walkInorder[K, V](tree.Root(), func(n Node[K, V]) bool {
		if isRedNode(n) && (isRedNode(n.Left()) || isRedNode(n.Right())) {
			err = fmt.Errorf("%w: red node %v has a red child", ErrRedViolation, n.Key())
			return false
		}
		return true
	})
	return err
}

func blackHeight[K any, V any](n Node[K, V]) (int, error) {
	if n == nil {
		return 1, nil
	}
	l, err := blackHeight(n.Left())
	if err != nil {
		return 0, err
	}
	r, err := blackHeight(n.Right())
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, fmt.Errorf("%w: node %v left %d right %d", ErrBlackViolation, n.Key(), l, r)
	}
	if n.Color() == Black {
		l++
	}
	return l, nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Every path from a node down to its NIL leaves goes
through the same number of black nodes.
*/
func BlackViolationValidate[K any, V any](tree Tree[K, V]) error {
	_, err := blackHeight(tree.Root())
	return err
}

func avlHeight[K any, V any](n Node[K, V]) (int, error) {
	if n == nil {
		return 0, nil
	}
	l, err := avlHeight(n.Left())
	if err != nil {
		return 0, err
	}
	r, err := avlHeight(n.Right())
	if err != nil {
		return 0, err
	}
	if l-r > 1 || r-l > 1 {
		return 0, fmt.Errorf("%w: node %v left %d right %d", ErrBalanceViolation, n.Key(), l, r)
	}
	h := max(l, r) + 1
	if n.Height() != h {
		return 0, fmt.Errorf("%w: node %v height %d, want %d", ErrBalanceViolation, n.Key(), n.Height(), h)
	}
	return h, nil
}

// BalanceViolationValidate checks the AVL balance factors and the stored heights.
func BalanceViolationValidate[K any, V any](tree Tree[K, V]) error {
	_, err := avlHeight(tree.Root())
	return err
}

// Validate combines every rule that applies to the tree's kind.
func Validate[K any, V any](tree Tree[K, V]) error {
	err := multierr.Combine(
		OrderViolationValidate(tree),
		SequenceViolationValidate(tree),
	)
	switch tree.Kind() {
	case KindAVL:
		err = multierr.Append(err, BalanceViolationValidate(tree))
	case KindRB:
		err = multierr.Combine(err,
			RedViolationValidate(tree),
			BlackViolationValidate(tree),
		)
	default:
	}
	return err
}
