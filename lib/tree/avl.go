package tree

import "github.com/benz9527/xtree/lib/infra"

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// avl properties:
// p1. For every node, |height(left) - height(right)| <= 1.
// p2. The height of an absent child is 0, a leaf is 1.

// NewAVLTree returns a height-balanced tree.
func NewAVLTree[K any, V any](cmp infra.Comparator[K], opts ...TreeOpt[K, V]) Tree[K, V] {
	return newOrderedTree[K, V](cmp, avlBalancer[K, V]{}, opts...)
}

func heightOf[K any, V any](n *node[K, V]) int32 {
	if n == nil {
		return 0
	}
	return n.height
}

func balanceOf[K any, V any](n *node[K, V]) int32 {
	if n == nil {
		return 0
	}
	return heightOf(n.left) - heightOf(n.right)
}

// Equal children heights make no difference, the node is one level above.
func updateHeight[K any, V any](n *node[K, V]) {
	l, r := heightOf(n.left), heightOf(n.right)
	if l > r {
		n.height = l + 1
	} else {
		n.height = r + 1
	}
}

func avlRotateLeft[K any, V any](x *node[K, V]) *node[K, V] {
	y := rotateLeft(x)
	updateHeight(x)
	updateHeight(y)
	return y
}

func avlRotateRight[K any, V any](x *node[K, V]) *node[K, V] {
	y := rotateRight(x)
	updateHeight(x)
	updateHeight(y)
	return y
}

/*
ll: The left child is left heavy or even, rotate right.

	      Z                 Y
	     / \               / \
	    Y   T4   r(Z)     X   Z
	   / \      =====>   / \ / \
	  X   T3           T1 T2 T3 T4
	 / \
	T1  T2

lr: The left child is right heavy, rotate it left first then rotate right.

	    Z               Z               X
	   / \             / \             / \
	  Y   T4  l(Y)    X   T4  r(Z)    Y   Z
	 / \     =====>  / \     =====>  / \ / \
	T1  X           Y   T3         T1 T2 T3 T4
	   / \         / \
	  T2  T3      T1  T2

rr and rl are the mirror images.
*/
func avlRebalance[K any, V any](n *node[K, V]) *node[K, V] {
	updateHeight(n)
	switch balance := balanceOf(n); {
	case balance > 1:
		if /* lr */ balanceOf(n.left) < 0 {
			n.left = avlRotateLeft(n.left)
		}
		return /* ll */ avlRotateRight(n)
	case balance < -1:
		if /* rl */ balanceOf(n.right) > 0 {
			n.right = avlRotateRight(n.right)
		}
		return /* rr */ avlRotateLeft(n)
	default:
	}
	return n
}

type avlBalancer[K any, V any] struct{}

func (avlBalancer[K, V]) kind() Kind            { return KindAVL }
func (avlBalancer[K, V]) descend(*node[K, V]) {}

func (b avlBalancer[K, V]) afterInsert(tree *orderedTree[K, V], path []step[K, V], inserted bool) {
	if !inserted {
		return
	}
	b.rebalancePath(tree, path[:len(path)-1])
}

func (avlBalancer[K, V]) percolate(tree *orderedTree[K, V], path []step[K, V]) []step[K, V] {
	return tree.percolateSwap(path)
}

func (b avlBalancer[K, V]) afterRemove(tree *orderedTree[K, V], path []step[K, V], _, _ *node[K, V]) {
	b.rebalancePath(tree, path)
}

// rebalancePath walks the path bottom-up, refreshing heights and rotating
// every node found out of balance.
func (avlBalancer[K, V]) rebalancePath(tree *orderedTree[K, V], path []step[K, V]) {
	for i := len(path) - 1; i >= 0; i-- {
		x := path[i].node
		if sub := avlRebalance(x); sub != x {
			tree.setChild(path, i, sub)
		}
	}
}
