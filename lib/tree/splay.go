package tree

import "github.com/benz9527/xtree/lib/infra"

// NewSplayTree returns a tree which brings every newly inserted key to the root.
func NewSplayTree[K any, V any](cmp infra.Comparator[K], opts ...TreeOpt[K, V]) SplayTree[K, V] {
	return &splayTree[K, V]{
		orderedTree: newOrderedTree[K, V](cmp, splayBalancer[K, V]{}, opts...),
	}
}

type splayTree[K any, V any] struct {
	*orderedTree[K, V]
}

// Access is the lookup counterpart of the splaying insert. A miss splays the
// last node met, so that repeated misses around it get cheaper too.
func (tree *splayTree[K, V]) Access(key K) (V, bool) {
	var zero V
	if tree.root == nil {
		return zero, false
	}
	path := tree.path[:0]
	found := false
	for x := tree.root; x != nil; {
		res := tree.cmp(key, x.key)
		if res == 0 {
			path = append(path, step[K, V]{node: x, dir: Root})
			found = true
			break
		}
		dir := Right
		if res < 0 {
			dir = Left
		}
		path = append(path, step[K, V]{node: x, dir: dir})
		if x = x.child(dir); x == nil {
			path[len(path)-1].dir = Root
		}
	}

	x := path[len(path)-1].node
	splay(tree.orderedTree, path)
	tree.releasePath(path)
	if !found {
		return zero, false
	}
	return x.item, true
}

/*
zig: X's parent P is the root, rotate P.

	    P              X
	   / \            / \
	  X   C  ====>   A   P
	 / \                / \
	A   B              B   C

zig-zig: X and P are both left (or both right) children,
rotate G first and then P.

	      G                                 X
	     / \                               / \
	    P   D                             A   P
	   / \      r-rotate(G), r-rotate(P)     / \
	  X   C     =======================>    B   G
	 / \                                       / \
	A   B                                     C   D

zig-zag: X is a right child and P is a left child (or the mirror),
rotate P towards G first and then G.

	    G                             X
	   / \                          /   \
	  P   D   l-rotate(P)          P     G
	 / \      r-rotate(G)         / \   / \
	A   X     ==========>        A   B C   D
	   / \
	  B   C
*/
func splay[K any, V any](tree *orderedTree[K, V], path []step[K, V]) {
	x := path[len(path)-1].node
	for k := len(path) - 1; k > 0; k = len(path) - 1 {
		p := path[k-1]
		if /* zig */ k == 1 {
			if p.dir == Left {
				tree.setChild(path, 0, rotateRight(p.node))
			} else {
				tree.setChild(path, 0, rotateLeft(p.node))
			}
			return
		}

		g := path[k-2]
		var sub *node[K, V]
		switch {
		case /* zig-zig */ g.dir == Left && p.dir == Left:
			sub = rotateRight(rotateRight(g.node))
		case /* zig-zig */ g.dir == Right && p.dir == Right:
			sub = rotateLeft(rotateLeft(g.node))
		case /* zig-zag */ g.dir == Left:
			g.node.left = rotateLeft(p.node)
			sub = rotateRight(g.node)
		default /* zig-zag */ :
			g.node.right = rotateRight(p.node)
			sub = rotateLeft(g.node)
		}
		if sub != x {
			// impossible run to here
			panic( /* debug assertion */ "[xtree] splay did not lift the node")
		}
		tree.setChild(path, k-2, sub)
		path[k-2] = step[K, V]{node: x, dir: Root}
		path = path[:k-1]
	}
}

type splayBalancer[K any, V any] struct{}

func (splayBalancer[K, V]) kind() Kind            { return KindSplay }
func (splayBalancer[K, V]) descend(*node[K, V]) {}

func (splayBalancer[K, V]) afterInsert(tree *orderedTree[K, V], path []step[K, V], inserted bool) {
	if !inserted {
		return
	}
	splay(tree, path)
}

func (splayBalancer[K, V]) percolate(tree *orderedTree[K, V], path []step[K, V]) []step[K, V] {
	return tree.percolateRotate(path)
}

func (splayBalancer[K, V]) afterRemove(*orderedTree[K, V], []step[K, V], *node[K, V], *node[K, V]) {
}
