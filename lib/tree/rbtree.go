package tree

import (
	"slices"

	"github.com/benz9527/xtree/lib/infra"
)

// References:
// Robert Sedgewick, "Algorithms in C", top-down 2-3-4 insertion.
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.

// NewRBTree returns a red-black tree.
func NewRBTree[K any, V any](cmp infra.Comparator[K], opts ...TreeOpt[K, V]) Tree[K, V] {
	return newRBTree[K, V](cmp, opts...)
}

func newRBTree[K any, V any](cmp infra.Comparator[K], opts ...TreeOpt[K, V]) *orderedTree[K, V] {
	return newOrderedTree[K, V](cmp, rbBalancer[K, V]{}, opts...)
}

func isRed[K any, V any](n *node[K, V]) bool {
	return n != nil && n.color == Red
}

func isBlack[K any, V any](n *node[K, V]) bool {
	return n == nil || n.color == Black
}

type rbBalancer[K any, V any] struct{}

func (rbBalancer[K, V]) kind() Kind { return KindRB }

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

A black node with two red children is the 2-3-4 tree 4-node.
It is split on the way down, so that the insertion never ends
below a 4-node.

	    [X]              <X>
	    / \     ===>     / \
	  <L> <R>          [L] [R]
*/
func (rbBalancer[K, V]) descend(x *node[K, V]) {
	if isRed(x.left) && isRed(x.right) {
		x.color = Red
		x.left.color = Black
		x.right.color = Black
	}
}

/*
The corrections run bottom-up on every node of the insertion path, in order:

ic1 (right-left): X is a right child, X and its left child are red.
Rotate right at X, the red pair turns into the right-right case for the parent.

ic2 (left-left): X's left child and left grandchild are red.

	      [X]                 <L>                [L]
	      / \    r-rotate(X)  / \    repaint     / \
	    <L>  C   ==========> <A> [X]  ======>  <A> <X>
	    / \                      / \               / \
	  <A>  B                    B   C             B   C

ic3 (left-right): X is a left child, X and its right child are red.
Rotate left at X, the red pair turns into the left-left case for the parent.

ic4 (right-right): the mirror image of ic2.
*/
func (rbBalancer[K, V]) fix(x *node[K, V], dir RBDirection, fromRight bool) *node[K, V] {
	switch dir {
	case Left:
		if /* ic1 */ fromRight && isRed(x) && isRed(x.left) {
			x = rotateRight(x)
		}
		if /* ic2 */ isRed(x.left) && isRed(x.left.left) {
			x = rotateRight(x)
			x.color = Black
			x.right.color = Red
		}
	case Right:
		if /* ic3 */ !fromRight && isRed(x) && isRed(x.right) {
			x = rotateLeft(x)
		}
		if /* ic4 */ isRed(x.right) && isRed(x.right.right) {
			x = rotateLeft(x)
			x.color = Black
			x.left.color = Red
		}
	default:
	}
	return x
}

// The overwrite path still runs the corrections, the splits on the way
// down may have left red pairs behind.
func (b rbBalancer[K, V]) afterInsert(tree *orderedTree[K, V], path []step[K, V], _ bool) {
	for i := len(path) - 2; i >= 0; i-- {
		x := path[i].node
		fromRight := i > 0 && path[i-1].dir == Right
		if sub := b.fix(x, path[i].dir, fromRight); sub != x {
			tree.setChild(path, i, sub)
		}
	}
	tree.root.color = Black
}

func (rbBalancer[K, V]) percolate(tree *orderedTree[K, V], path []step[K, V]) []step[K, V] {
	return tree.percolateSwap(path)
}

/*
r1: The removed node X is red, nothing changed.

r2: X is black and its replacement child C is red, repaint C into black.

	  [P]                [P]
	  /       ===>       /
	[X]                [C]
	  \
	  <C>

Otherwise the subtree which lost X is short of one black node
(double black). Let D be the double black position, P its parent
and S its sibling.
Sc is S's child on D's side and Sd is the distant one.

rm1: S is red, so P, Sc and Sd are black.
Rotate P towards D, repaint S into black and P into red.
D gets a black sibling, enter rm2 to rm5.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[D] <S>  ==========>  [P] [Sd]  =====>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [D] [Sc]          [D] [Sc]

rm2: P is red, S, Sc and Sd are black.
Repaint S into red and P into black, done.

rm3: P, S, Sc and Sd are all black.
Repaint S into red, P becomes the double black position.

rm4: S is black, Sc is red and Sd is black.
Rotate S away from D, repaint Sc into black and S into red.
Enter rm5 with Sc as the new sibling.

	  {P}                 {P}                {P}
	  / \    r-rotate(S)  / \    repaint     / \
	[D] [S]  ==========> [D] <Sc>  =====>  [D] [Sc]
	    / \                    \                 \
	  <Sc> [Sd]                [S]               <S>
	                             \                 \
	                             [Sd]              [Sd]

rm5: S is black and Sd is red.
Rotate P towards D, S takes P's color, P and Sd are painted black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[D] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 {Sc} <Sd>          [D] {Sc}           [D] {Sc}
*/
func (rbBalancer[K, V]) afterRemove(tree *orderedTree[K, V], path []step[K, V], removed, child *node[K, V]) {
	defer func() {
		if tree.root != nil {
			tree.root.color = Black
		}
	}()

	if /* r1 */ removed.color == Red {
		return
	}
	if /* r2 */ isRed(child) {
		child.color = Black
		return
	}

	for i := len(path) - 1; i >= 0; {
		p, dir := path[i].node, path[i].dir
		sibling := p.child(-dir)
		if sibling == nil {
			// impossible run to here
			panic( /* debug assertion */ "[xtree] rbtree double black without sibling")
		}

		if /* rm1 */ isRed(sibling) {
			var top *node[K, V]
			if dir == Left {
				top = rotateLeft(p)
			} else {
				top = rotateRight(p)
			}
			tree.setChild(path, i, top)
			sibling.color = Black
			p.color = Red
			path = slices.Insert(path, i, step[K, V]{node: top, dir: dir})
			i++
			sibling = p.child(-dir)
		}

		sc, sd := sibling.child(dir), sibling.child(-dir)
		if isBlack(sc) && isBlack(sd) {
			sibling.color = Red
			if /* rm2 */ isRed(p) {
				p.color = Black
				return
			}
			/* rm3 */ i--
			continue
		}

		if /* rm4 */ isBlack(sd) {
			if dir == Left {
				p.right = rotateRight(sibling)
			} else {
				p.left = rotateLeft(sibling)
			}
			sc.color = Black
			sibling.color = Red
			sibling, sd = sc, sibling
		}

		/* rm5 */
		var top *node[K, V]
		if dir == Left {
			top = rotateLeft(p)
		} else {
			top = rotateRight(p)
		}
		tree.setChild(path, i, top)
		sibling.color = p.color
		p.color = Black
		sd.color = Black
		return
	}
}
