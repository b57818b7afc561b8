package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type node[K any, V any] struct {
	left  *node[K, V]
	right *node[K, V]
	// Secondary sequence links, most recent insertion first.
	// They never follow the tree shape.
	next   *node[K, V]
	prev   *node[K, V]
	key    K
	item   V
	height int32
	color  RBColor
}

func (n *node[K, V]) Key() K {
	return n.key
}

func (n *node[K, V]) Item() V {
	return n.item
}

func (n *node[K, V]) Color() RBColor {
	if n == nil {
		return Black
	}
	return n.color
}

func (n *node[K, V]) Height() int {
	if n == nil {
		return 0
	}
	return int(n.height)
}

func (n *node[K, V]) Left() Node[K, V] {
	if n == nil || n.left == nil {
		return nil
	}
	return n.left
}

func (n *node[K, V]) Right() Node[K, V] {
	if n == nil || n.right == nil {
		return nil
	}
	return n.right
}

func (n *node[K, V]) minimum() *node[K, V] {
	aux := n
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (n *node[K, V]) maximum() *node[K, V] {
	aux := n
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

func (n *node[K, V]) child(dir RBDirection) *node[K, V] {
	if dir == Left {
		return n.left
	}
	return n.right
}

/*
		 |                         |
		 X                         S
		/ \     rotateLeft(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc

Rotations only relink, they return the new subtree root and
the caller relinks it into the parent slot.
*/
func rotateLeft[K any, V any](x *node[K, V]) *node[K, V] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] left rotate node x is nil or x.right is nil")
	}
	y := x.right
	x.right, y.left = y.left, x
	return y
}

/*
			 |                         |
			 X                         S
			/ \     rotateRight(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func rotateRight[K any, V any](x *node[K, V]) *node[K, V] {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] right rotate node x is nil or x.left is nil")
	}
	y := x.left
	x.left, y.right = y.right, x
	return y
}

// step is one entry of the explicit descent path. dir is the side the
// path continues to from node, Root for the last entry.
type step[K any, V any] struct {
	node *node[K, V]
	dir  RBDirection
}

// balancer is the capability a strategy plugs into the shared container.
type balancer[K any, V any] interface {
	kind() Kind
	// descend visits every node met top-down by insert, before the key comparison.
	descend(n *node[K, V])
	// afterInsert receives the path from the root to the inserted node, or to
	// the node whose item was overwritten if inserted is false.
	afterInsert(t *orderedTree[K, V], path []step[K, V], inserted bool)
	// percolate moves the last node of path to a slot with at most one child
	// and returns the path to its new position.
	percolate(t *orderedTree[K, V], path []step[K, V]) []step[K, V]
	// afterRemove receives the path to the parent of the spliced node,
	// the spliced node and the child that took its place.
	afterRemove(t *orderedTree[K, V], path []step[K, V], removed, child *node[K, V])
}

type orderedTree[K any, V any] struct {
	root           *node[K, V]
	head           *node[K, V]
	count          int64
	version        uint64
	cmp            infra.Comparator[K]
	policy         balancer[K, V]
	path           []step[K, V]
	isSorted       bool
	isDesc         bool
	isRmBorrowSucc bool
}

type TreeOpt[K any, V any] func(*orderedTree[K, V])

// WithTreeDesc reverses the comparator, the tree is kept in descending order.
func WithTreeDesc[K any, V any]() TreeOpt[K, V] {
	return func(tree *orderedTree[K, V]) {
		tree.isDesc = true
	}
}

// WithTreeRemoveBorrowSucc makes removal of a node with two children borrow
// its in-order successor instead of its predecessor. Only the AVL and
// red-black trees borrow a neighbour; the plain and splay trees rotate.
func WithTreeRemoveBorrowSucc[K any, V any]() TreeOpt[K, V] {
	return func(tree *orderedTree[K, V]) {
		tree.isRmBorrowSucc = true
	}
}

func newOrderedTree[K any, V any](cmp infra.Comparator[K], policy balancer[K, V], opts ...TreeOpt[K, V]) *orderedTree[K, V] {
	if cmp == nil {
		panic(ErrNilComparator)
	}
	tree := &orderedTree[K, V]{
		cmp:      cmp,
		policy:   policy,
		isSorted: true,
	}
	for _, o := range opts {
		o(tree)
	}
	if tree.isDesc {
		tree.cmp = infra.Reverse[K](cmp)
	}
	return tree
}

// NewBST returns a plain binary search tree, no rebalancing at all.
func NewBST[K any, V any](cmp infra.Comparator[K], opts ...TreeOpt[K, V]) Tree[K, V] {
	return newOrderedTree[K, V](cmp, plainBalancer[K, V]{}, opts...)
}

// Add inserts item as both key and item.
func Add[T any](tree Tree[T, T], item T) bool {
	return tree.Insert(item, item)
}

// Append is an alias of Add.
func Append[T any](tree Tree[T, T], item T) bool {
	return tree.Insert(item, item)
}

func (tree *orderedTree[K, V]) Kind() Kind {
	return tree.policy.kind()
}

func (tree *orderedTree[K, V]) Comparator() infra.Comparator[K] {
	return tree.cmp
}

func (tree *orderedTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *orderedTree[K, V]) Root() Node[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// setChild relinks sub into the slot path[i] occupies.
func (tree *orderedTree[K, V]) setChild(path []step[K, V], i int, sub *node[K, V]) {
	if i == 0 {
		tree.root = sub
		return
	}
	switch p := path[i-1]; p.dir {
	case Left:
		p.node.left = sub
	case Right:
		p.node.right = sub
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] path parent without direction")
	}
}

// releasePath keeps the buffer for the next operation without retaining nodes.
func (tree *orderedTree[K, V]) releasePath(path []step[K, V]) {
	clear(path)
	tree.path = path[:0]
}

func (tree *orderedTree[K, V]) Insert(key K, item V) bool {
	path := tree.path[:0]
	for x := tree.root; x != nil; {
		tree.policy.descend(x)
		res := tree.cmp(key, x.key)
		if /* equal */ res == 0 {
			x.item = item
			path = append(path, step[K, V]{node: x, dir: Root})
			tree.policy.afterInsert(tree, path, false)
			tree.releasePath(path)
			return false
		} else /* less */ if res < 0 {
			path = append(path, step[K, V]{node: x, dir: Left})
			x = x.left
		} else /* greater */ {
			path = append(path, step[K, V]{node: x, dir: Right})
			x = x.right
		}
	}

	z := &node[K, V]{
		key:    key,
		item:   item,
		height: 1,
		color:  Red,
	}
	path = append(path, step[K, V]{node: z, dir: Root})
	tree.setChild(path, len(path)-1, z)
	tree.pushFront(z)
	tree.count++
	tree.version++
	tree.policy.afterInsert(tree, path, true)
	tree.releasePath(path)
	return true
}

// insertPlain links a fresh node the plain BST way, nothing is rebalanced.
func (tree *orderedTree[K, V]) insertPlain(key K, item V, color RBColor) bool {
	var parent *node[K, V]
	dir := Root
	for x := tree.root; x != nil; {
		res := tree.cmp(key, x.key)
		if res == 0 {
			x.item = item
			return false
		}
		parent = x
		if res < 0 {
			x, dir = x.left, Left
		} else {
			x, dir = x.right, Right
		}
	}
	z := &node[K, V]{
		key:    key,
		item:   item,
		height: 1,
		color:  color,
	}
	switch dir {
	case Root:
		tree.root = z
	case Left:
		parent.left = z
	case Right:
		parent.right = z
	}
	tree.pushFront(z)
	tree.count++
	tree.version++
	return true
}

func (tree *orderedTree[K, V]) search(key K) *node[K, V] {
	for x := tree.root; x != nil; {
		res := tree.cmp(key, x.key)
		if res == 0 {
			return x
		} else if res < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	return nil
}

func (tree *orderedTree[K, V]) Search(key K) (V, bool) {
	if x := tree.search(key); x != nil {
		return x.item, true
	}
	var zero V
	return zero, false
}

func (tree *orderedTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *orderedTree[K, V]) Remove(key K) bool {
	_, ok := tree.Pop(key)
	return ok
}

func (tree *orderedTree[K, V]) Pop(key K) (V, bool) {
	var zero V
	path := tree.path[:0]
	x := tree.root
	for x != nil {
		res := tree.cmp(key, x.key)
		if res == 0 {
			break
		} else if res < 0 {
			path = append(path, step[K, V]{node: x, dir: Left})
			x = x.left
		} else {
			path = append(path, step[K, V]{node: x, dir: Right})
			x = x.right
		}
	}
	if x == nil {
		tree.releasePath(path)
		return zero, false
	}

	path = append(path, step[K, V]{node: x, dir: Root})
	if x.left != nil && x.right != nil {
		path = tree.policy.percolate(tree, path)
	}
	if z := path[len(path)-1].node; z != x || (z.left != nil && z.right != nil) {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] percolation left the node with two children")
	}

	child := x.left
	if child == nil {
		child = x.right
	}
	tree.setChild(path, len(path)-1, child)
	x.left, x.right = nil, nil
	tree.unlink(x)
	tree.count--
	tree.version++
	tree.policy.afterRemove(tree, path[:len(path)-1], x, child)
	tree.releasePath(path)
	return x.item, true
}

// percolateRotate alternates left and right rotations on the node until it
// has at most one child. The rotation side flips on each level.
func (tree *orderedTree[K, V]) percolateRotate(path []step[K, V]) []step[K, V] {
	i := len(path) - 1
	x := path[i].node
	for leftRotate := true; x.left != nil && x.right != nil; leftRotate = !leftRotate {
		var sub *node[K, V]
		dir := Right
		if leftRotate {
			sub, dir = rotateLeft(x), Left
		} else {
			sub = rotateRight(x)
		}
		tree.setChild(path, i, sub)
		path[i] = step[K, V]{node: sub, dir: dir}
		path = append(path, step[K, V]{node: x, dir: Root})
		i++
	}
	return path
}

// percolateSwap exchanges the node's position with its in-order predecessor
// (or successor) so that it ends up with at most one child. Only links,
// colors and heights move, every key stays in its own node.
func (tree *orderedTree[K, V]) percolateSwap(path []step[K, V]) []step[K, V] {
	zi := len(path) - 1
	z := path[zi].node
	if tree.isRmBorrowSucc {
		path[zi].dir = Right
		for y := z.right; y != nil; y = y.left {
			path = append(path, step[K, V]{node: y, dir: Left})
		}
	} else {
		path[zi].dir = Left
		for y := z.left; y != nil; y = y.right {
			path = append(path, step[K, V]{node: y, dir: Right})
		}
	}
	yi := len(path) - 1
	y := path[yi].node
	path[yi].dir = Root

	zl, zr, yl, yr := z.left, z.right, y.left, y.right
	if yi == zi+1 {
		if path[zi].dir == Left {
			y.left, y.right = z, zr
		} else {
			y.left, y.right = zl, z
		}
	} else {
		y.left, y.right = zl, zr
		tree.setChild(path, yi, z)
	}
	z.left, z.right = yl, yr
	tree.setChild(path, zi, y)
	z.color, y.color = y.color, z.color
	z.height, y.height = y.height, z.height
	path[zi].node = y
	path[yi].node = z
	return path
}

func (tree *orderedTree[K, V]) Min() (K, V, bool) {
	if x := tree.root.minimum(); x != nil {
		return x.key, x.item, true
	}
	var (
		k K
		v V
	)
	return k, v, false
}

func (tree *orderedTree[K, V]) Max() (K, V, bool) {
	if x := tree.root.maximum(); x != nil {
		return x.key, x.item, true
	}
	var (
		k K
		v V
	)
	return k, v, false
}

func (tree *orderedTree[K, V]) Clear() {
	tree.root = nil
	tree.head = nil
	tree.count = 0
	tree.isSorted = true
	tree.version++
}

func (tree *orderedTree[K, V]) Release(fn func(key K, item V)) {
	if fn != nil {
		tree.inorder(func(x *node[K, V]) bool {
			fn(x.key, x.item)
			return true
		})
	}
	tree.Clear()
}

// Inorder traversal to implement the DFS.
func (tree *orderedTree[K, V]) inorder(action func(x *node[K, V]) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*node[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if !action(aux) {
			return
		}
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// Preorder traversal, parents before children.
func (tree *orderedTree[K, V]) preorder(action func(x *node[K, V])) {
	if tree.root == nil {
		return
	}
	stack := make([]*node[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, tree.root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		action(aux)
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
}

func (tree *orderedTree[K, V]) DepthStats() (int64, int) {
	if tree.root == nil {
		return 0, 0
	}
	type levelNode struct {
		n     *node[K, V]
		level int
	}
	maxDepth := 0
	stack := []levelNode{{n: tree.root}}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if aux.level > maxDepth {
			maxDepth = aux.level
		}
		if aux.n.left != nil {
			stack = append(stack, levelNode{n: aux.n.left, level: aux.level + 1})
		}
		if aux.n.right != nil {
			stack = append(stack, levelNode{n: aux.n.right, level: aux.level + 1})
		}
	}
	return tree.count, maxDepth
}

// plainBalancer keeps the base binary search tree behavior.
type plainBalancer[K any, V any] struct{}

func (plainBalancer[K, V]) kind() Kind                                           { return KindBST }
func (plainBalancer[K, V]) descend(*node[K, V])                                  {}
func (plainBalancer[K, V]) afterInsert(*orderedTree[K, V], []step[K, V], bool)   {}
func (plainBalancer[K, V]) afterRemove(*orderedTree[K, V], []step[K, V], *node[K, V], *node[K, V]) {
}

func (plainBalancer[K, V]) percolate(tree *orderedTree[K, V], path []step[K, V]) []step[K, V] {
	return tree.percolateRotate(path)
}
