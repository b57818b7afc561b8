package tree_test

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

func ExampleNewRBTree() {
	rb := tree.NewRBTree[int, string](infra.OrderedComparator[int]())
	for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
		rb.Insert(k, fmt.Sprintf("item-%d", k))
	}
	item, _ := rb.Search(4)
	fmt.Println(item, rb.Contains(6))

	str, _ := rb.Render()
	fmt.Println(str)

	first, _ := rb.At(0)
	last, _ := rb.At(-1)
	third, _ := rb.At(2)
	fmt.Println(first, last, third)
	// Output:
	// item-4 false
	// [item-1, item-3, item-4, item-5, item-7, item-8, item-9]
	// item-1 item-9 item-4
}

func ExampleIterator() {
	avl := tree.NewAVLTree[int, int](infra.OrderedComparator[int]())
	for _, k := range []int{2, 3, 1} {
		tree.Add(avl, k)
	}
	for _, sorted := range []bool{false, true} {
		keys := make([]int, 0, avl.Len())
		for it := avl.Iterator(sorted); it.HasNext(); {
			k, _, _ := it.Next()
			keys = append(keys, k)
		}
		fmt.Println(keys)
	}
	// Output:
	// [1 3 2]
	// [1 2 3]
}

func ExampleSet_Union() {
	a := tree.NewOrderedSet[int](1, 2, 3)
	b := tree.NewOrderedSet[int](3, 4, 5)

	union, _ := a.Union(b)
	intersection, _ := a.Intersection(b)
	difference, _ := a.Difference(b)
	fmt.Println(union.Items(), intersection.Items(), difference.Items())
	// Output:
	// [1 2 3 4 5] [3] [1 2]
}
