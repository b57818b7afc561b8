package tree

import (
	"fmt"
	"strconv"

	"github.com/emicklei/dot"
)

// RenderDot renders the tree structure as a Graphviz digraph.
// Red-black nodes carry their color and AVL nodes their height.
func RenderDot[K any, V any](tree Tree[K, V]) (string, error) {
	graph := dot.NewGraph(dot.Directed)
	root := tree.Root()
	if root == nil {
		return graph.String(), nil
	}

	type frame struct {
		n         Node[K, V]
		parent    *dot.Node
		direction string
	}
	stack := []frame{{n: root}}
	for id := 0; len(stack) > 0; id++ {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key, err := itemString(f.n.Key())
		if err != nil {
			return "", err
		}
		item, err := itemString(f.n.Item())
		if err != nil {
			return "", err
		}
		label := fmt.Sprintf("K:%s V:%s", key, item)
		switch tree.Kind() {
		case KindAVL:
			label += fmt.Sprintf(" H:%d", f.n.Height())
		default:
		}

		n := graph.Node("n" + strconv.Itoa(id)).Label(label)
		if tree.Kind() == KindRB {
			if f.n.Color() == Red {
				n.Attr("color", "red")
			} else {
				n.Attr("color", "black")
			}
		}
		if f.parent != nil {
			f.parent.Edge(n, f.direction)
		}
		if r := f.n.Right(); r != nil {
			stack = append(stack, frame{n: r, parent: &n, direction: "r"})
		}
		if l := f.n.Left(); l != nil {
			stack = append(stack, frame{n: l, parent: &n, direction: "l"})
		}
	}
	return graph.String(), nil
}
