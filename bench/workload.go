package bench

import (
	randv2 "math/rand/v2"
	"strconv"

	"github.com/benz9527/xtree/lib/hrtime"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// Op is a timed container operation.
type Op string

const (
	OpInsert   Op = "insert"
	OpSearch   Op = "search"
	OpRemove   Op = "remove"
	OpSort     Op = "sort"
	OpGetItem  Op = "getitem"
	OpIterator Op = "iterator"
)

func AllOps() []Op {
	return []Op{OpInsert, OpSearch, OpRemove, OpSort, OpGetItem, OpIterator}
}

func (op Op) valid() bool {
	switch op {
	case OpInsert, OpSearch, OpRemove, OpSort, OpGetItem, OpIterator:
		return true
	default:
	}
	return false
}

func ParseKind(name string) (tree.Kind, error) {
	for _, k := range []tree.Kind{tree.KindBST, tree.KindAVL, tree.KindRB, tree.KindSplay} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, infra.NewErrorStack("[bench] unknown tree kind: " + name)
}

func newContainer(kind tree.Kind) tree.Tree[int, int] {
	cmp := infra.OrderedComparator[int]()
	switch kind {
	case tree.KindBST:
		return tree.NewBST[int, int](cmp)
	case tree.KindAVL:
		return tree.NewAVLTree[int, int](cmp)
	case tree.KindSplay:
		return tree.NewSplayTree[int, int](cmp)
	default:
	}
	return tree.NewRBTree[int, int](cmp)
}

// lookup splays on the way like the splay tree benchmark does.
func lookup(c tree.Tree[int, int], key int) bool {
	if st, ok := c.(tree.SplayTree[int, int]); ok {
		_, found := st.Access(key)
		return found
	}
	return c.Contains(key)
}

func genKeys(n int, shuffle bool) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	if shuffle {
		randv2.Shuffle(n, func(i, j int) {
			keys[i], keys[j] = keys[j], keys[i]
		})
	}
	return keys
}

func fill(c tree.Tree[int, int], keys []int) error {
	for _, k := range keys {
		if !c.Insert(k, k) {
			return infra.NewErrorStack("[bench] duplicate insert: " + strconv.Itoa(k))
		}
	}
	return nil
}

// trial runs the timed part of one op over a prepared container.
type trial struct {
	// prepare builds the container of every trial, nil reuses the shared one.
	prepare func(keys []int) (tree.Tree[int, int], error)
	timed   func(c tree.Tree[int, int], keys []int) error
}

func fresh(kind tree.Kind) func(keys []int) (tree.Tree[int, int], error) {
	return func(keys []int) (tree.Tree[int, int], error) {
		c := newContainer(kind)
		return c, fill(c, keys)
	}
}

func trialOf(kind tree.Kind, op Op) trial {
	switch op {
	case OpInsert:
		return trial{
			prepare: func([]int) (tree.Tree[int, int], error) {
				return newContainer(kind), nil
			},
			timed: fill,
		}
	case OpSearch:
		return trial{
			timed: func(c tree.Tree[int, int], keys []int) error {
				for _, k := range keys {
					if !lookup(c, k) {
						return infra.NewErrorStack("[bench] value not found: " + strconv.Itoa(k))
					}
				}
				return nil
			},
		}
	case OpRemove:
		return trial{
			prepare: fresh(kind),
			timed: func(c tree.Tree[int, int], keys []int) error {
				for _, k := range keys {
					if !c.Remove(k) {
						return infra.NewErrorStack("[bench] key not in structure: " + strconv.Itoa(k))
					}
				}
				return nil
			},
		}
	case OpSort:
		return trial{
			prepare: fresh(kind),
			timed: func(c tree.Tree[int, int], _ []int) error {
				c.Sort()
				return nil
			},
		}
	case OpGetItem:
		return trial{
			timed: func(c tree.Tree[int, int], keys []int) error {
				for i := 1; i < len(keys); i *= 2 {
					if _, err := c.At(int64(i)); err != nil {
						return infra.WrapErrorStackWithMessage(err, "[bench] get item "+strconv.Itoa(i))
					}
				}
				return nil
			},
		}
	case OpIterator:
		return trial{
			timed: func(c tree.Tree[int, int], _ []int) error {
				it := c.Iterator(true)
				for it.HasNext() {
					if _, _, err := it.Next(); err != nil {
						return infra.WrapErrorStack(err)
					}
				}
				return nil
			},
		}
	default:
	}
	return trial{
		timed: func(tree.Tree[int, int], []int) error {
			return infra.NewErrorStack("[bench] unknown op: " + string(op))
		},
	}
}

// measure returns the average time of repeat trials over n elements.
func measure(kind tree.Kind, op Op, keys []int, repeat int, sw *hrtime.Stopwatch) error {
	t := trialOf(kind, op)
	sw.Reset()

	var shared tree.Tree[int, int]
	if t.prepare == nil {
		c, err := fresh(kind)(keys)
		if err != nil {
			return err
		}
		if op == OpGetItem {
			c.Sort()
		}
		shared = c
		defer shared.Clear()
	}
	for r := 0; r < repeat; r++ {
		c := shared
		if c == nil {
			var err error
			if c, err = t.prepare(keys); err != nil {
				return err
			}
		}
		sw.Start()
		err := t.timed(c, keys)
		sw.Lap()
		if err != nil {
			return err
		}
		if shared == nil {
			c.Clear()
		}
	}
	return nil
}
