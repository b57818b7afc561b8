package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator is the three-way key comparison driving every ordered container.
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return positive), turn to right part.
//  3. i < j (return negative), turn to left part.
//
// It must be a pure total order (antisymmetric and transitive). A comparator
// breaking this contract leaves the container in an undefined state.
type Comparator[K any] func(i, j K) int64

// OrderedKeyComparator is kept for the built-in ordered types.
type OrderedKeyComparator[K OrderedKey] Comparator[K]

// OrderedComparator returns the ascending comparator of the built-in ordered types.
func OrderedComparator[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// Reverse flips the order of cmp.
func Reverse[K any](cmp Comparator[K]) Comparator[K] {
	return func(i, j K) int64 {
		return cmp(j, i)
	}
}
