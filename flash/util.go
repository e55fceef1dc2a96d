package flash

import (
	"golang.org/x/exp/constraints"
)

// min will return the minimum of the two values
func min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// divCeil will return a/b rounded up
func divCeil[T constraints.Unsigned](a, b T) T {
	return (a + b - 1) / b
}

// alignUp will round v up to the next multiple of a
func alignUp[T constraints.Unsigned](v, a T) T {
	return divCeil(v, a) * a
}
