// Package bits provides small helpers for working with individual
// bits of unsigned integers.
package bits

import "golang.org/x/exp/constraints"

// Test tests the bit at the given index.
func Test[T constraints.Unsigned](b T, i uint8) bool {
	return (b>>i)&1 != 0
}
