package utils

import "golang.org/x/exp/constraints"

// Clamp limits value to the closed range [min, max].
func Clamp[T constraints.Integer | constraints.Float](min, value, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ZeroAdjust8 substitutes 1 for 0. Most bank controllers cannot map
// bank 0 into the switchable window.
func ZeroAdjust8(v uint8) uint8 {
	if v == 0 {
		return 1
	}
	return v
}
