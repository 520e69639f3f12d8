package util

import (
	"golang.org/x/exp/constraints"
)

// Coerce returns a value that is at least min and at most max, otherwise value
func Coerce[T constraints.Integer | constraints.Float](value T, min T, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// SaturateUint8 converts the given (already rounded) value to an uint8,
// saturating at the bounds of the type. NaN maps to 0.
func SaturateUint8(value float64) uint8 {
	if value != value || value <= 0 {
		return 0
	}
	if value >= 255 {
		return 255
	}
	return uint8(value)
}
