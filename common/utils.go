package common

import "math/rand/v2"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// RandRange returns a uniformly distributed value in [lo, hi).
//
// Parameters:
//   - r: the random source
//   - lo: inclusive lower bound
//   - hi: exclusive upper bound
//
// Returns:
//   - float32: the random value
func RandRange(r *rand.Rand, lo, hi float32) float32 {
	return lo + r.Float32()*(hi-lo)
}
