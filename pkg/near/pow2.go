package near

import "math"

// Integer is the set of integer types IsPowerOfTwo accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IsPowerOfTwo reports whether v is a positive integral power of two.
// Zero and negative values are not powers of two.
func IsPowerOfTwo[T Integer](v T) bool {
	return v > 0 && v&(v-1) == 0
}

// IsPowerOfTwoFloat reports whether the magnitude of v is an exact power of
// two (2^k for any integer k, so 0.25, 0.5, 1, 2, 1024 all qualify). Only the
// exponent and significand are examined; the sign is ignored. Zero,
// infinities and NaN are not powers of two.
func IsPowerOfTwoFloat[T Float](v T) bool {
	frac, _ := math.Frexp(float64(v))
	return frac == 0.5 || frac == -0.5
}
