package near

// zeroTolerance returns the fixed threshold shared by the zero and sign
// predicates: 16 unit roundoffs. Unlike Tolerance it does not scale, because
// there is no meaningful magnitude of zero to scale against.
func zeroTolerance[T Float]() T {
	return 16 * unitRoundoff[T]()
}

// IsZero reports whether |v| falls below the fixed zero threshold.
func IsZero[T Float](v T) bool {
	z := zeroTolerance[T]()
	return v < z && v > -z
}

// IsNonzero reports whether v lies outside the zero threshold. Evaluated
// directly rather than via IsZero; NaN reports true.
func IsNonzero[T Float](v T) bool {
	z := zeroTolerance[T]()
	return !(v < z && v > -z)
}

// IsPositive reports whether v clears the zero threshold upward.
func IsPositive[T Float](v T) bool {
	return v >= zeroTolerance[T]()
}

// IsNegative reports whether v clears the zero threshold downward.
func IsNegative[T Float](v T) bool {
	return v <= -zeroTolerance[T]()
}

// IsNotPositive reports whether v does not clear the zero threshold upward.
func IsNotPositive[T Float](v T) bool {
	return v < zeroTolerance[T]()
}

// IsNotNegative reports whether v does not clear the zero threshold downward.
func IsNotNegative[T Float](v T) bool {
	return v > -zeroTolerance[T]()
}

// IsZeroAlsoPositive reports whether v is zero within threshold and whether
// it is strictly positive, from one threshold evaluation. The results are
// mutually exclusive.
func IsZeroAlsoPositive[T Float](v T) (isZero, isPositive bool) {
	z := zeroTolerance[T]()
	isPositive = v >= z
	isZero = !isPositive && v > -z
	return isZero, isPositive
}

// IsNonzeroAlsoPositive is the dual of IsZeroAlsoPositive for call sites
// whose dominant branch is the nonzero case. isNonzero matches IsNonzero.
func IsNonzeroAlsoPositive[T Float](v T) (isNonzero, isPositive bool) {
	z := zeroTolerance[T]()
	isPositive = v >= z
	isNonzero = isPositive || !(v > -z)
	return isNonzero, isPositive
}

// IsPositiveAlsoNegative reports both sign directions from one threshold
// evaluation. Mutually exclusive; both false inside the zero band.
func IsPositiveAlsoNegative[T Float](v T) (isPositive, isNegative bool) {
	z := zeroTolerance[T]()
	isPositive = v >= z
	isNegative = v <= -z
	return isPositive, isNegative
}

// IsNegativeAlsoPositive is IsPositiveAlsoNegative with the results swapped.
func IsNegativeAlsoPositive[T Float](v T) (isNegative, isPositive bool) {
	z := zeroTolerance[T]()
	isNegative = v <= -z
	isPositive = v >= z
	return isNegative, isPositive
}
