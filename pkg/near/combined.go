package near

// The combined predicates answer two ordering questions from one tolerance
// evaluation. They exist for callers whose dominant branch is one of the two
// answers but must still detect the other in the fallthrough case, e.g. an
// equality check that degrades into a binary-search step.

// EqualAlsoGreater reports whether lhs equals rhs within Tolerance(lhs) and
// whether lhs is strictly greater, independently. The two results are
// mutually exclusive.
func EqualAlsoGreater[T Float](lhs, rhs T) (isEqual, isGreater bool) {
	eps := Tolerance(lhs)
	isGreater = lhs >= rhs+eps
	isEqual = !isGreater && lhs > rhs-eps
	return isEqual, isGreater
}

// NotEqualAlsoGreater is the dual of EqualAlsoGreater for code whose dominant
// branch is inequality, such as an early-exit guard. isNotEqual matches
// NotEqual (true for NaN operands); isGreater matches Greater.
func NotEqualAlsoGreater[T Float](lhs, rhs T) (isNotEqual, isGreater bool) {
	eps := Tolerance(lhs)
	isGreater = lhs >= rhs+eps
	isNotEqual = isGreater || !(lhs > rhs-eps)
	return isNotEqual, isGreater
}

// GreaterAlsoLess reports both strict-order directions from one tolerance
// evaluation. The results are mutually exclusive by construction: the band of
// width 2*Tolerance(lhs) between them is the equality band.
func GreaterAlsoLess[T Float](lhs, rhs T) (isGreater, isLess bool) {
	eps := Tolerance(lhs)
	isGreater = lhs >= rhs+eps
	isLess = lhs <= rhs-eps
	return isGreater, isLess
}

// LessAlsoGreater is GreaterAlsoLess with the results swapped, for call sites
// whose dominant branch is the less-than case.
func LessAlsoGreater[T Float](lhs, rhs T) (isLess, isGreater bool) {
	eps := Tolerance(lhs)
	isLess = lhs <= rhs-eps
	isGreater = lhs >= rhs+eps
	return isLess, isGreater
}
