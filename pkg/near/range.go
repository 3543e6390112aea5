package near

// Range membership under tolerance, one In/OutOf pair per bound kind:
//
//	half-open  [lo, hi)
//	closed     [lo, hi]
//	from       [lo, +inf)
//	up-to      (-inf, hi)
//	through    (-inf, hi]
//
// Each predicate composes directly from the scalar comparators, so the
// tolerance is always derived from v.

// InHalfOpen reports whether v lies in [lo, hi) under tolerance.
func InHalfOpen[T Float](v, lo, hi T) bool {
	return GreaterOrEqual(v, lo) && Less(v, hi)
}

// OutOfHalfOpen reports whether v lies outside [lo, hi) under tolerance.
func OutOfHalfOpen[T Float](v, lo, hi T) bool {
	return Less(v, lo) || GreaterOrEqual(v, hi)
}

// InClosed reports whether v lies in [lo, hi] under tolerance.
func InClosed[T Float](v, lo, hi T) bool {
	return GreaterOrEqual(v, lo) && LessOrEqual(v, hi)
}

// OutOfClosed reports whether v lies strictly outside [lo, hi].
//
// This is deliberately not the negation of InClosed: both compose from
// strict bounds, so a value within Tolerance(v) of lo or hi can be neither
// loosely in nor strictly out. Callers that need a decision inside the
// boundary band should test In, not !Out.
func OutOfClosed[T Float](v, lo, hi T) bool {
	return Less(v, lo) || Greater(v, hi)
}

// InFrom reports whether v lies in [lo, +inf) under tolerance.
func InFrom[T Float](v, lo T) bool {
	return GreaterOrEqual(v, lo)
}

// OutOfFrom reports whether v lies outside [lo, +inf) under tolerance.
func OutOfFrom[T Float](v, lo T) bool {
	return Less(v, lo)
}

// InUpTo reports whether v lies in (-inf, hi) under tolerance.
func InUpTo[T Float](v, hi T) bool {
	return Less(v, hi)
}

// OutOfUpTo reports whether v lies outside (-inf, hi) under tolerance.
func OutOfUpTo[T Float](v, hi T) bool {
	return GreaterOrEqual(v, hi)
}

// InThrough reports whether v lies in (-inf, hi] under tolerance.
func InThrough[T Float](v, hi T) bool {
	return LessOrEqual(v, hi)
}

// OutOfThrough reports whether v lies outside (-inf, hi] under tolerance.
func OutOfThrough[T Float](v, hi T) bool {
	return Greater(v, hi)
}
