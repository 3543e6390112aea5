// Package near implements scale-relative tolerance comparison for IEEE-754
// floating-point values.
//
// Exact comparison of floats is almost never what callers want: rounding
// noise accumulates with magnitude, so a threshold that works at 1.0 is
// useless at 1e12 and overly loose at 1e-12. Every predicate in this package
// derives its tolerance from the magnitude of the left operand, clamped so it
// never collapses to zero, and the combined variants (EqualAlsoGreater and
// friends) report two facts from a single tolerance evaluation.
//
// All functions are pure and total: NaN and infinity operands flow through
// the underlying IEEE comparisons without special-casing, so Equal, Greater
// and Less all report false for NaN while NotEqual reports true.
package near

// Float is the set of floating-point types the comparators accept.
type Float interface {
	~float32 | ~float64
}

// unitRoundoff returns the smallest positive value u such that 1+u is
// representable as distinct from 1 in T (machine epsilon).
//
// Typed float arithmetic is never widened in Go, so the probe addition is
// exact and cleanly distinguishes 32-bit from 64-bit types,
// including named types, without reflection.
func unitRoundoff[T Float]() T {
	if T(1)+T(0x1p-52) > T(1) {
		return T(0x1p-52)
	}
	return T(0x1p-23)
}

// maxFinite returns the largest finite value representable in T.
func maxFinite[T Float]() T {
	if T(1)+T(0x1p-52) > T(1) {
		// math.MaxFloat64, spelled out because the constant cannot be
		// converted to a type parameter whose set includes float32.
		m := 0x1.fffffffffffffp1023
		return T(m)
	}
	return T(0x1.fffffep127)
}

// Tolerance returns the comparison tolerance for v: the unit roundoff scaled
// by |16v|, clamped to [unitRoundoff, maxFinite]. The result is strictly
// positive for every finite v and grows proportionally with the magnitude of
// v once |v| exceeds unitRoundoff/16.
func Tolerance[T Float](v T) T {
	u := unitRoundoff[T]()
	m := 16 * v
	if m < 0 {
		m = -m
	}
	if m < u {
		m = u
	} else if mf := maxFinite[T](); m > mf {
		m = mf
	}
	return u * m
}

// Equal reports whether lhs and rhs are equal within Tolerance(lhs).
//
// The tolerance is derived from the left operand only, so Equal(a, b) and
// Equal(b, a) can disagree when the magnitudes differ; callers needing
// symmetry must pick a canonical operand order.
func Equal[T Float](lhs, rhs T) bool {
	eps := Tolerance(lhs)
	return lhs < rhs+eps && lhs > rhs-eps
}

// NotEqual reports whether lhs and rhs differ by more than Tolerance(lhs).
// It evaluates the tolerance once instead of delegating to Equal, and unlike
// the strict-order predicates it reports true for NaN operands.
func NotEqual[T Float](lhs, rhs T) bool {
	eps := Tolerance(lhs)
	return !(lhs < rhs+eps && lhs > rhs-eps)
}

// Greater reports whether lhs exceeds rhs by at least Tolerance(lhs).
func Greater[T Float](lhs, rhs T) bool {
	return lhs >= rhs+Tolerance(lhs)
}

// Less reports whether lhs falls below rhs by at least Tolerance(lhs).
func Less[T Float](lhs, rhs T) bool {
	return lhs <= rhs-Tolerance(lhs)
}

// GreaterOrEqual reports whether lhs is not strictly less than rhs under
// tolerance, i.e. lhs > rhs - Tolerance(lhs).
func GreaterOrEqual[T Float](lhs, rhs T) bool {
	return lhs > rhs-Tolerance(lhs)
}

// LessOrEqual reports whether lhs is not strictly greater than rhs under
// tolerance, i.e. lhs < rhs + Tolerance(lhs).
func LessOrEqual[T Float](lhs, rhs T) bool {
	return lhs < rhs+Tolerance(lhs)
}
