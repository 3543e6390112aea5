package near

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected bool
	}{
		{name: "exact zero", v: 0.0, expected: true},
		{name: "negative zero", v: math.Copysign(0, -1), expected: true},
		{name: "below fixed threshold", v: 1e-20, expected: true},
		{name: "below threshold negative", v: -1e-20, expected: true},
		{name: "above threshold", v: 1e-3, expected: false},
		{name: "one", v: 1.0, expected: false},
		{name: "negative", v: -1.0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsZero(tt.v))
			assert.Equal(t, !tt.expected, IsNonzero(tt.v))
		})
	}

	// The threshold is fixed at 16 unit roundoffs, not scale-relative.
	z := 16 * 0x1p-52
	assert.True(t, IsZero(z/2))
	assert.False(t, IsZero(z))
}

func TestSignPredicates(t *testing.T) {
	z := 16 * 0x1p-52

	assert.True(t, IsPositive(1.0))
	assert.True(t, IsPositive(z))
	assert.False(t, IsPositive(z/2), "inside the zero band is not positive")
	assert.False(t, IsPositive(-1.0))

	assert.True(t, IsNegative(-1.0))
	assert.False(t, IsNegative(-z/2), "inside the zero band is not negative")
	assert.False(t, IsNegative(0.0))

	assert.True(t, IsNotPositive(-1.0))
	assert.True(t, IsNotPositive(0.0))
	assert.False(t, IsNotPositive(1.0))

	assert.True(t, IsNotNegative(1.0))
	assert.True(t, IsNotNegative(0.0))
	assert.False(t, IsNotNegative(-1.0))
}

func TestZeroCombined_MatchScalarPredicates(t *testing.T) {
	samples := []float64{
		-1e300, -1.0, -1e-3, -1e-20, -0.0, 0.0, 1e-20, 1e-3, 1.0, 1e300,
		16 * 0x1p-52, -16 * 0x1p-52, 8 * 0x1p-52,
	}

	for _, v := range samples {
		isZero, isPositive := IsZeroAlsoPositive(v)
		assert.False(t, isZero && isPositive, "mutually exclusive for %g", v)
		assert.Equal(t, IsZero(v), isZero, "%g", v)
		assert.Equal(t, IsPositive(v), isPositive, "%g", v)

		isNonzero, isPositive2 := IsNonzeroAlsoPositive(v)
		assert.Equal(t, IsNonzero(v), isNonzero, "%g", v)
		assert.Equal(t, IsPositive(v), isPositive2, "%g", v)

		isPositive3, isNegative := IsPositiveAlsoNegative(v)
		assert.False(t, isPositive3 && isNegative, "mutually exclusive for %g", v)
		assert.Equal(t, IsNegative(v), isNegative, "%g", v)

		isNegative2, isPositive4 := IsNegativeAlsoPositive(v)
		assert.Equal(t, isNegative, isNegative2)
		assert.Equal(t, isPositive3, isPositive4)
	}
}

func TestZero_NaN(t *testing.T) {
	nan := math.NaN()

	assert.False(t, IsZero(nan))
	assert.True(t, IsNonzero(nan))
	assert.False(t, IsPositive(nan))
	assert.False(t, IsNegative(nan))
}

func TestZero_Float32(t *testing.T) {
	// The 32-bit threshold is 16*2^-23.
	z := float32(16 * 0x1p-23)
	assert.True(t, IsZero(z/2))
	assert.False(t, IsZero(z))
	assert.True(t, IsPositive(z))
}
