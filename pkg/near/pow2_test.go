package near

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		name     string
		v        int
		expected bool
	}{
		{name: "one", v: 1, expected: true},
		{name: "two", v: 2, expected: true},
		{name: "four", v: 4, expected: true},
		{name: "1024", v: 1024, expected: true},
		{name: "zero", v: 0, expected: false},
		{name: "three", v: 3, expected: false},
		{name: "negative power magnitude", v: -4, expected: false},
		{name: "large non-power", v: 1023, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPowerOfTwo(tt.v))
		})
	}

	// Unsigned and sized types resolve through the same constraint.
	assert.True(t, IsPowerOfTwo(uint8(128)))
	assert.True(t, IsPowerOfTwo(int64(1)<<40))
	assert.False(t, IsPowerOfTwo(uint16(0)))
}

func TestIsPowerOfTwoFloat(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected bool
	}{
		{name: "one", v: 1, expected: true},
		{name: "two", v: 2, expected: true},
		{name: "half", v: 0.5, expected: true},
		{name: "quarter", v: 0.25, expected: true},
		{name: "1024", v: 1024, expected: true},
		{name: "negative power, magnitude only", v: -4, expected: true},
		{name: "zero", v: 0, expected: false},
		{name: "three", v: 3, expected: false},
		{name: "positive infinity", v: math.Inf(1), expected: false},
		{name: "nan", v: math.NaN(), expected: false},
		{name: "subnormal power", v: 0x1p-1040, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPowerOfTwoFloat(tt.v))
		})
	}

	assert.True(t, IsPowerOfTwoFloat(float32(0.5)))
	assert.False(t, IsPowerOfTwoFloat(float32(0.3)))
}
