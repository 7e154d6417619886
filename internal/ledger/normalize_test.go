package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNumber(t *testing.T) {
	str := " 12 "
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"letters", "abc", 0},
		{"thousands", "1,234.50", 1234.5},
		{"padded", "  42 ", 42},
		{"negative", "-3.25", -3.25},
		{"commas only", ",,,", 0},
		{"infinity text", "Infinity", 0},
		{"nan text", "NaN", 0},
		{"overflow", "1e400", 0},
		{"exponent", "1.5e2", 150},
		{"float", 7.5, 7.5},
		{"int", 3, 3},
		{"nan float", math.NaN(), 0},
		{"inf float", math.Inf(1), 0},
		{"string pointer", &str, 12},
		{"nil string pointer", (*string)(nil), 0},
		{"byte slice", []byte("x"), 0},
		{"hex float", "0x1p4", 0},
		{"signed hex", "-0X10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNumber(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "result must be finite")
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "0", formatNumber(math.Copysign(0, -1)))
	assert.Equal(t, "1234.5", formatNumber(1234.5))
	assert.Equal(t, "0.7", formatNumber(0.7))
	assert.Equal(t, "-12.34", formatNumber(-12.34))
	assert.Equal(t, "100000000000000000000000", formatNumber(1e23))
}
