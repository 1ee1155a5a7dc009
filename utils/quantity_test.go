package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceDays(t *testing.T) {
	tests := map[string]int{
		"5":      5,
		" 7 ":    7,
		"3.9":    3,
		"12days": 12,
		"+4":     4,
		"0":      1,
		"-3":     1,
		"":       1,
		"abc":    1,
		"40000":  maxRentalDays,
	}
	for in, want := range tests {
		assert.Equal(t, want, CoerceDays(in), "input %q", in)
	}
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, 1, ClampDays(-10))
	assert.Equal(t, 1, ClampDays(0))
	assert.Equal(t, 9, ClampDays(9))
}
