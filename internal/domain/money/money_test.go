package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already two places", "12.34", "12.34"},
		{"half rounds up", "0.125", "0.13"},
		{"below half rounds down", "0.124", "0.12"},
		{"integer unchanged", "100", "100"},
		{"long intermediate precision", "22.4999", "22.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestClampNonNegative(t *testing.T) {
	assert.True(t, ClampNonNegative(decimal.RequireFromString("-5")).IsZero())
	assert.True(t, ClampNonNegative(Zero).IsZero())

	positive := decimal.RequireFromString("3.50")
	assert.True(t, ClampNonNegative(positive).Equal(positive))
}
