package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"abc", "", 0},
		{"abc", "abc", 1.0},
		{"kitten", "sitting", 8.0 / 13.0},
		{"abcd", "bcde", 0.75},
		{"protein folding", "protien foldnig", 26.0 / 30.0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_CountsCharactersNotBytes(t *testing.T) {
	// Each accented letter is one element on both sides.
	assert.InDelta(t, 1.0, Ratio("schrödinger", "schrödinger"), 1e-9)
	assert.InDelta(t, 2.0*10/22, Ratio("schrödinger", "schrodinger"), 1e-9)
}

func TestSimilarity_AtLeast(t *testing.T) {
	sim := newSimilarity("quantom mechanicss")

	ratio, ok := sim.atLeast("quantum mechanics", fuzzyCutoff)
	assert.True(t, ok)
	assert.InDelta(t, Ratio("quantum mechanics", "quantom mechanicss"), ratio, 1e-9)

	_, ok = sim.atLeast("zzz", fuzzyCutoff)
	assert.False(t, ok)

	// The matcher is reused; a later candidate must not see the previous one.
	ratio, ok = sim.atLeast("quantom mechanicss", fuzzyCutoff)
	assert.True(t, ok)
	assert.Equal(t, 1.0, ratio)
}
