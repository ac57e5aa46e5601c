package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Blue Lagoon", "Blue Lagoon"))
	assert.Equal(t, 1.0, Similarity("  Blue Lagoon ", "blue lagoon"))
	assert.Equal(t, 1.0, Similarity("Café Río", "Cafe Rio"))
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "x"))
	assert.Equal(t, 0.0, Similarity("x", ""))
	assert.Equal(t, 0.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("   ", "x"))
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Grand Hotel", "Grant Hotel"},
		{"Sunset Park", "Sunrise Park"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-9, "%q vs %q", p[0], p[1])
	}
}

func TestSimilarityRange(t *testing.T) {
	// One edit over 11 characters.
	sim := Similarity("Grand Hotel", "Grant Hotel")
	assert.InDelta(t, 1.0-1.0/11.0, sim, 1e-9)

	// Unrelated strings stay low but within [0,1].
	sim = Similarity("Blue Lagoon", "Waterfall Cafe")
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.Less(t, sim, 0.5)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "blue lagoon", NormalizeName("  Blue   Lagoon  "))
	assert.Equal(t, "cafe rio", NormalizeName("Café Río"))
	assert.Equal(t, "", NormalizeName("   "))
}
