// Package match implements the adjudication core: name similarity and the
// tiered distance/similarity acceptance policy.
package match

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so that accented and transliterated
// spellings of the same name compare as near-identical.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases, trims, strips diacritics, and collapses internal
// whitespace. Similarity is computed over this normalized form.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// Similarity returns a normalized edit-distance similarity in [0,1]:
// 1 − levenshtein(a,b) / max(len(a), len(b)) over the normalized names.
// Identical names return exactly 1; either name empty returns 0.
func Similarity(a, b string) float64 {
	a = NormalizeName(a)
	b = NormalizeName(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	dist := levenshtein.Distance(a, b, nil)
	sim := 1 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}
