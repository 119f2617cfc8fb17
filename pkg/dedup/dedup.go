// Package dedup detects near-duplicate artist names.
//
// Names are normalized (casefolded, punctuation stripped, whitespace
// collapsed) before measuring Levenshtein distance, so that
// "The Mô-Town Sessions" and "the motown sessions" count as the same name.
package dedup

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the similarity at which two names are considered
// the same artist.
const DefaultThreshold = 0.82

// Normalize maps a name to its comparison form: casefolded, with
// `.,'"-` and backquotes removed and runs of whitespace collapsed
// to single spaces.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case strings.ContainsRune(".,'\"-`’", r):
			continue
		}
		if space && b.Len() != 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Similarity returns a ratio in [0, 1]:
// 1 - levenshtein distance / length of the longer normalized name.
//
// Two empty names are identical (1). An empty name never matches
// a non-empty one (0).
func Similarity(a string, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	longer := len([]rune(na))
	if l := len([]rune(nb)); longer < l {
		longer = l
	}
	if longer == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longer)
}

// Similar answeres whether two names are similar enough
// to be considered the same artist.
func Similar(a string, b string) bool {
	return DefaultThreshold <= Similarity(a, b)
}
