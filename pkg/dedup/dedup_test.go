package dedup_test

import (
	"testing"

	"github.com/tonearm/labeld/pkg/dedup"
)

func TestNormalize(t *testing.T) {
	for name, testcase := range map[string]struct {
		input string
		want  string
	}{
		"lowercases":               {"DJ Shadow", "dj shadow"},
		"strips punctuation":       {"N.A.S.A.", "nasa"},
		"strips apostrophes":       {"D'Angelo", "dangelo"},
		"collapses whitespace":     {"  The   Kooks ", "the kooks"},
		"strips hyphens":           {"Jay-Z", "jayz"},
		"keeps unicode letters":    {"Björk", "björk"},
		"empty stays empty":        {"", ""},
		"punctuation-only is empty": {"...", ""},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := dedup.Normalize(testcase.input); actual != testcase.want {
				t.Errorf("Normalize(%q) = %q, want %q", testcase.input, actual, testcase.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical after normalization is 1", func(t *testing.T) {
		if actual := dedup.Similarity("The Kooks", "the kooks"); actual != 1 {
			t.Errorf("unexpected similarity: %f", actual)
		}
	})

	t.Run("totally different names are near 0", func(t *testing.T) {
		if actual := dedup.Similarity("Aphex Twin", "Zz"); 0.3 < actual {
			t.Errorf("unexpected similarity: %f", actual)
		}
	})

	t.Run("empty vs non-empty is 0", func(t *testing.T) {
		if actual := dedup.Similarity("", "Aphex Twin"); actual != 0 {
			t.Errorf("unexpected similarity: %f", actual)
		}
	})

	t.Run("both empty is 1", func(t *testing.T) {
		if actual := dedup.Similarity("", ""); actual != 1 {
			t.Errorf("unexpected similarity: %f", actual)
		}
	})

	t.Run("one-letter edit on a long name is similar", func(t *testing.T) {
		if !dedup.Similar("Radiohead", "Radioheed") {
			t.Error("expected similar, but not")
		}
	})

	t.Run("different short names are not similar", func(t *testing.T) {
		if dedup.Similar("Low", "Lorde") {
			t.Error("expected not similar, but similar")
		}
	})
}
