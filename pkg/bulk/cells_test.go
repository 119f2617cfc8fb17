package bulk_test

import (
	"testing"
	"time"

	"github.com/tonearm/labeld/pkg/bulk"
	"github.com/tonearm/labeld/pkg/cmp"
	"github.com/tonearm/labeld/pkg/utils/try"
)

func TestCleanCell(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string
		then string
	}{
		"padding is trimmed":             {when: "  DJ Quake  ", then: "DJ Quake"},
		"inner whitespace is collapsed":  {when: "DJ \t Quake", then: "DJ Quake"},
		"dash means empty":               {when: " - ", then: ""},
		"n/a means empty":                {when: "N/A", then: ""},
		"null means empty":               {when: "NULL", then: ""},
		"ordinary value passes through":  {when: "Argentina", then: "Argentina"},
		"dash inside a value is kept":    {when: "Jean-Luc", then: "Jean-Luc"},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := bulk.CleanCell(testcase.when); actual != testcase.then {
				t.Errorf("unmatch: %q (actual) != %q (expected)", actual, testcase.then)
			}
		})
	}
}

func TestSplitAliases(t *testing.T) {
	for name, testcase := range map[string]struct {
		when string
		then []string
	}{
		"semicolon separated": {when: "Quake; The Q", then: []string{"Quake", "The Q"}},
		"pipe separated":      {when: "Quake|The Q", then: []string{"Quake", "The Q"}},
		"empty cell":          {when: "", then: nil},
		"no-value marker":     {when: "n/a", then: nil},
		"single alias":        {when: "Quake", then: []string{"Quake"}},
	} {
		t.Run(name, func(t *testing.T) {
			actual := bulk.SplitAliases(testcase.when)
			if !cmp.SliceEq(actual, testcase.then) {
				t.Errorf("unmatch: %v (actual) != %v (expected)", actual, testcase.then)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	for name, when := range map[string]string{
		"iso layout":      "2024-03-09",
		"slashed layout":  "09/03/2024",
		"spelled layout":  "Mar 9, 2024",
		"padded cell":     "  2024-03-09 ",
	} {
		t.Run(name, func(t *testing.T) {
			actual := try.To(bulk.ParseDate(when)).OrFatal(t)
			if !actual.Equal(expected) {
				t.Errorf("unmatch: %s (actual) != %s (expected)", actual, expected)
			}
		})
	}

	t.Run("unparsable date should fail", func(t *testing.T) {
		if _, err := bulk.ParseDate("sometime soon"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
