package cmp_test

import (
	"testing"

	"github.com/tonearm/labeld/pkg/cmp"
)

func TestSliceEq(t *testing.T) {
	t.Run("equal slices", func(t *testing.T) {
		if !cmp.SliceEq([]string{"a", "b"}, []string{"a", "b"}) {
			t.Error("two slices are not equal, unexpectedly.")
		}
	})
	t.Run("different ordering is not equal", func(t *testing.T) {
		if cmp.SliceEq([]string{"a", "b"}, []string{"b", "a"}) {
			t.Error("two slices are equal, unexpectedly.")
		}
	})
	t.Run("different length is not equal", func(t *testing.T) {
		if cmp.SliceEq([]string{"a"}, []string{"a", "b"}) {
			t.Error("two slices are equal, unexpectedly.")
		}
	})
}

func TestSliceContentEq(t *testing.T) {
	t.Run("same content, different ordering", func(t *testing.T) {
		if !cmp.SliceContentEq([]string{"a", "b", "c"}, []string{"c", "b", "a"}) {
			t.Error("two bags are not equal, unexpectedly.")
		}
	})
	t.Run("multiplicity matters", func(t *testing.T) {
		if cmp.SliceContentEq([]string{"a", "c", "c"}, []string{"a", "a", "c"}) {
			t.Error("two bags are equal, unexpectedly.")
		}
	})
	t.Run("empty bags are equal", func(t *testing.T) {
		if !cmp.SliceContentEq([]string{}, []string{}) {
			t.Error("two empty bags are not equal, unexpectedly.")
		}
	})
}

func TestMapEq(t *testing.T) {
	t.Run("equal maps", func(t *testing.T) {
		a := map[string]int{"x": 1, "y": 2}
		b := map[string]int{"y": 2, "x": 1}
		if !cmp.MapEq(a, b) {
			t.Error("a != b, unexpectedly.")
		}
	})
	t.Run("different values", func(t *testing.T) {
		a := map[string]int{"x": 1}
		b := map[string]int{"x": 2}
		if cmp.MapEq(a, b) {
			t.Error("a == b, unexpectedly.")
		}
	})
	t.Run("different key sets", func(t *testing.T) {
		a := map[string]int{"x": 1}
		b := map[string]int{"x": 1, "y": 2}
		if cmp.MapEq(a, b) {
			t.Error("a == b, unexpectedly.")
		}
	})
}

func TestPEqEq(t *testing.T) {
	one, anotherOne, two := 1, 1, 2
	t.Run("both nil are equal", func(t *testing.T) {
		if !cmp.PEqEq[int](nil, nil) {
			t.Error("nil != nil, unexpectedly.")
		}
	})
	t.Run("nil and non-nil are not equal", func(t *testing.T) {
		if cmp.PEqEq(&one, nil) {
			t.Error("&1 == nil, unexpectedly.")
		}
	})
	t.Run("pointees are compared", func(t *testing.T) {
		if !cmp.PEqEq(&one, &anotherOne) {
			t.Error("&1 != &1, unexpectedly.")
		}
		if cmp.PEqEq(&one, &two) {
			t.Error("&1 == &2, unexpectedly.")
		}
	})
}
