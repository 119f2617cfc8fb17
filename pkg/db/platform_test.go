package db_test

import (
	"testing"

	kdb "github.com/tonearm/labeld/pkg/db"
)

func TestPlatformStatus_CanTransitTo(t *testing.T) {
	for name, testcase := range map[string]struct {
		from kdb.PlatformStatus
		to   kdb.PlatformStatus
		want bool
	}{
		"pending can be uploaded":       {kdb.Pending, kdb.Uploaded, true},
		"pending can be rejected":       {kdb.Pending, kdb.Rejected, true},
		"rejected can be resubmitted":   {kdb.Rejected, kdb.Pending, true},
		"rejected cannot be uploaded":   {kdb.Rejected, kdb.Uploaded, false},
		"uploaded is terminal":          {kdb.Uploaded, kdb.Pending, false},
		"uploaded cannot be rejected":   {kdb.Uploaded, kdb.Rejected, false},
		"no self loop from pending":     {kdb.Pending, kdb.Pending, false},
		"no self loop from uploaded":    {kdb.Uploaded, kdb.Uploaded, false},
		"no self loop from rejected":    {kdb.Rejected, kdb.Rejected, false},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := testcase.from.CanTransitTo(testcase.to); actual != testcase.want {
				t.Errorf(
					"%s -> %s: got %v, want %v",
					testcase.from, testcase.to, actual, testcase.want,
				)
			}
		})
	}
}

func TestPlatformName_Known(t *testing.T) {
	for _, p := range kdb.Platforms() {
		if !p.Known() {
			t.Errorf("%s should be known", p)
		}
	}
	if kdb.PlatformName("myspace").Known() {
		t.Error("myspace should not be known")
	}
}
