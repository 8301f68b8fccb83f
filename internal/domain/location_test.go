package domain

import (
	"math"
	"reflect"
	"testing"
)

func TestParseOffloadHours(t *testing.T) {
	got, err := ParseOffloadHours("00:00  (16:58)   min/container")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := float64(16*60+58) / 3600
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("offload = %v, want %v", got, want)
	}
}

func TestParseOffloadHoursRejectsMissingBrackets(t *testing.T) {
	for _, in := range []string{"", "16:58", "(16)", "(aa:bb)"} {
		if _, err := ParseOffloadHours(in); err == nil {
			t.Errorf("ParseOffloadHours(%q) expected error", in)
		}
	}
}

func TestParseStoreCodes(t *testing.T) {
	got := ParseStoreCodes("(3) 35668-Aurora SPAR, 35805-Aurora TOPS, 35924-Aurora PHARMACY")
	want := []string{"35668", "35805", "35924"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("store codes = %v, want %v", got, want)
	}

	if got := ParseStoreCodes(""); len(got) != 0 {
		t.Fatalf("empty input gave %v", got)
	}
}

func TestAnonymousName(t *testing.T) {
	loc := &PhysicalLocation{Index: 12, Name: "Aurora"}
	if got := loc.AnonymousName(); got != "12-A" {
		t.Fatalf("anonymous name = %q, want %q", got, "12-A")
	}

	if got := (&PhysicalLocation{Index: 3}).AnonymousName(); got != "3" {
		t.Fatalf("anonymous name of unnamed location = %q, want %q", got, "3")
	}
}

func TestNewDepot(t *testing.T) {
	d := NewDepot()
	if d.Index != 0 || d.Name != DepotName || len(d.StoreCodes) != 0 || d.Demand != 0 {
		t.Fatalf("unexpected depot: %+v", d)
	}
}
