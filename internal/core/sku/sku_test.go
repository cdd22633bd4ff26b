package sku

import (
	"testing"

	"filterdetect/internal/core/rulepack"
)

func TestLast4(t *testing.T) {
	cases := map[string]string{
		"1R1808":      "1808",
		"P550388":     "0388",
		"...1808":     "1808",
		"1808":        "1808",
		"A12":         "0012",
		"":            "0000",
		"NODIGITS":    "0000",
		"90915-YZZD4": "9154",
		"12-34-56":    "3456",
	}
	for in, want := range cases {
		if got := Last4(in); got != want {
			t.Fatalf("Last4(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSynthesize(t *testing.T) {
	s := New(rulepack.MustDefault())

	cases := []struct {
		fam  rulepack.Family
		code string
		want string
	}{
		{rulepack.FamilyOil, "P551808", "EL81808"},
		{rulepack.FamilyOil, "1R1808", "EL81808"},
		{rulepack.FamilyAir, "CA10171", "EA10171"},
		{rulepack.FamilyCabin, "CF10134", "EC10134"},
		{rulepack.FamilyKitDiesel, "K7", "EK50007"},
		{rulepack.FamilyUnknown, "P551808", "EXX0000"},
		{rulepack.Family("BOGUS"), "P551808", "EXX0000"},
	}
	for _, c := range cases {
		if got := s.Synthesize(c.fam, c.code); got != c.want {
			t.Fatalf("Synthesize(%s, %q) = %q, want %q", c.fam, c.code, got, c.want)
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := New(rulepack.MustDefault())
	first := s.Synthesize(rulepack.FamilyOil, "1R1808")
	for range 5 {
		if got := s.Synthesize(rulepack.FamilyOil, "1R1808"); got != first {
			t.Fatalf("non-deterministic: %q vs %q", got, first)
		}
	}
	if s.Synthesize(rulepack.FamilyOil, "...1808") != s.Synthesize(rulepack.FamilyOil, "1808") {
		t.Fatalf("trailing four digits should decide")
	}
	if s.Sentinel() != "EXX0000" {
		t.Fatalf("sentinel = %q", s.Sentinel())
	}
}
