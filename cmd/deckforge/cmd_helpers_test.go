package main

import (
	"testing"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/randomentry"
)

func TestFallbackDiagnosticJoinsActiveReasons(t *testing.T) {
	got := fallbackDiagnostic(randomentry.Diagnostics{
		ComboFallback:    true,
		AutoFilledThemes: []string{"goblins", "aggro"},
	})
	want := "combo fallback; auto-filled: goblins, aggro"
	if got != want {
		t.Fatalf("fallbackDiagnostic = %q, want %q", got, want)
	}
}

func TestFallbackDiagnosticEmptyWhenNothingFired(t *testing.T) {
	if got := fallbackDiagnostic(randomentry.Diagnostics{}); got != "" {
		t.Fatalf("fallbackDiagnostic(empty) = %q, want empty string", got)
	}
}

func TestMaxInt(t *testing.T) {
	if maxInt(2, 5) != 5 {
		t.Fatal("maxInt(2,5) should be 5")
	}
	if maxInt(5, 2) != 5 {
		t.Fatal("maxInt(5,2) should be 5")
	}
}

func TestCategoryNameMapsKnownCategories(t *testing.T) {
	cases := map[bracket.Category]string{
		bracket.GameChangers:   "game changers",
		bracket.ExtraTurns:     "extra turns",
		bracket.MassLandDenial: "mass land denial",
		bracket.TutorsNonland:  "tutors (nonland)",
	}
	for cat, want := range cases {
		if got := categoryName(cat); got != want {
			t.Errorf("categoryName(%v) = %q, want %q", cat, got, want)
		}
	}
}

func TestLimitTextUnlimited(t *testing.T) {
	if got := limitText(bracket.NoLimit()); got != "unlimited" {
		t.Fatalf("limitText(NoLimit) = %q, want unlimited", got)
	}
}

func TestLimitTextFinite(t *testing.T) {
	n := 3
	if got := limitText(bracket.Limit{Value: &n}); got != "3" {
		t.Fatalf("limitText({Value:3}) = %q, want 3", got)
	}
}
