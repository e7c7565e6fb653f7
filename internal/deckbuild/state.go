package deckbuild

import (
	"log/slog"
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// Diagnostics accumulates phase timing, warnings and random-mode fallback
// metadata for the final build result (spec.md §6 Build result diagnostics).
type Diagnostics struct {
	Seed             int64
	Attempts         int
	ElapsedMS        int64
	Fallback         bool
	ResolvedThemes   []string
	ComboFallback    bool
	SynergyFallback  bool
	FallbackReason   string
	Warnings         []string
}

// Warn appends a non-fatal diagnostic message (spec.md §7 propagation
// policy: phase-level errors that don't break invariants are logged, not
// raised).
func (d *Diagnostics) Warn(msg string) {
	d.Warnings = append(d.Warnings, msg)
}

// State is the full mutable state threaded through every phase: the pool,
// the library, the single RNG, and diagnostics (spec.md §2 "Phases are
// idempotent when re-run with the same inputs and a fixed seed").
type State struct {
	Config    *Config
	Catalog   *catalog.Catalog
	Commander catalog.Card
	Identity  catalog.ColorSet

	Pool    *catalog.Pool
	Library *Library
	RNG     *rng.Source

	Diagnostics Diagnostics
	Logger      *slog.Logger

	// Compliance holds the most recent compliance evaluation, an opaque
	// value set by the compliance phase and read by enforcement and the
	// CLI output layer. Typed as any to avoid an import cycle between
	// deckbuild and the compliance package that depends on it.
	Compliance any

	// PolicyLists optionally carries a pre-loaded compliance.Lists (set by
	// a caller that reads policy lists through a cache.Suite instead of
	// Config.PolicyDir on every build). Typed as any for the same import-
	// cycle reason as Compliance; nil means the compliance and enforcement
	// phases fall back to loading Config.PolicyDir from disk themselves.
	PolicyLists any

	// landfallFetchBumpApplied tracks the landfall fetch-cap bump so it is
	// applied at most once per build, replacing the source's side-effect
	// attribute with an explicit flag (spec.md §9 Design Notes item 2).
	landfallFetchBumpApplied bool
}

// HasLandfallTheme reports whether any selected theme mentions landfall.
func (s *State) HasLandfallTheme() bool {
	for _, t := range s.Config.Themes.List() {
		if containsFold(t, "landfall") {
			return true
		}
	}
	return false
}

// HasKindredTheme reports whether any selected theme mentions kindred/tribal.
func (s *State) HasKindredTheme() bool {
	for _, t := range s.Config.Themes.List() {
		if containsFold(t, "kindred") || containsFold(t, "tribal") {
			return true
		}
	}
	return false
}

// HasSnowTheme reports whether any selected theme mentions snow.
func (s *State) HasSnowTheme() bool {
	for _, t := range s.Config.Themes.List() {
		if containsFold(t, "snow") {
			return true
		}
	}
	return false
}

// FetchCap returns the effective fetch-land cap, applying the landfall bump
// at most once (spec.md §3 invariant 6, §9 item 2).
func (s *State) FetchCap(base int) int {
	if s.HasLandfallTheme() && !s.landfallFetchBumpApplied {
		s.landfallFetchBumpApplied = true
		return base + 1
	}
	if s.HasLandfallTheme() {
		return base + 1
	}
	return base
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
