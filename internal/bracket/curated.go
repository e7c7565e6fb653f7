package bracket

import "strings"

// PopularCommanders is a small curated set of especially well-known
// commanders used for the fuzzy resolver's popularity/iconic boost
// (spec.md §4.1 "popularity/iconic boost +0.25 if in curated popular/iconic
// sets"). A production deployment would load this from the same data
// pipeline as the policy lists; it is small and hard-coded here because the
// spec treats it as static curated data, not catalog-derived data.
var PopularCommanders = map[string]bool{
	"Atraxa, Praetors' Voice": true,
	"Krenko, Mob Boss":        true,
	"The Ur-Dragon":           true,
	"Edgar Markov":            true,
	"Muldrotha, the Gravetide": true,
	"Kess, Dissident Mage":    true,
	"Meren of Clan Nel Toth":  true,
	"Yarok, the Desecrated":   true,
}

// BroadThemeThreshold is the fraction of the catalog a theme must cover
// before it is excluded from the curated random theme pool (spec.md §4.9
// auto-fill: "excludes overly-broad themes... any theme covering > 30% of
// the catalog").
const BroadThemeThreshold = 0.30

// ExcludedBroadThemes names themes the random entrypoint's auto-fill never
// offers regardless of catalog coverage, because they describe no coherent
// strategy (spec.md §4.9: "like 'Goodstuff'").
var ExcludedBroadThemes = map[string]bool{
	"goodstuff": true,
	"value":     true,
	"generic":   true,
}

// IsEligibleRandomTheme reports whether a theme may be offered by the
// auto-fill ladder, given its share of catalog coverage.
func IsEligibleRandomTheme(theme string, coverageFraction float64) bool {
	if ExcludedBroadThemes[strings.ToLower(theme)] {
		return false
	}
	return coverageFraction <= BroadThemeThreshold
}

// RainbowLandPhrases are oracle-text substrings implying any-color mana
// production, used by the mono-color misc-land exclusion rule
// (spec.md §4.3.7).
var RainbowLandPhrases = []string{
	"add one mana of any color",
	"add one mana of any type",
	"choose a color",
}

// MonoColorAlwaysKeep lists lands never excluded from mono-color misc-land
// selection despite producing rainbow mana (spec.md §4.3.7).
var MonoColorAlwaysKeep = map[string]bool{
	"Forbidden Orchard": true,
	"Plaza of Heroes":   true,
	"Path of Ancestry":  true,
	"Lotus Field":       true,
	"Lotus Vale":        true,
}

// TriLandKeywords are name substrings that heuristically identify
// three-color typed lands (spec.md §4.3.6).
var TriLandKeywords = []string{
	"triome", "panorama", "citadel", "tower", "hub", "garden", "headquarters", "sanctuary", "shrine", "domain",
}
