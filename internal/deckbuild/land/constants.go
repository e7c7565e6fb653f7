// Package land implements the eight-phase mana-base pipeline (spec.md §4.3):
// basics, staples, kindred, fetch, dual, triple, misc/utility and ETB-tapped
// optimization, each ending with the shared global land-cap enforcement.
package land

// Tunable constants mirrored from the original builder's constants module,
// carried over unchanged as the defaults for every bracket and pool size.
const (
	FetchLandDefaultCount = 3
	FetchLandMaxCap       = 7

	DualLandDefaultCount = 4

	TripleLandDefaultCount = 2

	TappedLandSwapMinPenalty = 6

	MiscLandEDHRecKeepPercentMin = 0.75
	MiscLandEDHRecKeepPercentMax = 1.00

	MiscLandThemeMatchBase    = 1.4
	MiscLandThemeMatchPerExtra = 0.15
	MiscLandThemeMatchCap     = 2.0

	KindredLandsMaxPerTribe = 2
	KindredLandsMaxDynamic  = 5
)

// TappedLandMaxThresholds maps bracket level to the maximum acceptable count
// of unconditionally-tapped lands before Phase L8 starts swapping (spec.md
// §4.3.8).
var TappedLandMaxThresholds = map[int]int{
	1: 14,
	2: 12,
	3: 10,
	4: 8,
	5: 6,
}

// KindredLandNames is the baseline unified kindred/legend-supporting land
// list (spec.md §4.3.3).
var KindredLandNames = []string{
	"Path of Ancestry",
	"Three Tree City",
	"Cavern of Souls",
	"Unclaimed Territory",
	"Secluded Courtyard",
	"Plaza of Heroes",
}

// MonoColorMiscLandExclude is denylisted from the Phase L7 pool in
// mono-colored decks unless the land is on MonoColorMiscLandKeepAlways or is
// a detected kindred land (spec.md §4.3.7).
var MonoColorMiscLandExclude = map[string]bool{
	"Command Tower": true, "Mana Confluence": true, "City of Brass": true,
	"Grand Coliseum": true, "Tarnished Citadel": true, "Gemstone Mine": true,
	"Aether Hub": true, "Spire of Industry": true, "Exotic Orchard": true,
	"Reflecting Pool": true, "Plaza of Harmony": true, "Pillar of the Paruns": true,
	"Cascading Cataracts": true, "Crystal Quarry": true, "The World Tree": true,
	"Thriving Bluff": true, "Thriving Grove": true, "Thriving Isle": true,
	"Thriving Heath": true, "Thriving Moor": true,
}

// MonoColorMiscLandKeepAlways overrides MonoColorMiscLandExclude.
var MonoColorMiscLandKeepAlways = map[string]bool{
	"Forbidden Orchard": true, "Plaza of Heroes": true, "Path of Ancestry": true,
	"Lotus Field": true, "Lotus Vale": true,
}

// RainbowPhrases flag a land's oracle text as producing any color, used both
// to boost color-fixing weight and to exclude rainbow lands from mono-color
// pools (spec.md §4.3.7).
var RainbowPhrases = []string{
	"add one mana of any color",
	"add one mana of any color among",
}

// TriLandKeywords match tri-land names heuristically (spec.md §4.3.6).
var TriLandKeywords = []string{
	"triome", "panorama", "citadel", "tower", "hub", "garden",
	"headquarters", "sanctuary", "shrine", "domain",
}
