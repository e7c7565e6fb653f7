package land

import "github.com/mtgforge/commanderbuilder/internal/deckbuild"

// Phases returns the eight land sub-phases in spec.md §4.3 order, ready to
// append to an orchestrator's phase list.
func Phases() []deckbuild.Phase {
	return []deckbuild.Phase{
		{Name: "land_basics", Run: Basics},
		{Name: "land_staples", Run: Staples},
		{Name: "land_kindred", Run: Kindred},
		{Name: "land_fetch", Run: Fetch},
		{Name: "land_dual", Run: Dual},
		{Name: "land_triple", Run: Triple},
		{Name: "land_misc", Run: Misc},
		{Name: "land_tapped", Run: Tapped},
	}
}
