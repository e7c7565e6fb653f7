package spell

import "github.com/mtgforge/commanderbuilder/internal/deckbuild"

// Phases returns the spell-builder pipeline phase.
func Phases() []deckbuild.Phase {
	return []deckbuild.Phase{
		{Name: "spells", Run: Build},
	}
}
