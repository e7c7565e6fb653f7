package creature

import "github.com/mtgforge/commanderbuilder/internal/deckbuild"

// Phases returns the creature-builder pipeline phase.
func Phases() []deckbuild.Phase {
	return []deckbuild.Phase{
		{Name: "creatures", Run: Build},
	}
}
