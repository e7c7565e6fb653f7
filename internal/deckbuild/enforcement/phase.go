package enforcement

import "github.com/mtgforge/commanderbuilder/internal/deckbuild"

// Phases returns the enforcement pipeline phase.
func Phases() []deckbuild.Phase {
	return []deckbuild.Phase{
		{Name: "enforcement", Run: Run},
	}
}
