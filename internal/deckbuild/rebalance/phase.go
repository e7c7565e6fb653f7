package rebalance

import "github.com/mtgforge/commanderbuilder/internal/deckbuild"

// Phases returns the color-rebalancer pipeline phase.
func Phases() []deckbuild.Phase {
	return []deckbuild.Phase{
		{Name: "rebalance", Run: Build},
	}
}
