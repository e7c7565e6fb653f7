// Package pipeline assembles the full ordered phase list a build runs
// (spec.md §2 SYSTEM OVERVIEW data flow): land construction, creatures,
// spells, color rebalancing, compliance scoring and enforcement.
package pipeline

import (
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/creature"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/enforcement"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/land"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/rebalance"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/spell"
)

// New builds the standard build-time orchestrator with every phase in
// spec.md order.
func New() *deckbuild.Orchestrator {
	var phases []deckbuild.Phase
	phases = append(phases, land.Phases()...)
	phases = append(phases, creature.Phases()...)
	phases = append(phases, spell.Phases()...)
	phases = append(phases, rebalance.Phases()...)
	phases = append(phases, compliance.Phases()...)
	phases = append(phases, enforcement.Phases()...)
	return &deckbuild.Orchestrator{Phases: phases}
}
