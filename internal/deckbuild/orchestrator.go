package deckbuild

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// Phase is a single pipeline stage. It owns its operations and shares state
// with the orchestrator via *State, replacing the source's mixin-based
// composition with a flat, composable function list (spec.md §9 Design
// Notes: "a phase owns its operations and shares state with the
// orchestrator... composition via an ordered phase list").
type Phase struct {
	Name string
	Run  func(*State) error
}

// Orchestrator drives an ordered list of phases over one build.
type Orchestrator struct {
	Phases []Phase
}

// NewState constructs the initial build state for a resolved commander: the
// color-identity filtered pool, an empty library seeded with the commander,
// and the build's single seeded RNG (spec.md §2 data flow).
func NewState(cfg *Config, cat *catalog.Catalog, commander catalog.Card, owned map[string]bool, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.Default()
	}
	identity := commander.ColorIdentity

	exclude := make(map[string]bool, len(cfg.ExcludeCards))
	for _, n := range cfg.ExcludeCards {
		exclude[normalize(n)] = true
	}

	pool := catalog.NewPool(cat, identity, exclude, cfg.UseOwnedOnly, owned)

	lib := NewLibrary()
	lib.Add(Entry{
		Name:      commander.Name,
		Count:     1,
		CardType:  primaryType(commander.TypeLine),
		ManaCost:  commander.ManaCost,
		ManaValue: commander.ManaValue,
		Tags:      commander.ThemeTags,
		Role:      RoleCommander,
		AddedBy:   "commander_selection",
		Locked:    true,
	})

	return &State{
		Config:    cfg,
		Catalog:   cat,
		Commander: commander,
		Identity:  identity,
		Pool:      pool,
		Library:   lib,
		RNG:       rng.New(cfg.Seed),
		Logger:    logger,
		Diagnostics: Diagnostics{
			Seed: cfg.Seed,
		},
	}
}

// Run executes every phase in order. A phase error is recorded as a
// diagnostic warning and the pipeline continues unless the error's Kind is
// fatal (spec.md §7 propagation policy).
func (o *Orchestrator) Run(s *State) error {
	for _, phase := range o.Phases {
		start := time.Now()
		err := phase.Run(s)
		s.Diagnostics.ElapsedMS += time.Since(start).Milliseconds()
		if err != nil {
			if be, ok := err.(*BuildError); ok {
				s.Logger.Error("phase failed", "phase", phase.Name, "kind", be.Kind, "error", err)
				if be.Kind.Fatal() {
					return err
				}
				s.Diagnostics.Warn(phase.Name + ": " + err.Error())
				continue
			}
			s.Logger.Error("phase failed", "phase", phase.Name, "error", err)
			s.Diagnostics.Warn(phase.Name + ": " + err.Error())
			continue
		}
		s.Logger.Debug("phase complete", "phase", phase.Name, "deckSize", s.Library.TotalCount())
	}
	return nil
}

func primaryType(typeLine string) string {
	lower := strings.ToLower(typeLine)
	for _, t := range []string{"Creature", "Planeswalker", "Battle", "Land", "Artifact", "Enchantment", "Instant", "Sorcery", "Kindred"} {
		if strings.Contains(lower, strings.ToLower(t)) {
			return t
		}
	}
	return "Other"
}

func normalize(s string) string {
	return catalog.NormalizeName(s)
}
