package compliance

import (
	"path/filepath"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

// Phases returns the compliance-evaluation pipeline phase. It uses the
// bracket policy lists already on State.PolicyLists when set, otherwise loads
// them from Config.PolicyDir (spec.md §6 Policy lists), and stores the
// resulting Report on State.Compliance for enforcement and CLI
// reporting to consume.
func Phases() []deckbuild.Phase {
	return []deckbuild.Phase{
		{Name: "compliance", Run: runEvaluate},
	}
}

func runEvaluate(s *deckbuild.State) error {
	lists, ok := s.PolicyLists.(Lists)
	if !ok {
		lists = loadLists(s.Config.PolicyDir, s.Logger)
	}
	report, err := Evaluate(s, bracket.DefaultTable(), lists)
	if err != nil {
		return deckbuild.NewError(deckbuild.KindInputValidation, "evaluate compliance", err)
	}
	s.Compliance = report
	return nil
}

func loadLists(dir string, logger interface {
	Warn(string, ...any)
}) Lists {
	if dir == "" {
		return Lists{}
	}
	load := func(file string) *bracket.CardList {
		cl, err := bracket.LoadCardList(filepath.Join(dir, file))
		if err != nil {
			if logger != nil {
				logger.Warn("policy list unavailable", "file", file, "error", err)
			}
			return nil
		}
		return cl
	}
	combos, err := bracket.LoadComboList(filepath.Join(dir, "combos.json"))
	if err != nil {
		if logger != nil {
			logger.Warn("combo list unavailable", "error", err)
		}
		combos = nil
	}
	return Lists{
		GameChangers:   load("game_changers.json"),
		ExtraTurns:     load("extra_turns.json"),
		MassLandDenial: load("mass_land_denial.json"),
		TutorsNonland:  load("tutors_nonland.json"),
		Combos:         combos,
	}
}
