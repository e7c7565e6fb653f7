package land

import (
	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

// Staples runs Phase L2: conditional staple-land inclusion driven by the
// compiled predicate table of spec.md §4.3.2.
func Staples(s *deckbuild.State) error {
	staples, err := bracket.DefaultStapleLands()
	if err != nil {
		return deckbuild.NewError(deckbuild.KindInternalInvariant, "compile staple land predicates", err)
	}

	env := bracket.StapleLandEnv{
		Tags:      s.Commander.ThemeTags,
		Colors:    s.Identity.Letters(),
		Power:     s.Commander.Power,
		NumColors: s.Identity.Count(),
	}

	for _, staple := range staples {
		if currentLandCount(s) >= s.Config.IdealCounts.Lands {
			break
		}
		ok, err := staple.Eligible(env)
		if err != nil {
			s.Diagnostics.Warn("staple land predicate error for " + staple.Name + ": " + err.Error())
			continue
		}
		if !ok || s.Library.Has(staple.Name) {
			continue
		}
		card, found := s.Catalog.ByName(staple.Name)
		if !found {
			continue
		}
		s.Library.Add(deckbuild.Entry{
			Name:      card.Name,
			Count:     1,
			CardType:  "Land",
			Tags:      card.ThemeTags,
			Role:      deckbuild.RoleStaple,
			AddedBy:   "land_staples",
		})
		consumeFromPool(s, card.Name)
	}
	return enforceLandCap(s)
}

// consumeFromPool removes a single named card from the remaining pool so
// later land phases cannot select it again.
func consumeFromPool(s *deckbuild.State, name string) {
	s.Pool.RemoveByName(map[string]bool{catalog.NormalizeName(name): true})
}
