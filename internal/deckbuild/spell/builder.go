// Package spell implements the six-category spell-slot allocation pass
// (spec.md §4.5): ramp, removal, board wipes, card advantage, protection and
// theme spell filler.
package spell

import (
	"math"
	"sort"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

const preferOwnedWeightMultiplier = 1.25

// Build runs every spell category in order (spec.md §4.5).
func Build(s *deckbuild.State) error {
	policy, err := bracket.DefaultTable().Load(s.Config.BracketLevel)
	if err != nil {
		return deckbuild.NewError(deckbuild.KindInputValidation, "load bracket policy", err)
	}
	zeroLimit := policy.ZeroLimitCategories()

	nonland := s.Pool.Filter(func(c catalog.Card) bool {
		if c.IsLand() {
			return false
		}
		for _, cat := range zeroLimit {
			if bracket.HasCategoryTag(c.ThemeTags, cat) {
				return false
			}
		}
		return true
	})

	ramp(s, nonland)
	removal(s, nonland)
	wipes(s, nonland)
	cardAdvantage(s, nonland)
	protection(s, nonland)
	themeFiller(s, nonland)
	finalFill(s, nonland)
	return nil
}

func ramp(s *deckbuild.State, pool *catalog.Pool) {
	target := s.Config.IdealCounts.Ramp
	target += s.RNG.Bonus(target, 0.2)
	remaining := target - s.Library.CountByRole(deckbuild.RoleRamp)
	if remaining <= 0 {
		return
	}

	rocks := pool.Filter(func(c catalog.Card) bool { return c.HasTag("ramp") && c.HasType("artifact") && !s.Library.Has(c.Name) })
	sortByRankThenMV(rocks)
	rockTarget := remaining / 3
	remaining -= addFromOrdered(s, rocks, rockTarget, "spell_ramp_rocks")

	dorks := pool.Filter(func(c catalog.Card) bool { return c.HasTag("ramp") && c.IsCreature() && !s.Library.Has(c.Name) })
	sortByRankThenMV(dorks)
	dorkTarget := remaining / 4
	remaining -= addFromOrdered(s, dorks, dorkTarget, "spell_ramp_dorks")

	general := pool.Filter(func(c catalog.Card) bool {
		return c.HasTag("ramp") && !c.IsLand() && !s.Library.Has(c.Name)
	})
	sortByRankThenMV(general)
	addFromOrdered(s, general, remaining, "spell_ramp_general")
}

func removal(s *deckbuild.State, pool *catalog.Pool) {
	target := s.Config.IdealCounts.Removal
	target += s.RNG.Bonus(target, 0.2)
	remaining := target - s.Library.CountByRole(deckbuild.RoleRemoval)
	if remaining <= 0 {
		return
	}
	cands := pool.Filter(func(c catalog.Card) bool {
		if s.Library.Has(c.Name) {
			return false
		}
		isRemoval := c.HasTag("removal") || c.HasTag("spot removal")
		isWipe := c.HasTag("board wipe") || c.HasTag("mass removal")
		return isRemoval && !isWipe
	})
	sortByRankThenMV(cands)
	addFromOrderedRole(s, cands, remaining, "spell_removal", deckbuild.RoleRemoval)
}

func wipes(s *deckbuild.State, pool *catalog.Pool) {
	target := s.Config.IdealCounts.Wipes
	target += s.RNG.Bonus(target, 0.2)
	remaining := target - s.Library.CountByRole(deckbuild.RoleWipe)
	if remaining <= 0 {
		return
	}
	cands := pool.Filter(func(c catalog.Card) bool {
		return !s.Library.Has(c.Name) && (c.HasTag("board wipe") || c.HasTag("mass removal"))
	})
	sortByRankThenMV(cands)
	addFromOrderedRole(s, cands, remaining, "spell_wipes", deckbuild.RoleWipe)
}

var conditionalCardAdvantageTags = []string{"conditional", "situational", "attacks", "combat damage", "when you cast"}

func cardAdvantage(s *deckbuild.State, pool *catalog.Pool) {
	target := s.Config.IdealCounts.CardAdvantage
	target += s.RNG.Bonus(target, 0.2)
	remaining := target - s.Library.CountByRole(deckbuild.RoleCardAdvantage)
	if remaining <= 0 {
		return
	}
	conditionalTarget := int(math.Ceil(0.2 * float64(target)))

	conditional := pool.Filter(func(c catalog.Card) bool {
		if s.Library.Has(c.Name) || !c.HasTag("card advantage") && !c.HasTag("draw") {
			return false
		}
		for _, tag := range conditionalCardAdvantageTags {
			if c.HasTag(tag) {
				return true
			}
		}
		return false
	})
	sortByRankThenMV(conditional)
	used := addFromOrderedRole(s, conditional, conditionalTarget, "spell_card_advantage_conditional", deckbuild.RoleCardAdvantage)
	remaining -= used

	unconditional := pool.Filter(func(c catalog.Card) bool {
		return !s.Library.Has(c.Name) && (c.HasTag("card advantage") || c.HasTag("draw"))
	})
	sortByRankThenMV(unconditional)
	addFromOrderedRole(s, unconditional, remaining, "spell_card_advantage", deckbuild.RoleCardAdvantage)
}

func protection(s *deckbuild.State, pool *catalog.Pool) {
	target := s.Config.IdealCounts.Protection
	target += s.RNG.Bonus(target, 0.2)
	remaining := target - s.Library.CountByRole(deckbuild.RoleProtection)
	if remaining <= 0 {
		return
	}
	cands := pool.Filter(func(c catalog.Card) bool { return !s.Library.Has(c.Name) && c.HasTag("protection") })
	sortByRankThenMV(cands)
	addFromOrderedRole(s, cands, remaining, "spell_protection", deckbuild.RoleProtection)
}

// themeFiller fills remaining slots up to a deck size of 100 via
// theme-weighted selection over non-land, non-creature spells, falling back
// to any _multiMatch > 0 spell once theme pools are exhausted (spec.md
// §4.5.6).
func themeFiller(s *deckbuild.State, pool *catalog.Pool) {
	themes := s.Config.Themes.List()
	remaining := 100 - s.Library.TotalCount()
	if remaining <= 0 || len(themes) == 0 {
		return
	}

	spells := pool.Filter(func(c catalog.Card) bool {
		return !c.IsLand() && !c.IsCreature() && !s.Library.Has(c.Name)
	})

	for _, theme := range themes {
		if remaining <= 0 {
			break
		}
		matching := spells.Filter(func(c catalog.Card) bool { return c.HasTag(theme) })
		var weighted []rng.Weighted
		for _, r := range matching.Rows {
			c := matching.Card(r)
			w := 1.0
			if c.MultiMatch(themes) >= 2 {
				w = 1.2
			}
			if s.Config.PreferOwned && ownedName(s, c.Name) {
				w *= preferOwnedWeightMultiplier
			}
			weighted = append(weighted, rng.Weighted{Name: c.Name, Weight: w})
		}
		chosen := s.RNG.WeightedSampleWithoutReplacement(weighted, remaining)
		remaining -= addChosen(s, chosen, "spell_theme_filler:"+theme, deckbuild.RoleThemeSpell)
	}

	if remaining <= 0 {
		return
	}
	fallback := spells.Filter(func(c catalog.Card) bool { return c.MultiMatch(themes) > 0 && !s.Library.Has(c.Name) })
	var weighted []rng.Weighted
	for _, r := range fallback.Rows {
		weighted = append(weighted, rng.Weighted{Name: fallback.Card(r).Name, Weight: 1.0})
	}
	chosen := s.RNG.WeightedSampleWithoutReplacement(weighted, remaining)
	addChosen(s, chosen, "spell_theme_filler_fallback", deckbuild.RoleThemeSpell)
}

// finalFill categorizes remaining spells into ramp/draw/protection/wipe/
// removal and randomly picks one from each available category until 100 is
// reached (spec.md §4.5.6 final step).
func finalFill(s *deckbuild.State, pool *catalog.Pool) {
	categories := []string{"ramp", "draw", "protection", "board wipe", "removal"}
	for s.Library.TotalCount() < 100 {
		progressed := false
		for _, tag := range categories {
			if s.Library.TotalCount() >= 100 {
				break
			}
			cands := pool.Filter(func(c catalog.Card) bool {
				return !c.IsLand() && !s.Library.Has(c.Name) && c.HasTag(tag)
			})
			if len(cands.Rows) == 0 {
				continue
			}
			pick := cands.Card(cands.Rows[s.RNG.IntN(len(cands.Rows))])
			s.Library.Add(deckbuild.Entry{
				Name:      pick.Name,
				Count:     1,
				CardType:  "Spell",
				ManaCost:  pick.ManaCost,
				ManaValue: pick.ManaValue,
				Tags:      pick.ThemeTags,
				Role:      deckbuild.RoleFiller,
				AddedBy:   "spell_final_fill",
			})
			s.Pool.RemoveByName(map[string]bool{catalog.NormalizeName(pick.Name): true})
			progressed = true
		}
		if !progressed {
			break
		}
	}
}

func sortByRankThenMV(p *catalog.Pool) {
	sort.Slice(p.Rows, func(i, j int) bool {
		ci, cj := p.Card(p.Rows[i]), p.Card(p.Rows[j])
		ri, rj := ci.EDHRecRankOrMax(), cj.EDHRecRankOrMax()
		if ri != rj {
			return ri < rj
		}
		return ci.ManaValue < cj.ManaValue
	})
}

func addFromOrdered(s *deckbuild.State, pool *catalog.Pool, n int, addedBy string) int {
	return addFromOrderedRole(s, pool, n, addedBy, "")
}

func addFromOrderedRole(s *deckbuild.State, pool *catalog.Pool, n int, addedBy string, role deckbuild.Role) int {
	if n <= 0 {
		return 0
	}
	added := 0
	for _, r := range pool.Rows {
		if added >= n {
			break
		}
		c := pool.Card(r)
		if s.Library.Has(c.Name) {
			continue
		}
		entryRole := role
		if entryRole == "" {
			entryRole = roleForAddedBy(addedBy)
		}
		s.Library.Add(deckbuild.Entry{
			Name:      c.Name,
			Count:     1,
			CardType:  "Spell",
			ManaCost:  c.ManaCost,
			ManaValue: c.ManaValue,
			Tags:      c.ThemeTags,
			Role:      entryRole,
			AddedBy:   addedBy,
		})
		s.Pool.RemoveByName(map[string]bool{catalog.NormalizeName(c.Name): true})
		added++
	}
	return added
}

func roleForAddedBy(addedBy string) deckbuild.Role {
	switch addedBy {
	case "spell_ramp_rocks", "spell_ramp_dorks", "spell_ramp_general":
		return deckbuild.RoleRamp
	default:
		return deckbuild.RoleFiller
	}
}

func addChosen(s *deckbuild.State, chosen []rng.Weighted, addedBy string, role deckbuild.Role) int {
	n := 0
	for _, w := range chosen {
		card, found := s.Catalog.ByName(w.Name)
		if !found || s.Library.Has(card.Name) {
			continue
		}
		s.Library.Add(deckbuild.Entry{
			Name:      card.Name,
			Count:     1,
			CardType:  "Spell",
			ManaCost:  card.ManaCost,
			ManaValue: card.ManaValue,
			Tags:      card.ThemeTags,
			Role:      role,
			AddedBy:   addedBy,
		})
		s.Pool.RemoveByName(map[string]bool{catalog.NormalizeName(card.Name): true})
		n++
	}
	return n
}

func ownedName(s *deckbuild.State, name string) bool {
	norm := catalog.NormalizeName(name)
	for _, owned := range s.Config.OwnedNames {
		if catalog.NormalizeName(owned) == norm {
			return true
		}
	}
	return false
}
