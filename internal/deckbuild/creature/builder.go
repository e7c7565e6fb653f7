// Package creature implements the theme-weighted creature allocation pass
// (spec.md §4.4).
package creature

import (
	"math"
	"sort"
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

const (
	andAllThemeCapRatio = 0.25
	andAllThemeWeight   = 1.7
	themePoolSizeMult   = 2.0
	themePriorityBonus  = 1.2
	preferOwnedMult     = 1.25
	kindredPrimaryMult  = 1.4
	kindredSecondaryMult = 1.3
	kindredTertiaryMult  = 1.2
)

// themeWeight is the base (role, weight) table for 1-3 selected themes
// (spec.md §4.4 step 1).
func themeWeight(n int, idx int) float64 {
	switch n {
	case 1:
		return 1.0
	case 2:
		if idx == 0 {
			return 0.6
		}
		return 0.4
	case 3:
		switch idx {
		case 0:
			return 0.5
		case 1:
			return 0.3
		default:
			return 0.2
		}
	}
	return 0
}

// Build runs the full creature-allocation pass: AND pre-pass, per-theme
// passes in priority order, and a final fill pass (spec.md §4.4).
func Build(s *deckbuild.State) error {
	themes := s.Config.Themes.List()
	if len(themes) == 0 {
		return nil
	}

	weights := make([]float64, len(themes))
	for i := range themes {
		weights[i] = themeWeight(len(themes), i)
	}
	applyKindredMultipliers(themes, weights)
	normalize(weights)

	policy, err := bracket.DefaultTable().Load(s.Config.BracketLevel)
	if err != nil {
		return deckbuild.NewError(deckbuild.KindInputValidation, "load bracket policy", err)
	}
	zeroLimit := policy.ZeroLimitCategories()

	pool := s.Pool.Filter(func(c catalog.Card) bool {
		if !c.IsCreature() || c.Name == s.Commander.Name {
			return false
		}
		for _, cat := range zeroLimit {
			if bracket.HasCategoryTag(c.ThemeTags, cat) {
				return false
			}
		}
		return true
	})

	ideal := s.Config.IdealCounts.Creatures
	remaining := ideal - s.Library.CountByRole(deckbuild.RoleCreature)

	if s.Config.TagMode == deckbuild.TagModeAND && len(themes) >= 2 {
		remaining -= andAllThemePass(s, pool, themes, ideal, remaining)
	}

	for i, theme := range themes {
		if remaining <= 0 {
			break
		}
		remaining -= themePass(s, pool, theme, themes, weights[i], ideal, remaining)
	}

	if remaining > 0 {
		remaining -= fillPass(s, pool, themes, remaining)
	}
	return nil
}

func applyKindredMultipliers(themes []string, weights []float64) {
	mults := []float64{kindredPrimaryMult, kindredSecondaryMult, kindredTertiaryMult}
	for i, theme := range themes {
		if i >= len(mults) {
			break
		}
		if containsFold(theme, "kindred") || containsFold(theme, "tribal") {
			weights[i] *= mults[i]
		}
	}
}

func normalize(weights []float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return
	}
	for i := range weights {
		weights[i] /= total
	}
}

func andAllThemePass(s *deckbuild.State, pool *catalog.Pool, themes []string, ideal, remaining int) int {
	target := int(math.Min(andAllThemeCapRatio*float64(ideal), float64(remaining)))
	if target <= 0 {
		return 0
	}

	candidates := pool.Filter(func(c catalog.Card) bool {
		return c.MultiMatch(themes) == len(themes) && !s.Library.Has(c.Name)
	})

	var weighted []rng.Weighted
	for _, r := range candidates.Rows {
		c := candidates.Card(r)
		w := andAllThemeWeight
		if s.Config.PreferOwned && ownedName(s, c.Name) {
			w *= preferOwnedMult
		}
		weighted = append(weighted, rng.Weighted{Name: c.Name, Weight: w})
	}

	chosen := s.RNG.WeightedSampleWithoutReplacement(weighted, target)
	return addChosen(s, chosen, "creature_and_prepass")
}

func themePass(s *deckbuild.State, pool *catalog.Pool, theme string, allThemes []string, weight float64, ideal, remaining int) int {
	bonus := s.RNG.Uniform(1.0, 1.1)
	target := int(math.Ceil(float64(ideal) * weight * bonus))
	if target > remaining {
		target = remaining
	}
	if target <= 0 {
		return 0
	}

	matching := pool.Filter(func(c catalog.Card) bool {
		return c.HasTag(theme) && !s.Library.Has(c.Name)
	})

	restrictToMulti := s.Config.TagMode == deckbuild.TagModeAND && len(allThemes) >= 2
	if restrictToMulti {
		multi := matching.Filter(func(c catalog.Card) bool { return c.MultiMatch(allThemes) >= 2 })
		if len(multi.Rows) > 0 {
			matching = multi
		}
	}

	ranked := rankByPriority(matching, allThemes)
	top := themePoolTopN(ranked, 30)

	var weighted []rng.Weighted
	for _, c := range top {
		w := 1.0
		if c.MultiMatch(allThemes) >= 2 {
			w = themePriorityBonus
		}
		if s.Config.PreferOwned && ownedName(s, c.Name) {
			w *= preferOwnedMult
		}
		weighted = append(weighted, rng.Weighted{Name: c.Name, Weight: w})
	}

	chosen := s.RNG.WeightedSampleWithoutReplacement(weighted, target)
	return addChosen(s, chosen, "creature_theme_pass:"+theme)
}

func fillPass(s *deckbuild.State, pool *catalog.Pool, themes []string, remaining int) int {
	candidates := pool.Filter(func(c catalog.Card) bool {
		return c.MultiMatch(themes) > 0 && !s.Library.Has(c.Name)
	})
	ranked := rankByPriority(candidates, themes)
	top := themePoolTopN(ranked, 30)

	var weighted []rng.Weighted
	for _, c := range top {
		weighted = append(weighted, rng.Weighted{Name: c.Name, Weight: 1.0})
	}
	chosen := s.RNG.WeightedSampleWithoutReplacement(weighted, remaining)
	return addChosen(s, chosen, "creature_fill")
}

// rankByPriority sorts by _multiMatch desc, edhrec_rank asc, mana_value asc
// (spec.md §4.4 step 6).
func rankByPriority(pool *catalog.Pool, themes []string) []catalog.Card {
	cards := make([]catalog.Card, len(pool.Rows))
	for i, r := range pool.Rows {
		cards[i] = pool.Card(r)
	}
	sort.Slice(cards, func(i, j int) bool {
		mi, mj := cards[i].MultiMatch(themes), cards[j].MultiMatch(themes)
		if mi != mj {
			return mi > mj
		}
		ri, rj := cards[i].EDHRecRankOrMax(), cards[j].EDHRecRankOrMax()
		if ri != rj {
			return ri < rj
		}
		return cards[i].ManaValue < cards[j].ManaValue
	})
	return cards
}

func themePoolTopN(cards []catalog.Card, base int) []catalog.Card {
	n := int(float64(base) * themePoolSizeMult)
	if n > len(cards) {
		n = len(cards)
	}
	return cards[:n]
}

func addChosen(s *deckbuild.State, chosen []rng.Weighted, addedBy string) int {
	n := 0
	for _, w := range chosen {
		card, found := s.Catalog.ByName(w.Name)
		if !found || s.Library.Has(card.Name) {
			continue
		}
		s.Library.Add(deckbuild.Entry{
			Name:          card.Name,
			Count:         1,
			CardType:      "Creature",
			ManaCost:      card.ManaCost,
			ManaValue:     card.ManaValue,
			CreatureTypes: card.CreatureTypes,
			Tags:          card.ThemeTags,
			Role:          deckbuild.RoleCreature,
			AddedBy:       addedBy,
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

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
