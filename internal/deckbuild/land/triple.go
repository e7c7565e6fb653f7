package land

import (
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// Triple runs Phase L6: tri-color typed/textual lands, ranked and lightly
// shuffled (spec.md §4.3.6). A no-op below three commander colors.
func Triple(s *deckbuild.State) error {
	colors := s.Identity.Letters()
	if len(colors) < 3 {
		return nil
	}

	target := TripleLandDefaultCount

	var cands []rng.Weighted
	ranks := map[string]int{}
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if s.Library.Has(c.Name) || !isTripleLandCandidate(c, colors) {
			continue
		}
		rank := tripleRank(c, colors)
		ranks[c.Name] = rank
		cands = append(cands, rng.Weighted{Name: c.Name, Weight: float64(rank + 1)})
	}

	chosen := s.RNG.WeightedShuffle(cands)
	added := 0
	for _, w := range chosen {
		if added >= target {
			break
		}
		card, found := s.Catalog.ByName(w.Name)
		if !found || s.Library.Has(card.Name) {
			continue
		}
		s.Library.Add(deckbuild.Entry{
			Name:     card.Name,
			Count:    1,
			CardType: "Land",
			Tags:     card.ThemeTags,
			Role:     deckbuild.RoleTriple,
			AddedBy:  "land_triple",
		})
		consumeFromPool(s, card.Name)
		added++
	}
	return enforceLandCap(s)
}

func isTripleLandCandidate(c catalog.Card, colors []string) bool {
	if !c.IsLand() {
		return false
	}
	typeLine := strings.ToLower(c.TypeLine)
	typeCount := 0
	for _, color := range colors {
		if strings.Contains(typeLine, basicLandWord[color]) {
			typeCount++
		}
	}
	if typeCount >= 3 {
		return true
	}
	if countColoredSymbols(c.Text, colors) >= 3 {
		return true
	}
	name := strings.ToLower(c.Name)
	for _, kw := range TriLandKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func countColoredSymbols(text string, colors []string) int {
	n := 0
	for _, color := range colors {
		n += strings.Count(text, "{"+strings.ToLower(color)+"}")
	}
	return n
}

func tripleRank(c catalog.Card, colors []string) int {
	rank := 0
	typeLine := strings.ToLower(c.TypeLine)
	typeCount := 0
	for _, color := range colors {
		if strings.Contains(typeLine, basicLandWord[color]) {
			typeCount++
		}
	}
	if typeCount >= 3 {
		rank += 5
	}
	if !strings.Contains(c.Text, "enters the battlefield tapped") {
		rank += 2
	}
	if strings.Contains(c.Text, "cycling") {
		rank += 1
	}
	return rank
}
