package land

import (
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// genericFetchNames are fetches that tap for generic/any-color output rather
// than a commander-color-specific fetch.
var genericFetchNames = map[string]bool{
	"Terramorphic Expanse": true, "Evolving Wilds": true, "Fabled Passage": true,
	"Prismatic Vista": true, "Myriad Landscape": true,
}

// basicLandWord maps a color letter to the basic land type word fetches
// reference in their oracle text ("search your library for a Plains card").
var basicLandWord = map[string]string{
	"W": "plains", "U": "island", "B": "swamp", "R": "mountain", "G": "forest",
}

// Fetch runs Phase L4: weighted-sample fetch lands up to the fetch-land
// target, preferring color-specific fetches over generic ones, with the
// landfall cap bump applied at most once per build (spec.md §4.3.4).
func Fetch(s *deckbuild.State) error {
	target := s.Config.IdealCounts.FetchLands
	if target <= 0 {
		target = FetchLandDefaultCount
	}
	fetchCap := s.FetchCap(FetchLandMaxCap)
	if target > fetchCap {
		target = fetchCap
	}

	var cands []rng.Weighted
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if !isFetchLand(c.Name, c.Text) || s.Library.Has(c.Name) {
			continue
		}
		weight := 1.0
		if isColorSpecificFetch(c, s.Identity) {
			weight = 2.0
		} else if !genericFetchNames[c.Name] {
			continue
		}
		cands = append(cands, rng.Weighted{Name: c.Name, Weight: weight})
	}

	chosen := s.RNG.WeightedSampleWithoutReplacement(cands, target)
	for _, w := range chosen {
		card, found := s.Catalog.ByName(w.Name)
		if !found {
			continue
		}
		s.Library.Add(deckbuild.Entry{
			Name:     card.Name,
			Count:    1,
			CardType: "Land",
			Tags:     card.ThemeTags,
			Role:     deckbuild.RoleFetch,
			AddedBy:  "land_fetch",
		})
		consumeFromPool(s, card.Name)
	}
	return enforceLandCap(s)
}

func isFetchLand(name, text string) bool {
	if genericFetchNames[name] {
		return true
	}
	return strings.Contains(text, "search your library for a") && strings.Contains(text, "land card")
}

func isColorSpecificFetch(c catalog.Card, identity catalog.ColorSet) bool {
	for _, color := range identity.Letters() {
		if strings.Contains(c.Text, basicLandWord[color]) {
			return true
		}
	}
	return false
}
