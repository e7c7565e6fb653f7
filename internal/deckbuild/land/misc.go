package land

import (
	"sort"
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// Misc runs Phase L7: the utility/misc land pool, truncated by an EDHRec
// "keep percent" roll and weighted by color-fixing and theme overlap, then
// sampled without replacement up to remaining land capacity (spec.md
// §4.3.7).
func Misc(s *deckbuild.State) error {
	remaining := s.Config.IdealCounts.Lands - currentLandCount(s)
	if remaining <= 0 {
		return suggestTagDrivenLands(s)
	}

	candidates := miscCandidates(s)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].EDHRecRankOrMax() < candidates[j].EDHRecRankOrMax()
	})

	keepPercent := s.RNG.Uniform(MiscLandEDHRecKeepPercentMin, MiscLandEDHRecKeepPercentMax)
	keepN := int(float64(len(candidates)) * keepPercent)
	if keepN < len(candidates) {
		candidates = candidates[:keepN]
	}

	mono := s.Identity.Count() <= 1
	hasKindred := s.HasKindredTheme()
	themes := s.Config.Themes.List()

	var weighted []rng.Weighted
	for _, c := range candidates {
		if mono && !monoColorAllowed(c, hasKindred) {
			continue
		}
		weighted = append(weighted, rng.Weighted{Name: c.Name, Weight: miscWeight(c, themes)})
	}

	chosen := s.RNG.WeightedSampleWithoutReplacement(weighted, remaining)
	for _, w := range chosen {
		card, found := s.Catalog.ByName(w.Name)
		if !found || s.Library.Has(card.Name) {
			continue
		}
		s.Library.Add(deckbuild.Entry{
			Name:     card.Name,
			Count:    1,
			CardType: "Land",
			Tags:     card.ThemeTags,
			Role:     deckbuild.RoleUtility,
			AddedBy:  "land_misc",
		})
		consumeFromPool(s, card.Name)
	}

	if err := enforceLandCap(s); err != nil {
		return err
	}
	return suggestTagDrivenLands(s)
}

// miscCandidates filters the remaining pool to non-basic lands not already
// in the library and not fetch lands (handled in L4).
func miscCandidates(s *deckbuild.State) []catalog.Card {
	var out []catalog.Card
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if !c.IsLand() || c.HasType("basic") || s.Library.Has(c.Name) {
			continue
		}
		if isFetchLand(c.Name, c.Text) {
			continue
		}
		if c.Name == "The World Tree" && s.Identity.Count() < 5 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// monoColorAllowed applies the mono-color rainbow-land denylist of spec.md
// §4.3.7.
func monoColorAllowed(c catalog.Card, hasKindred bool) bool {
	if MonoColorMiscLandKeepAlways[c.Name] {
		return true
	}
	if hasKindred && isKindredLandName(c.Name) {
		return true
	}
	if MonoColorMiscLandExclude[c.Name] {
		return false
	}
	lowerText := c.Text
	for _, phrase := range RainbowPhrases {
		if strings.Contains(lowerText, phrase) {
			return false
		}
	}
	return true
}

func isKindredLandName(name string) bool {
	for _, n := range KindredLandNames {
		if n == name {
			return true
		}
	}
	return false
}

// miscWeight computes the per-candidate sampling weight of spec.md §4.3.7
// step 3.
func miscWeight(c catalog.Card, themes []string) float64 {
	weight := 1.0
	if isColorFixing(c) {
		weight *= 2
	}
	if matches := c.MultiMatch(themes); matches > 0 {
		bonus := MiscLandThemeMatchBase + float64(matches-1)*MiscLandThemeMatchPerExtra
		if bonus > MiscLandThemeMatchCap {
			bonus = MiscLandThemeMatchCap
		}
		weight *= bonus
	}
	if isKindredLandName(c.Name) {
		weight *= 0.5
	}
	return weight
}

func isColorFixing(c catalog.Card) bool {
	typeLine := strings.ToLower(c.TypeLine)
	basicTypeCount := 0
	for _, word := range basicLandWord {
		if strings.Contains(typeLine, word) {
			basicTypeCount++
		}
	}
	if basicTypeCount >= 2 {
		return true
	}
	for _, phrase := range RainbowPhrases {
		if strings.Contains(c.Text, phrase) {
			return true
		}
	}
	return countDistinctColorSymbols(c.Text) >= 2
}

func countDistinctColorSymbols(text string) int {
	n := 0
	for _, letter := range catalog.Colors {
		if strings.Contains(text, "{"+strings.ToLower(letter)+"}") {
			n++
		}
	}
	return n
}

// tagLandSuggestions maps a theme-tag substring to a land name worth adding
// if slots remain after L7 (spec.md §4.3.7 step 5).
var tagLandSuggestions = map[string]string{
	"counters":  "Gavony Township",
	"graveyard": "Boseiju, Who Endures",
}

func suggestTagDrivenLands(s *deckbuild.State) error {
	if currentLandCount(s) >= s.Config.IdealCounts.Lands {
		return nil
	}
	for _, theme := range s.Config.Themes.List() {
		lower := strings.ToLower(theme)
		for tagSubstr, landName := range tagLandSuggestions {
			if currentLandCount(s) >= s.Config.IdealCounts.Lands {
				return nil
			}
			if !strings.Contains(lower, tagSubstr) || s.Library.Has(landName) {
				continue
			}
			card, found := s.Catalog.ByName(landName)
			if !found {
				continue
			}
			s.Library.Add(deckbuild.Entry{
				Name:     card.Name,
				Count:    1,
				CardType: "Land",
				Tags:     card.ThemeTags,
				Role:     deckbuild.RoleUtility,
				AddedBy:  "land_misc_tag_suggestion",
			})
			consumeFromPool(s, card.Name)
		}
	}
	return nil
}
