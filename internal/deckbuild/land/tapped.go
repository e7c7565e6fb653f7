package land

import (
	"sort"
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

// Tapped runs Phase L8: counts unconditionally-tapped lands and swaps the
// worst offenders for better replacements once the bracket's threshold is
// exceeded (spec.md §4.3.8).
func Tapped(s *deckbuild.State) error {
	threshold, ok := TappedLandMaxThresholds[s.Config.BracketLevel]
	if !ok {
		threshold = TappedLandMaxThresholds[3]
	}

	type tappedEntry struct {
		name    string
		penalty int
	}
	var tapped []tappedEntry
	unconditional := 0
	for _, e := range s.Library.Entries() {
		if e.Role == deckbuild.RoleBasic || !isLandType(e.CardType) {
			continue
		}
		card, found := s.Catalog.ByName(e.Name)
		if !found {
			continue
		}
		if p, isTapped := tappedPenalty(card); isTapped {
			tapped = append(tapped, tappedEntry{name: e.Name, penalty: p})
			if !strings.Contains(card.Text, "enters the battlefield tapped unless") {
				unconditional++
			}
		}
	}

	if unconditional <= threshold {
		return nil
	}

	sort.Slice(tapped, func(i, j int) bool { return tapped[i].penalty > tapped[j].penalty })

	excess := unconditional - threshold
	for i := 0; i < excess && i < len(tapped); i++ {
		entry := tapped[i]
		if entry.penalty < TappedLandSwapMinPenalty {
			continue
		}
		if e, ok := s.Library.Get(entry.name); ok && e.Locked {
			continue
		}
		replacement := findTappedReplacement(s)
		s.Library.Remove(entry.name)

		if replacement != nil {
			s.Library.Add(deckbuild.Entry{
				Name:     replacement.Name,
				Count:    1,
				CardType: "Land",
				Tags:     replacement.ThemeTags,
				Role:     deckbuild.RoleOptimized,
				AddedBy:  "land_tapped_optimize",
			})
			consumeFromPool(s, replacement.Name)
		} else {
			addColorAppropriateBasic(s)
		}
	}
	return nil
}

// tappedPenalty scores a land's undesirability as an ETB-tapped source
// (spec.md §4.3.8). isTapped reports whether the land enters tapped at all
// (always or conditionally).
func tappedPenalty(c catalog.Card) (int, bool) {
	text := c.Text
	always := strings.Contains(text, "enters the battlefield tapped") &&
		!strings.Contains(text, "enters the battlefield tapped unless")
	conditional := strings.Contains(text, "enters the battlefield tapped unless")
	if !always && !conditional {
		return 0, false
	}

	penalty := 0
	if always {
		penalty += 8
	} else {
		penalty += 6
	}

	typeLine := strings.ToLower(c.TypeLine)
	basicTypeCount := 0
	for _, word := range basicLandWord {
		if strings.Contains(typeLine, word) {
			basicTypeCount++
		}
	}
	if basicTypeCount >= 3 {
		penalty -= 3
	}
	for _, phrase := range RainbowPhrases {
		if strings.Contains(text, phrase) {
			penalty -= 3
			break
		}
	}
	if strings.Contains(text, "cycling") {
		penalty -= 2
	}
	if conditional {
		penalty -= 2
	}
	return penalty, true
}

// findTappedReplacement picks the best-scored untapped candidate remaining
// in the pool (spec.md §4.3.8 replacement ranking).
func findTappedReplacement(s *deckbuild.State) *catalog.Card {
	var best *catalog.Card
	bestScore := -1 << 31
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if !c.IsLand() || s.Library.Has(c.Name) {
			continue
		}
		if strings.Contains(c.Text, "enters the battlefield tapped") &&
			!strings.Contains(c.Text, "enters the battlefield tapped unless") {
			continue
		}
		score := replacementScore(c)
		if score > bestScore {
			cp := c
			best = &cp
			bestScore = score
		}
	}
	return best
}

func replacementScore(c catalog.Card) int {
	score := 0
	text := c.Text
	if strings.Contains(text, "as this land enters, you may pay 2 life") {
		score += 20
	}
	if strings.Contains(text, "deals 1 damage to you") {
		score += 15
	}
	for _, phrase := range RainbowPhrases {
		if strings.Contains(text, phrase) {
			score += 10
			break
		}
	}
	typeLine := strings.ToLower(c.TypeLine)
	basicTypeCount := 0
	for _, word := range basicLandWord {
		if strings.Contains(typeLine, word) {
			basicTypeCount++
		}
	}
	score += basicTypeCount * 3
	if strings.Contains(text, "enters the battlefield tapped unless") {
		score += 2
	}
	if strings.Contains(text, "cycling") {
		score += 1
	}
	return score
}

func addColorAppropriateBasic(s *deckbuild.State) {
	colors := s.Identity.Letters()
	name := "Wastes"
	if len(colors) > 0 {
		names := basicNames
		if s.HasSnowTheme() {
			names = snowBasicNames
		}
		name = names[colors[s.RNG.IntN(len(colors))]]
	}
	addBasic(s, name, 1)
}
