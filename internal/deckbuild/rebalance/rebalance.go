// Package rebalance implements the post-spell color source rebalancer
// (spec.md §4.6): pip-demand vs source-supply comparison, bounded land
// swaps, and basic-land redistribution.
package rebalance

import (
	"math"
	"sort"
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

const maxSwaps = 5
const deficitThreshold = 0.15

var basicByColor = map[string]string{
	"W": "Plains", "U": "Island", "B": "Swamp", "R": "Mountain", "G": "Forest",
}
var snowBasicByColor = map[string]string{
	"W": "Snow-Covered Plains", "U": "Snow-Covered Island", "B": "Snow-Covered Swamp",
	"R": "Snow-Covered Mountain", "G": "Snow-Covered Forest",
}

// Build runs the rebalancer (spec.md §4.6 steps 1-5).
func Build(s *deckbuild.State) error {
	pipShare := spellPipShares(s)
	sourceShare := landSourceShares(s)

	deficits := findDeficits(pipShare, sourceShare)
	performSwaps(s, deficits)

	return redistributeBasics(s, pipShare)
}

// spellPipShares counts colored mana-symbol pips across non-land library
// entries other than the commander, splitting hybrid symbols evenly, and
// normalizes to shares summing to 1 (spec.md §4.6 step 1). A deck with no
// colored pips distributes evenly across the commander's color identity.
func spellPipShares(s *deckbuild.State) map[string]float64 {
	counts := map[string]float64{}
	total := 0.0
	for _, e := range s.Library.Entries() {
		if isLandEntry(e) || e.Role == deckbuild.RoleCommander {
			continue
		}
		for _, color := range catalog.Colors {
			n := strings.Count(e.ManaCost, "{"+color+"}")
			counts[color] += float64(n)
			total += float64(n)
			hybrid := hybridCount(e.ManaCost, color)
			counts[color] += hybrid / 2
			total += hybrid / 2
		}
	}

	if total <= 0 {
		shares := map[string]float64{}
		colors := s.Identity.Letters()
		if len(colors) == 0 {
			return shares
		}
		for _, c := range colors {
			shares[c] = 1.0 / float64(len(colors))
		}
		return shares
	}

	shares := map[string]float64{}
	for color, n := range counts {
		shares[color] = n / total
	}
	return shares
}

func hybridCount(manaCost, color string) float64 {
	n := 0.0
	for _, other := range catalog.Colors {
		if other == color {
			continue
		}
		n += float64(strings.Count(manaCost, "{"+color+"/"+other+"}") + strings.Count(manaCost, "{"+other+"/"+color+"}"))
	}
	return n
}

// landSourceShares determines which colors the library's lands (and
// mana-producing nonlands) produce, and normalizes to shares (spec.md §4.6
// step 2).
func landSourceShares(s *deckbuild.State) map[string]float64 {
	counts := map[string]float64{}
	total := 0.0
	for _, e := range s.Library.Entries() {
		produced := producedColors(s, e)
		if len(produced) == 0 {
			continue
		}
		per := float64(e.Count) / float64(len(produced))
		for _, c := range produced {
			counts[c] += per
			total += per
		}
	}
	if total <= 0 {
		return map[string]float64{}
	}
	shares := map[string]float64{}
	for c, n := range counts {
		shares[c] = n / total
	}
	return shares
}

// producedColors resolves which WUBRG colors an entry taps for, using
// type-line basics, a name-based fallback for Snow/Wastes variants, and
// oracle-text parsing for non-land mana sources (spec.md §4.6 step 2).
func producedColors(s *deckbuild.State, e *deckbuild.Entry) []string {
	if name, ok := basicColorFallback(e.Name); ok {
		return []string{name}
	}
	if !isLandEntry(e) && !strings.Contains(strings.ToLower(e.CardType), "artifact") && !strings.Contains(strings.ToLower(e.CardType), "enchantment") {
		return nil
	}
	card, found := s.Catalog.ByName(e.Name)
	if !found {
		return nil
	}
	typeLine := strings.ToLower(card.TypeLine)
	var produced []string
	for _, color := range catalog.Colors {
		if strings.Contains(typeLine, strings.ToLower(basicByColor[color])) {
			produced = append(produced, color)
		}
	}
	if len(produced) > 0 {
		return produced
	}
	if strings.Contains(card.Text, "add one mana of any color") {
		return append([]string{}, catalog.Colors...)
	}
	for _, color := range catalog.Colors {
		if strings.Contains(card.Text, "add {"+strings.ToLower(color)+"}") {
			produced = append(produced, color)
		}
	}
	return produced
}

func basicColorFallback(name string) (string, bool) {
	for color, basic := range basicByColor {
		if name == basic {
			return color, true
		}
	}
	for color, basic := range snowBasicByColor {
		if name == basic {
			return color, true
		}
	}
	if name == "Wastes" {
		return "", false
	}
	return "", false
}

func isLandEntry(e *deckbuild.Entry) bool {
	return strings.Contains(strings.ToLower(e.CardType), "land")
}

type deficit struct {
	Color string
	Gap   float64
}

// findDeficits flags colors where pip demand exceeds source supply by more
// than deficitThreshold, sorted by gap descending (spec.md §4.6 step 3).
func findDeficits(pipShare, sourceShare map[string]float64) []deficit {
	var out []deficit
	for color, pip := range pipShare {
		if pip <= 0 {
			continue
		}
		gap := pip - sourceShare[color]
		if gap > deficitThreshold {
			out = append(out, deficit{Color: color, Gap: gap})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gap > out[j].Gap })
	return out
}

// performSwaps executes up to maxSwaps land swaps, adding a source for each
// deficit color and removing the least useful existing land (spec.md §4.6
// step 4).
func performSwaps(s *deckbuild.State, deficits []deficit) {
	swaps := 0
	for _, d := range deficits {
		if swaps >= maxSwaps {
			break
		}
		addCard := bestAddCandidate(s, d.Color)
		if addCard == nil {
			continue
		}
		removeName, ok := bestRemoveCandidate(s, d.Color)
		if !ok {
			continue
		}
		s.Library.Remove(removeName)
		s.Library.Add(deckbuild.Entry{
			Name:     addCard.Name,
			Count:    1,
			CardType: "Land",
			Tags:     addCard.ThemeTags,
			Role:     deckbuild.RoleColorFix,
			AddedBy:  "rebalance_swap",
		})
		s.Pool.RemoveByName(map[string]bool{catalog.NormalizeName(addCard.Name): true})
		swaps++
	}
}

func bestAddCandidate(s *deckbuild.State, color string) *catalog.Card {
	var best *catalog.Card
	bestScore := -1 << 31
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if !c.IsLand() || s.Library.Has(c.Name) {
			continue
		}
		produces := false
		typeLine := strings.ToLower(c.TypeLine)
		anyColor := strings.Contains(c.Text, "add one mana of any color")
		if anyColor || strings.Contains(typeLine, strings.ToLower(basicByColor[color])) {
			produces = true
		}
		if !produces {
			continue
		}
		score := 0
		if anyColor {
			score += 30
		}
		basicTypeCount := 0
		for _, bc := range basicByColor {
			if strings.Contains(typeLine, strings.ToLower(bc)) {
				basicTypeCount++
			}
		}
		score += basicTypeCount * 10
		if strings.Contains(c.Text, "deals 1 damage to you") {
			score -= 5
		} else if !strings.Contains(c.Text, "enters the battlefield tapped") {
			score += 0
		}
		if score > bestScore {
			cp := c
			best = &cp
			bestScore = score
		}
	}
	return best
}

func bestRemoveCandidate(s *deckbuild.State, deficitColor string) (string, bool) {
	entries := s.Library.Entries()

	for _, e := range entries {
		if e.Locked || e.Role != deckbuild.RoleFlex || !isLandEntry(e) {
			continue
		}
		if !producesColor(s, e, deficitColor) {
			return e.Name, true
		}
	}

	var mostOverrepresented *deckbuild.Entry
	for _, e := range entries {
		if e.Locked || e.Role != deckbuild.RoleBasic {
			continue
		}
		if mostOverrepresented == nil || e.Count > mostOverrepresented.Count {
			mostOverrepresented = e
		}
	}
	if mostOverrepresented != nil && mostOverrepresented.Count > 1 {
		return mostOverrepresented.Name, true
	}

	for _, e := range entries {
		if e.Locked || !isLandEntry(e) || e.Role == deckbuild.RoleBasic {
			continue
		}
		if !producesColor(s, e, deficitColor) {
			return e.Name, true
		}
	}
	return "", false
}

func producesColor(s *deckbuild.State, e *deckbuild.Entry, color string) bool {
	for _, c := range producedColors(s, e) {
		if c == color {
			return true
		}
	}
	return false
}

// redistributeBasics recomputes each basic's target count from the spell
// pip shares and applies a ±1 drift correction preserving the total basic
// count (spec.md §4.6 step 5).
func redistributeBasics(s *deckbuild.State, pipShare map[string]float64) error {
	total := 0
	names := map[string]string{}
	for _, e := range s.Library.Entries() {
		if e.Role != deckbuild.RoleBasic {
			continue
		}
		total += e.Count
		if color, ok := basicColorFallback(e.Name); ok {
			names[color] = e.Name
		} else if e.Name == "Wastes" {
			names[""] = e.Name
		}
	}
	if total == 0 || len(names) == 0 {
		return nil
	}

	targets := map[string]int{}
	assigned := 0
	colors := s.Identity.Letters()
	for _, color := range colors {
		share := pipShare[color]
		n := int(math.Round(share * float64(total)))
		targets[color] = n
		assigned += n
	}

	drift := total - assigned
	for i := 0; drift != 0 && i < len(colors); i++ {
		c := colors[i%len(colors)]
		if drift > 0 {
			targets[c]++
			drift--
		} else {
			if targets[c] > 0 {
				targets[c]--
				drift++
			}
		}
	}

	for color, name := range names {
		if color == "" {
			continue
		}
		if e, ok := s.Library.Get(name); ok {
			e.Count = targets[color]
		}
	}
	return nil
}
