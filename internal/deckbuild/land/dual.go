package land

import (
	"sort"
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// Dual runs Phase L5: two-color nonbasic lands, ranked per spec.md §4.3.5
// and drawn round-robin across each commander color pair's bucket until the
// dual-land target is reached. A no-op for mono-colored commanders.
func Dual(s *deckbuild.State) error {
	colors := s.Identity.Letters()
	if len(colors) < 2 {
		return nil
	}

	target := DualLandDefaultCount

	buckets := make(map[string][]rng.Weighted)
	pairOrder := colorPairs(colors)
	for _, pair := range pairOrder {
		buckets[pair] = nil
	}

	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if s.Library.Has(c.Name) {
			continue
		}
		pair, ok := dualPairFor(c, colors)
		if !ok {
			continue
		}
		rank := dualRank(c)
		buckets[pair] = append(buckets[pair], rng.Weighted{Name: c.Name, Weight: float64(rank + 1)})
	}

	shuffled := make(map[string][]rng.Weighted, len(buckets))
	for pair, cands := range buckets {
		shuffled[pair] = s.RNG.WeightedShuffle(cands)
	}

	added := 0
	idx := make(map[string]int)
	for added < target {
		progressed := false
		for _, pair := range pairOrder {
			if added >= target {
				break
			}
			list := shuffled[pair]
			i := idx[pair]
			if i >= len(list) {
				continue
			}
			idx[pair] = i + 1
			name := list[i].Name
			card, found := s.Catalog.ByName(name)
			if !found || s.Library.Has(card.Name) {
				continue
			}
			s.Library.Add(deckbuild.Entry{
				Name:     card.Name,
				Count:    1,
				CardType: "Land",
				Tags:     card.ThemeTags,
				Role:     deckbuild.RoleDual,
				AddedBy:  "land_dual",
			})
			consumeFromPool(s, card.Name)
			added++
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return enforceLandCap(s)
}

// colorPairs returns every unordered pair of colors as an "XY" key whose
// letters keep the order of colors; the list of keys is sorted lexically.
func colorPairs(colors []string) []string {
	var pairs []string
	for i := 0; i < len(colors); i++ {
		for j := i + 1; j < len(colors); j++ {
			pairs = append(pairs, colors[i]+colors[j])
		}
	}
	sort.Strings(pairs)
	return pairs
}

// dualPairFor reports the bucket key for a candidate dual land: its type
// line must contain exactly the two basic land types of some commander
// color pair.
func dualPairFor(c catalog.Card, colors []string) (string, bool) {
	if !c.IsLand() {
		return "", false
	}
	typeLine := strings.ToLower(c.TypeLine)
	var matched []string
	for _, color := range colors {
		if strings.Contains(typeLine, basicLandWord[color]) {
			matched = append(matched, color)
		}
	}
	if len(matched) != 2 {
		return "", false
	}
	return matched[0] + matched[1], true
}

// dualRank scores a dual land candidate per spec.md §4.3.5.
func dualRank(c catalog.Card) int {
	rank := 0
	text := c.Text
	switch {
	case strings.Contains(text, "as this land enters, you may pay 2 life"):
		rank += 10 // shock land
	case strings.Contains(text, "deals 1 damage to you"):
		rank += 0 // painful-gain land
	case strings.Contains(text, "enters the battlefield tapped"):
		rank -= 1
	default:
		rank += 2 // untapped
	}
	if strings.Contains(strings.ToLower(c.TypeLine), "snow") {
		rank += 1
	}
	return rank
}
