package land

import (
	"strings"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

// Kindred runs Phase L3: baseline tribal-support lands plus a scan for lands
// referencing the tribe extracted from a "kindred"/"tribal" theme tag
// (spec.md §4.3.3). It is a no-op if no selected theme is tribal.
func Kindred(s *deckbuild.State) error {
	if !s.HasKindredTheme() {
		return nil
	}

	numColors := s.Identity.Count()
	baseline := []struct {
		name string
		ok   bool
	}{
		{"Path of Ancestry", true},
		{"Cavern of Souls", numColors <= 4},
		{"Three Tree City", numColors >= 2},
	}
	for _, b := range baseline {
		if !b.ok || currentLandCount(s) >= s.Config.IdealCounts.Lands {
			continue
		}
		addKindredLand(s, b.name)
	}

	tribe := extractTribe(s.Config.Themes.List())
	if tribe == "" {
		return enforceLandCap(s)
	}

	added := 0
	for _, r := range append([]catalog.RowID(nil), s.Pool.Rows...) {
		if added >= KindredLandsMaxDynamic || currentLandCount(s) >= s.Config.IdealCounts.Lands {
			break
		}
		c := s.Pool.Card(r)
		if !c.IsLand() {
			continue
		}
		if !strings.Contains(strings.ToLower(c.Name), tribe) && !strings.Contains(c.Text, tribe) {
			continue
		}
		if s.Library.Has(c.Name) {
			continue
		}
		addKindredLand(s, c.Name)
		added++
		if added >= KindredLandsMaxPerTribe {
			break
		}
	}
	return enforceLandCap(s)
}

func addKindredLand(s *deckbuild.State, name string) {
	card, found := s.Catalog.ByName(name)
	if !found || s.Library.Has(card.Name) {
		return
	}
	s.Library.Add(deckbuild.Entry{
		Name:     card.Name,
		Count:    1,
		CardType: "Land",
		Tags:     card.ThemeTags,
		Role:     deckbuild.RoleKindred,
		AddedBy:  "land_kindred",
	})
	consumeFromPool(s, card.Name)
}

// extractTribe returns the first word after stripping "kindred"/"tribal"
// from whichever theme triggered this phase, e.g. "Elf Kindred" -> "elf"
// (spec.md §4.3.3).
func extractTribe(themes []string) string {
	for _, t := range themes {
		lower := strings.ToLower(t)
		var rest string
		switch {
		case strings.Contains(lower, "kindred"):
			rest = strings.ReplaceAll(lower, "kindred", "")
		case strings.Contains(lower, "tribal"):
			rest = strings.ReplaceAll(lower, "tribal", "")
		default:
			continue
		}
		if words := strings.Fields(rest); len(words) > 0 {
			return words[0]
		}
		return ""
	}
	return ""
}
