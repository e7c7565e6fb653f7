package land

import (
	"math"
	"sort"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

// basicNames maps a color letter to its basic land name.
var basicNames = map[string]string{
	"W": "Plains", "U": "Island", "B": "Swamp", "R": "Mountain", "G": "Forest",
}

var snowBasicNames = map[string]string{
	"W": "Snow-Covered Plains", "U": "Snow-Covered Island", "B": "Snow-Covered Swamp",
	"R": "Snow-Covered Mountain", "G": "Snow-Covered Forest",
}

// Basics runs Phase L1: distributing a target number of basic lands evenly
// across the commander's colors, round-robin after sorting alphabetically
// (spec.md §4.3.1).
func Basics(s *deckbuild.State) error {
	target := int(math.Ceil(1.3 * float64(s.Config.IdealCounts.BasicLands)))
	if target > s.Config.IdealCounts.Lands {
		target = s.Config.IdealCounts.Lands
	}

	snow := s.HasSnowTheme()
	names := basicNames
	if snow {
		names = snowBasicNames
	}

	colors := s.Identity.Letters()
	sort.Strings(colors)
	if len(colors) == 0 {
		name := "Wastes"
		addBasic(s, name, target)
		return enforceLandCap(s)
	}

	base := target / len(colors)
	remainder := target % len(colors)
	for i, c := range colors {
		count := base
		if i < remainder {
			count++
		}
		addBasic(s, names[c], count)
	}
	return enforceLandCap(s)
}

func addBasic(s *deckbuild.State, name string, count int) {
	if count <= 0 {
		return
	}
	if e, ok := s.Library.Get(name); ok {
		e.Count += count
		return
	}
	s.Library.Add(deckbuild.Entry{
		Name:     name,
		Count:    count,
		CardType: "Basic Land",
		Role:     deckbuild.RoleBasic,
		AddedBy:  "land_basics",
	})
}

// enforceLandCap trims the most-abundant basic lands down to ideal_lands
// whenever the running land count exceeds it, respecting the basic floor
// (spec.md §4.3 "each land phase ends by enforcing the global land cap").
func enforceLandCap(s *deckbuild.State) error {
	ideal := s.Config.IdealCounts.Lands
	floor := int(math.Ceil(0.9 * float64(s.Config.IdealCounts.BasicLands)))
	if floor < 1 {
		floor = 1
	}

	for currentLandCount(s) > ideal {
		name, entry := mostAbundantBasic(s)
		basics := 0
		for _, e := range s.Library.Entries() {
			if e.Role == deckbuild.RoleBasic {
				basics += e.Count
			}
		}
		if entry == nil || basics <= floor {
			break
		}
		entry.Count--
		if entry.Count == 0 {
			s.Library.Remove(name)
		}
	}
	return nil
}

func currentLandCount(s *deckbuild.State) int {
	n := 0
	for _, e := range s.Library.Entries() {
		if isLandType(e.CardType) {
			n += e.Count
		}
	}
	return n
}

func isLandType(cardType string) bool {
	c := catalog.Card{TypeLine: cardType}
	return (&c).IsLand()
}

func mostAbundantBasic(s *deckbuild.State) (string, *deckbuild.Entry) {
	var bestName string
	var best *deckbuild.Entry
	for _, e := range s.Library.Entries() {
		if e.Role != deckbuild.RoleBasic {
			continue
		}
		if best == nil || e.Count > best.Count {
			best = e
			bestName = e.Name
		}
	}
	return bestName, best
}
