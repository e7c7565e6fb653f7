// Package enforcement implements the two-pass compliance enforcement
// engine (spec.md §4.8): category trimming followed by combo breaking.
package enforcement

import (
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
)

// Swap records one enforcement removal/replacement pair for the report.
type Swap struct {
	Removed string
	Added   string
	Role    deckbuild.Role
}

// Report is the enforcement sub-report (spec.md §4.8 "emit an enforcement
// sub-report").
type Report struct {
	Removed []string
	Added   []string
	Swaps   []Swap
}

// Run executes enforcement when the build's enforcement mode is "enforce"
// and the compliance verdict is FAIL (spec.md §4.8). In "warn" mode it is a
// no-op; the compliance report alone surfaces the failure.
func Run(s *deckbuild.State) error {
	if s.Config.EnforcementMode != deckbuild.EnforcementEnforce {
		return nil
	}
	report, ok := s.Compliance.(compliance.Report)
	if !ok || report.Verdict != compliance.Fail {
		return nil
	}

	lists := loadLists(s)
	prohibited := prohibitedNames(lists)

	var out Report
	trimCategories(s, report, prohibited, &out)

	refreshed, err := compliance.Evaluate(s, bracket.DefaultTable(), lists)
	if err == nil {
		s.Compliance = refreshed
		report = refreshed
	}

	if report.Combos.Status == compliance.Fail {
		breakCombos(s, report, prohibited, &out)
	}

	s.Diagnostics.Warn(summarize(out))
	return nil
}

// loadLists returns the same named policy lists the compliance phase read,
// so the post-trim re-evaluation scores against identical named-list data
// (spec.md §6 Policy lists). It reuses State.PolicyLists when the caller
// pre-loaded it through a cache.Suite, falling back to a fresh disk read
// from Config.PolicyDir otherwise.
func loadLists(s *deckbuild.State) compliance.Lists {
	if lists, ok := s.PolicyLists.(compliance.Lists); ok {
		return lists
	}
	dir := s.Config.PolicyDir
	if dir == "" {
		return compliance.Lists{}
	}
	load := func(file string) *bracket.CardList {
		cl, err := bracket.LoadCardList(filepath.Join(dir, file))
		if err != nil {
			return nil
		}
		return cl
	}
	combos, _ := bracket.LoadComboList(filepath.Join(dir, "combos.json"))
	return compliance.Lists{
		GameChangers:   load("game_changers.json"),
		ExtraTurns:     load("extra_turns.json"),
		MassLandDenial: load("mass_land_denial.json"),
		TutorsNonland:  load("tutors_nonland.json"),
		Combos:         combos,
	}
}

func trimCategories(s *deckbuild.State, report compliance.Report, prohibited map[string]bool, out *Report) {
	for _, cat := range report.Categories {
		if cat.Status != compliance.Fail || cat.Limit.IsUnlimited() {
			continue
		}
		flagged := flaggedEntries(s, cat.Category)
		sort.Slice(flagged, func(i, j int) bool {
			return desirability(s, flagged[i]) < desirability(s, flagged[j])
		})

		keep := *cat.Limit.Value
		if keep < 0 {
			keep = 0
		}
		toRemove := flagged
		if keep < len(flagged) {
			toRemove = flagged[keep:]
		} else {
			toRemove = nil
		}

		for _, e := range toRemove {
			if e.Locked {
				continue
			}
			removeAndReplace(s, e, prohibited, out)
		}
	}
}

func flaggedEntries(s *deckbuild.State, cat bracket.Category) []*deckbuild.Entry {
	var out []*deckbuild.Entry
	for _, e := range s.Library.Entries() {
		if bracket.HasCategoryTag(e.Tags, cat) {
			out = append(out, e)
		}
	}
	return out
}

func desirability(s *deckbuild.State, e *deckbuild.Entry) int {
	card, found := s.Catalog.ByName(e.Name)
	if !found {
		return 1 << 30
	}
	return card.EDHRecRankOrMax()*1000 + int(card.ManaValue)
}

func removeAndReplace(s *deckbuild.State, e *deckbuild.Entry, prohibited map[string]bool, out *Report) {
	name := e.Name
	role := e.Role
	s.Library.Remove(name)
	out.Removed = append(out.Removed, name)

	replacement := findReplacement(s, role, prohibited)
	if replacement == nil {
		return
	}
	s.Library.Add(deckbuild.Entry{
		Name:      replacement.Name,
		Count:     1,
		CardType:  primaryType(replacement.TypeLine),
		ManaCost:  replacement.ManaCost,
		ManaValue: replacement.ManaValue,
		Tags:      replacement.ThemeTags,
		Role:      role,
		AddedBy:   "enforcement_replace",
	})
	s.Pool.RemoveByName(map[string]bool{catalog.NormalizeName(replacement.Name): true})
	out.Added = append(out.Added, replacement.Name)
	out.Swaps = append(out.Swaps, Swap{Removed: name, Added: replacement.Name, Role: role})
}

// findReplacement searches the remaining pool for a card sharing the
// removed card's role, falling back to any card matching a selected theme
// (spec.md §4.8 step 2). A preferred_replacements override for the role,
// when present and still in the pool, is returned before either search.
func findReplacement(s *deckbuild.State, role deckbuild.Role, prohibited map[string]bool) *catalog.Card {
	if preferred, ok := preferredReplacement(s, role); ok {
		return preferred
	}

	roleTag := roleToTag(role)
	var best *catalog.Card
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if s.Library.Has(c.Name) || prohibited[catalog.NormalizeName(c.Name)] {
			continue
		}
		if roleTag != "" && c.HasTag(roleTag) {
			cp := c
			best = &cp
			break
		}
	}
	if best != nil {
		return best
	}
	themes := s.Config.Themes.List()
	for _, r := range s.Pool.Rows {
		c := s.Pool.Card(r)
		if s.Library.Has(c.Name) || prohibited[catalog.NormalizeName(c.Name)] {
			continue
		}
		if c.MultiMatch(themes) > 0 {
			cp := c
			return &cp
		}
	}
	return nil
}

// preferredReplacement honors a user-supplied preferred_replacements map
// keyed by role, if present and still available in the pool (spec.md §4.8
// step 1).
func preferredReplacement(s *deckbuild.State, role deckbuild.Role) (*catalog.Card, bool) {
	name, ok := s.Config.PreferredReplacements[string(role)]
	if !ok {
		return nil, false
	}
	card, found := s.Catalog.ByName(name)
	if !found || s.Library.Has(card.Name) {
		return nil, false
	}
	for _, r := range s.Pool.Rows {
		if s.Pool.Card(r).Name == card.Name {
			return &card, true
		}
	}
	return nil, false
}

func roleToTag(role deckbuild.Role) string {
	switch role {
	case deckbuild.RoleProtection:
		return "protection"
	case deckbuild.RoleCardAdvantage:
		return "card advantage"
	case deckbuild.RoleRemoval:
		return "removal"
	case deckbuild.RoleWipe:
		return "board wipe"
	default:
		return ""
	}
}

// prohibitedNames builds the normalized set of card names a replacement must
// avoid: every name on any loaded bracket policy list (spec.md §4.8 step 3).
func prohibitedNames(lists compliance.Lists) map[string]bool {
	out := map[string]bool{}
	for _, list := range []*bracket.CardList{lists.GameChangers, lists.ExtraTurns, lists.MassLandDenial, lists.TutorsNonland} {
		if list == nil {
			continue
		}
		for _, name := range list.Cards {
			out[catalog.NormalizeName(name)] = true
		}
	}
	return out
}

func primaryType(typeLine string) string {
	c := catalog.Card{TypeLine: typeLine}
	switch {
	case c.HasType("Creature"):
		return "Creature"
	case c.HasType("Land"):
		return "Land"
	default:
		return "Spell"
	}
}

// breakCombos repeatedly removes the card appearing in the most remaining
// cheap-early pairs (ties broken by worst edhrec_rank) until the combo
// count is at or below the bracket limit, or no removable card makes
// progress (spec.md §4.8 second pass).
func breakCombos(s *deckbuild.State, report compliance.Report, prohibited map[string]bool, out *Report) {
	limit := report.Combos.Limit
	pairs := append([][2]string(nil), report.Combos.Pairs...)

	for limit.Exceeds(len(pairs)) {
		counts := map[string]int{}
		for _, p := range pairs {
			counts[p[0]]++
			counts[p[1]]++
		}
		target, ok := worstOffender(s, counts)
		if !ok {
			break
		}
		removeAndReplace(s, &deckbuild.Entry{Name: target, Role: deckbuild.RoleFlex}, prohibited, out)

		var remaining [][2]string
		for _, p := range pairs {
			if p[0] == target || p[1] == target {
				continue
			}
			remaining = append(remaining, p)
		}
		if len(remaining) == len(pairs) {
			break // removal made no progress
		}
		pairs = remaining
	}
}

// worstOffender picks the card in the most pairs, breaking ties by worst
// (highest) edhrec_rank; the commander and lock-added cards are never
// eligible (spec.md §4.8 step 3).
func worstOffender(s *deckbuild.State, counts map[string]int) (string, bool) {
	best := ""
	bestCount := -1
	bestRank := -1
	for name, count := range counts {
		e, ok := s.Library.Get(name)
		if !ok || e.Locked || e.AddedBy == "lock" || name == s.Commander.Name {
			continue
		}
		card, found := s.Catalog.ByName(name)
		rank := 0
		if found {
			rank = card.EDHRecRankOrMax()
		}
		if count > bestCount || (count == bestCount && rank > bestRank) {
			best, bestCount, bestRank = name, count, rank
		}
	}
	if bestCount < 0 {
		return "", false
	}
	return best, true
}

func summarize(r Report) string {
	return "enforcement: removed " + strconv.Itoa(len(r.Removed)) + ", added " + strconv.Itoa(len(r.Added))
}
