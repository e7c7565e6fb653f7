// Package compliance scores a built library against bracket policy
// (spec.md §4.7): per-category counts, combo detection, and an overall
// verdict.
package compliance

import (
	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

// Status is a single category's compliance state.
type Status string

const (
	Pass Status = "PASS"
	Warn Status = "WARN"
	Fail Status = "FAIL"
)

// CategoryResult is one policy category's scored outcome.
type CategoryResult struct {
	Category bracket.Category
	Count    int
	Limit    bracket.Limit
	Status   Status
}

// ComboResult is the two-card combo category's scored outcome.
type ComboResult struct {
	Count  int
	Limit  bracket.Limit
	Status Status
	Pairs  [][2]string
}

// Report is the full compliance evaluation (spec.md §3 Compliance report).
type Report struct {
	Categories       []CategoryResult
	Combos           ComboResult
	CommanderFlagged bool
	Verdict          Status
}

// Lists bundles the policy card-name lists and combo database the evaluator
// checks a library against, in addition to theme tags.
type Lists struct {
	GameChangers   *bracket.CardList
	ExtraTurns     *bracket.CardList
	MassLandDenial *bracket.CardList
	TutorsNonland  *bracket.CardList
	Combos         *bracket.ComboList
}

// Evaluate scores the library against the bracket policy table for the
// build's configured level (spec.md §4.7).
func Evaluate(s *deckbuild.State, table *bracket.Table, lists Lists) (Report, error) {
	policy, err := table.Load(s.Config.BracketLevel)
	if err != nil {
		return Report{}, err
	}

	var report Report
	overallFail, overallWarn := false, false

	for _, cat := range []bracket.Category{bracket.GameChangers, bracket.ExtraTurns, bracket.MassLandDenial, bracket.TutorsNonland} {
		count := countCategory(s, cat, lists)
		limit := policy.Limits[cat]
		status := Pass
		if limit.Exceeds(count) {
			status = Fail
		} else if warnAt, ok := policy.WarnAt[cat]; ok && count >= warnAt {
			status = Warn
		} else if count > 0 && bracket.ConservativeWarn(s.Config.BracketLevel, cat) && !limit.Exceeds(count) {
			status = Warn
		}
		if status == Fail {
			overallFail = true
		} else if status == Warn {
			overallWarn = true
		}
		report.Categories = append(report.Categories, CategoryResult{Category: cat, Count: count, Limit: limit, Status: status})
	}

	if lists.GameChangers != nil && lists.GameChangers.Contains(s.Commander.Name) {
		report.CommanderFlagged = true
		if s.Config.BracketLevel <= 2 {
			overallFail = true
		}
	}

	report.Combos = evaluateCombos(s, policy, lists)
	switch report.Combos.Status {
	case Fail:
		overallFail = true
	case Warn:
		overallWarn = true
	}

	report.Verdict = Pass
	if overallWarn {
		report.Verdict = Warn
	}
	if overallFail {
		report.Verdict = Fail
	}
	return report, nil
}

func countCategory(s *deckbuild.State, cat bracket.Category, lists Lists) int {
	list := listFor(cat, lists)
	n := 0
	for _, e := range s.Library.Entries() {
		if bracket.HasCategoryTag(e.Tags, cat) || (list != nil && list.Contains(e.Name)) {
			n += e.Count
		}
	}
	return n
}

func listFor(cat bracket.Category, lists Lists) *bracket.CardList {
	switch cat {
	case bracket.GameChangers:
		return lists.GameChangers
	case bracket.ExtraTurns:
		return lists.ExtraTurns
	case bracket.MassLandDenial:
		return lists.MassLandDenial
	case bracket.TutorsNonland:
		return lists.TutorsNonland
	default:
		return nil
	}
}

// evaluateCombos scans all unordered library pairs for cheap-early combos
// (spec.md §4.7 two-card combos).
func evaluateCombos(s *deckbuild.State, policy bracket.Policy, lists Lists) ComboResult {
	limit := policy.Limits[bracket.TwoCardCombos]
	if lists.Combos == nil {
		return ComboResult{Limit: limit, Status: Pass}
	}
	index := lists.Combos.Index()

	entries := s.Library.Entries()
	var pairs [][2]string
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			pair, ok := lookupPair(index, entries[i].Name, entries[j].Name)
			if !ok || !pair.CheapEarly {
				continue
			}
			pairs = append(pairs, [2]string{entries[i].Name, entries[j].Name})
		}
	}

	status := Pass
	if limit.Exceeds(len(pairs)) {
		status = Fail
	}
	return ComboResult{Count: len(pairs), Limit: limit, Status: status, Pairs: pairs}
}

func lookupPair(index map[string]bracket.ComboPair, a, b string) (bracket.ComboPair, bool) {
	pair, ok := index[bracket.PairKey(a, b)]
	return pair, ok
}
