// Package bracket holds the power-bracket policy table (spec.md §4.2) and
// its optional YAML overrides (spec.md §6).
package bracket

import (
	"fmt"
)

// Category is a capped compliance category (spec.md §3 Compliance report).
type Category string

const (
	GameChangers    Category = "game_changers"
	ExtraTurns      Category = "extra_turns"
	MassLandDenial  Category = "mass_land_denial"
	TutorsNonland   Category = "tutors_nonland"
	TwoCardCombos   Category = "two_card_combos"
)

// AllCategories lists every capped category in a stable order.
var AllCategories = []Category{GameChangers, ExtraTurns, MassLandDenial, TutorsNonland, TwoCardCombos}

// Limit is a hard cap; nil means unlimited.
type Limit struct {
	Value *int
}

// NoLimit represents an unlimited category.
func NoLimit() Limit { return Limit{} }

// Of builds a finite Limit.
func Of(n int) Limit { return Limit{Value: &n} }

// IsUnlimited reports whether the limit has no hard cap.
func (l Limit) IsUnlimited() bool { return l.Value == nil }

// Exceeds reports whether count is strictly over the limit.
func (l Limit) Exceeds(count int) bool {
	return l.Value != nil && count > *l.Value
}

// AtOrAbove reports whether count has reached a positive limit; it is false
// for an unlimited category and for a limit of zero.
func (l Limit) AtOrAbove(count int) bool {
	return l.Value != nil && count >= *l.Value && *l.Value > 0
}

// Policy is the per-level bracket policy record (spec.md §4.2).
type Policy struct {
	Level       int
	Name        string
	Limits      map[Category]Limit
	WarnAt      map[Category]int // optional soft thresholds, e.g. "extra_turns_warn"
	Description string
}

// Table is the full level -> Policy mapping, loaded once at process start
// (spec.md §5 "Bracket policy tables... loaded at process start; cached").
type Table struct {
	byLevel map[int]Policy
}

// DefaultTable returns the hard-coded bracket policy table of spec.md §4.2.
func DefaultTable() *Table {
	t := &Table{byLevel: map[int]Policy{}}
	t.byLevel[1] = Policy{Level: 1, Name: "Exhibition", Limits: map[Category]Limit{
		GameChangers: Of(0), ExtraTurns: Of(0), MassLandDenial: Of(0), TutorsNonland: Of(3), TwoCardCombos: Of(0),
	}}
	t.byLevel[2] = Policy{Level: 2, Name: "Core", Limits: map[Category]Limit{
		GameChangers: Of(0), ExtraTurns: Of(3), MassLandDenial: Of(0), TutorsNonland: Of(3), TwoCardCombos: Of(0),
	}}
	t.byLevel[3] = Policy{Level: 3, Name: "Upgraded", Limits: map[Category]Limit{
		GameChangers: Of(3), ExtraTurns: Of(3), MassLandDenial: Of(0), TutorsNonland: NoLimit(), TwoCardCombos: Of(0),
	}}
	t.byLevel[4] = Policy{Level: 4, Name: "Optimized", Limits: map[Category]Limit{
		GameChangers: NoLimit(), ExtraTurns: NoLimit(), MassLandDenial: NoLimit(), TutorsNonland: NoLimit(), TwoCardCombos: NoLimit(),
	}}
	t.byLevel[5] = Policy{Level: 5, Name: "cEDH", Limits: map[Category]Limit{
		GameChangers: NoLimit(), ExtraTurns: NoLimit(), MassLandDenial: NoLimit(), TutorsNonland: NoLimit(), TwoCardCombos: NoLimit(),
	}}
	return t
}

// Load returns the policy for a level (1-5).
func (t *Table) Load(level int) (Policy, error) {
	p, ok := t.byLevel[level]
	if !ok {
		return Policy{}, fmt.Errorf("bracket level out of range: %d", level)
	}
	return p, nil
}

// ApplyOverride merges a YAML-decoded override (spec.md §6) into the table,
// replacing or adding the named level.
func (t *Table) ApplyOverride(o YAMLPolicy) {
	p := Policy{Level: o.Level, Name: o.Name, Limits: map[Category]Limit{}, WarnAt: map[Category]int{}}
	set := func(cat Category, v *int) {
		if v == nil {
			p.Limits[cat] = NoLimit()
			return
		}
		p.Limits[cat] = Of(*v)
	}
	set(GameChangers, o.Limits.GameChangers)
	set(ExtraTurns, o.Limits.ExtraTurns)
	set(MassLandDenial, o.Limits.MassLandDenial)
	set(TutorsNonland, o.Limits.TutorsNonland)
	set(TwoCardCombos, o.Limits.TwoCardCombos)
	if o.Limits.ExtraTurnsWarn != nil {
		p.WarnAt[ExtraTurns] = *o.Limits.ExtraTurnsWarn
	}
	if o.Limits.TutorsNonlandWarn != nil {
		p.WarnAt[TutorsNonland] = *o.Limits.TutorsNonlandWarn
	}
	t.byLevel[p.Level] = p
}

// TappedLandThreshold returns the per-bracket ETB-tapped-land cap
// (spec.md §4.3.8).
func TappedLandThreshold(level int) int {
	thresholds := map[int]int{1: 14, 2: 12, 3: 10, 4: 8, 5: 6}
	if v, ok := thresholds[level]; ok {
		return v
	}
	return 10
}

// categoryTag maps a capped category to the theme-tag convention the
// catalog carries on individually flagged cards (e.g. "Bracket:GameChanger"
// lowercased to "bracket:gamechanger" by the loader), spec.md §4.4 step 3.
var categoryTag = map[Category]string{
	GameChangers:   "bracket:gamechanger",
	ExtraTurns:     "bracket:extraturn",
	MassLandDenial: "bracket:masslanddenial",
	TutorsNonland:  "bracket:tutornonland",
}

// HasCategoryTag reports whether a card's theme tags carry the bracket flag
// for cat.
func HasCategoryTag(tags []string, cat Category) bool {
	tag, ok := categoryTag[cat]
	if !ok {
		return false
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ZeroLimitCategories returns the categories this policy caps at exactly
// zero — cards carrying those tags must be filtered out of every builder
// pool before selection (spec.md §4.4 step 3, §4.5 "each applies bracket
// pre-filters").
func (p Policy) ZeroLimitCategories() []Category {
	var out []Category
	for _, cat := range AllCategories {
		if cat == TwoCardCombos {
			continue
		}
		if lim, ok := p.Limits[cat]; ok && !lim.IsUnlimited() && *lim.Value == 0 {
			out = append(out, cat)
		}
	}
	return out
}

// ConservativeWarn reports whether bracket level's conservative fallback
// turns an in-limit nonzero count into a WARN (spec.md §4.2: "For brackets
// 1-2, tutors_nonland and extra_turns counts > 0 trigger a WARN").
func ConservativeWarn(level int, cat Category) bool {
	return level <= 2 && (cat == TutorsNonland || cat == ExtraTurns)
}
