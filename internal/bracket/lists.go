package bracket

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// CardList is one of the policy card-name lists (spec.md §6 Policy lists):
// game_changers.json, extra_turns.json, mass_land_denial.json,
// tutors_nonland.json.
type CardList struct {
	ListVersion string          `json:"list_version"`
	Cards       []string        `json:"cards"`
	normalized  map[string]bool
}

// LoadCardList reads one policy list JSON file.
func LoadCardList(path string) (*CardList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy list %s: %w", path, err)
	}
	var cl CardList
	if err := json.Unmarshal(data, &cl); err != nil {
		return nil, fmt.Errorf("parse policy list %s: %w", path, err)
	}
	cl.buildIndex()
	return &cl, nil
}

func (cl *CardList) buildIndex() {
	cl.normalized = make(map[string]bool, len(cl.Cards))
	for _, name := range cl.Cards {
		cl.normalized[canonicalName(name)] = true
	}
}

// Contains reports whether name (any casing) is on the list.
func (cl *CardList) Contains(name string) bool {
	if cl == nil {
		return false
	}
	if cl.normalized == nil {
		cl.buildIndex()
	}
	return cl.normalized[canonicalName(name)]
}

// canonicalName applies the combo/policy-list canonicalization spec.md §4.7
// and §9 describe: casefold, curly-quote normalization, and `A-` prefix
// strip. Punctuation stripping is deliberately NOT applied here — spec.md
// §9's open question defers it pending source verification, so only the
// documented steps are implemented.
func canonicalName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "A-")
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "‘", "'")
	return strings.ToLower(s)
}

// ComboPair is one entry of the two-card combo database (spec.md §6).
type ComboPair struct {
	A               string   `json:"a"`
	B               string   `json:"b"`
	CheapEarly      bool     `json:"cheap_early"`
	SetupDependent  bool     `json:"setup_dependent"`
	Tags            []string `json:"tags"`
}

// ComboList is the full combos.json document.
type ComboList struct {
	ListVersion string      `json:"list_version"`
	Pairs       []ComboPair `json:"pairs"`
}

// LoadComboList reads combos.json.
func LoadComboList(path string) (*ComboList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read combo list %s: %w", path, err)
	}
	var cl ComboList
	if err := json.Unmarshal(data, &cl); err != nil {
		return nil, fmt.Errorf("parse combo list %s: %w", path, err)
	}
	return &cl, nil
}

// key canonicalizes an unordered name pair into a stable lookup key.
func key(a, b string) string {
	ca, cb := canonicalName(a), canonicalName(b)
	if ca > cb {
		ca, cb = cb, ca
	}
	return ca + "\x00" + cb
}

// PairKey exports the combo-pair canonicalization so callers scanning a
// deck for present combos can probe the index without reimplementing the
// pair-key convention.
func PairKey(a, b string) string {
	return key(a, b)
}

// Index builds a lookup from canonical pair key to ComboPair.
func (cl *ComboList) Index() map[string]ComboPair {
	out := make(map[string]ComboPair, len(cl.Pairs))
	for _, p := range cl.Pairs {
		out[key(p.A, p.B)] = p
	}
	return out
}
