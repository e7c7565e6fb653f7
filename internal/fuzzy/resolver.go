// Package fuzzy resolves user-typed commander/card names against the
// catalog (spec.md §4.1 resolve_commander), grounded on the teacher's
// internal/mtga/cards/fuzzy search scorer but reimplementing the exact
// scoring formula spec.md documents rather than a generic Levenshtein blend.
package fuzzy

import (
	"sort"
	"strings"
)

const (
	// ExactThreshold is the fuzzy score at/above which a single candidate is
	// treated as an exact match (spec.md §4.1 step 2).
	ExactThreshold = 80
	// MaxPresentedChoices bounds the candidate list returned to the caller.
	MaxPresentedChoices = 5
)

// Candidate is a scored match against the catalog.
type Candidate struct {
	Name  string
	Score float64
}

// Resolver scores query strings against a fixed catalog of names.
type Resolver struct {
	names    []string
	popular  map[string]bool // curated popular/iconic sets
}

// NewResolver builds a resolver over catalog names, with an optional curated
// popularity set used for the popularity/iconic boost.
func NewResolver(names []string, popular map[string]bool) *Resolver {
	if popular == nil {
		popular = map[string]bool{}
	}
	return &Resolver{names: names, popular: popular}
}

// Normalize strips Arena "A-" prefixes and curly apostrophes, then casefolds
// (spec.md §4.1 step 1).
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "A-")
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.ReplaceAll(s, "‘", "'")
	return strings.ToLower(s)
}

// Resolution is the result of resolve_commander.
type Resolution struct {
	Exact      *Candidate
	Candidates []Candidate
}

// Resolve finds the exact match (if any) and the ranked candidate list for a
// user-typed query (spec.md §4.1 resolve_commander).
func (r *Resolver) Resolve(query string) Resolution {
	q := Normalize(query)

	scored := make([]Candidate, 0, len(r.names))
	for _, name := range r.names {
		score := r.Score(q, name)
		if score > 0 {
			scored = append(scored, Candidate{Name: name, Score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Name < scored[j].Name
	})

	res := Resolution{}
	if len(scored) > 0 && scored[0].Score >= ExactThreshold {
		c := scored[0]
		res.Exact = &c
	}
	if len(scored) > MaxPresentedChoices {
		scored = scored[:MaxPresentedChoices]
	}
	res.Candidates = scored
	return res
}

// Score computes the fuzzy score for a normalized query against a catalog
// name, per spec.md §4.1: "fraction of longest matching subsequence x 100"
// plus boosts for prefix (+0.5 scaled), word-prefix (+0.3 scaled), substring
// (+0.2 scaled), and popularity (+0.25 scaled if curated).
func (r *Resolver) Score(normalizedQuery, catalogName string) float64 {
	target := Normalize(catalogName)
	if normalizedQuery == "" || target == "" {
		return 0
	}
	if normalizedQuery == target {
		return 100
	}

	base := lcsSubsequenceFraction(normalizedQuery, target) * 100

	boost := 0.0
	if strings.HasPrefix(target, normalizedQuery) {
		boost += 0.5
	}
	if hasWordPrefix(target, normalizedQuery) {
		boost += 0.3
	}
	if strings.Contains(target, normalizedQuery) {
		boost += 0.2
	}
	if r.popular[catalogName] {
		boost += 0.25
	}

	score := base * (1 + boost)
	if score > 100 {
		score = 100
	}
	return score
}

// hasWordPrefix reports whether any whitespace-delimited word in target
// starts with query.
func hasWordPrefix(target, query string) bool {
	for _, word := range strings.Fields(target) {
		if strings.HasPrefix(word, query) {
			return true
		}
	}
	return false
}

// lcsSubsequenceFraction returns len(LCS(a,b)) / len(b) as a 0..1 fraction,
// the "fraction of longest matching subsequence" spec.md §4.1 specifies.
func lcsSubsequenceFraction(a, b string) float64 {
	if len(b) == 0 {
		return 0
	}
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return float64(dp[n][m]) / float64(m)
}
