package fuzzy

import "github.com/mtgforge/commanderbuilder/internal/catalog"

// CommanderResolution is resolve_commander's full result, including the
// secondary-face rejection described in spec.md §4.1 step 4.
type CommanderResolution struct {
	Exact      *catalog.Card
	Candidates []catalog.Card
	Scores     []float64
	Reason     string // set when a back-face substitution occurred
}

// ResolveCommander resolves a user-typed commander name against the catalog,
// rejecting cards whose `side` marks them as a secondary (back) face only
// and substituting the front face instead, with an explanatory reason
// (spec.md §4.1 step 4).
func ResolveCommander(cat *catalog.Catalog, resolver *Resolver, query string) CommanderResolution {
	res := resolver.Resolve(query)

	out := CommanderResolution{}
	if res.Exact != nil {
		card, ok := cat.ByName(res.Exact.Name)
		if ok {
			if card.Side == "b" && card.FaceName != "" && card.FaceName != card.Name {
				if front, ok := cat.ByName(card.FaceName); ok {
					out.Exact = &front
					out.Reason = "commander's chosen name is a secondary face; using " + front.Name + " instead"
				}
			} else {
				out.Exact = &card
			}
		}
	}
	for _, c := range res.Candidates {
		card, ok := cat.ByName(c.Name)
		if !ok {
			continue
		}
		out.Candidates = append(out.Candidates, card)
		out.Scores = append(out.Scores, c.Score)
	}
	return out
}
