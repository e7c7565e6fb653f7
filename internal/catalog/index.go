package catalog

import "strings"

// TagIndex maps a normalized theme tag to the set of catalog rows carrying
// it, enabling O(1) tag membership filtering (spec.md §4.1 load_catalog).
type TagIndex struct {
	byTag map[string][]RowID
}

// BuildTagIndex builds the tag -> row-id index once at catalog load time.
func BuildTagIndex(cards []Card) *TagIndex {
	idx := &TagIndex{byTag: make(map[string][]RowID)}
	for i, c := range cards {
		for _, tag := range c.ThemeTags {
			idx.byTag[tag] = append(idx.byTag[tag], RowID(i))
		}
	}
	return idx
}

// Rows returns the rows tagged with the given (normalized) theme tag.
func (idx *TagIndex) Rows(tag string) []RowID {
	return idx.byTag[strings.ToLower(tag)]
}

// Tags returns every known tag key (used by the random-mode synergy
// fallback's substring scan over tag keys, spec.md §4.9 step 5).
func (idx *TagIndex) Tags() []string {
	out := make([]string, 0, len(idx.byTag))
	for t := range idx.byTag {
		out = append(out, t)
	}
	return out
}

// Pool is a filtered view over the catalog: a set of surviving row ids plus
// a back-reference to the catalog for field lookups. Phases narrow the pool
// but never add rows to it (spec.md §3 lifecycle).
type Pool struct {
	Catalog *Catalog
	Rows    []RowID
}

// NewPool builds the initial pool: catalog rows filtered by color identity,
// the exclusion list, and (optionally) an owned-only restriction
// (spec.md §3 lifecycle, "Pool: initialized as catalog filtered by...").
func NewPool(cat *Catalog, identity ColorSet, exclude map[string]bool, ownedOnly bool, owned map[string]bool) *Pool {
	p := &Pool{Catalog: cat}
	for i, c := range cat.Cards {
		if !c.ColorIdentity.SubsetOf(identity) {
			continue
		}
		if exclude[normalizeName(c.Name)] {
			continue
		}
		if ownedOnly && !owned[normalizeName(c.Name)] {
			continue
		}
		p.Rows = append(p.Rows, RowID(i))
	}
	return p
}

// Card resolves a row id to its card value.
func (p *Pool) Card(r RowID) Card { return p.Catalog.Cards[r] }

// Filter returns a new pool containing only rows matching pred.
func (p *Pool) Filter(pred func(Card) bool) *Pool {
	out := &Pool{Catalog: p.Catalog}
	for _, r := range p.Rows {
		if pred(p.Card(r)) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Remove drops the given row ids from the pool (phases "consume" rows as
// they are added to the deck; spec.md §3 lifecycle).
func (p *Pool) Remove(consumed map[RowID]bool) {
	kept := p.Rows[:0]
	for _, r := range p.Rows {
		if !consumed[r] {
			kept = append(kept, r)
		}
	}
	p.Rows = kept
}

// RemoveByName drops rows whose card name matches (case-insensitive).
func (p *Pool) RemoveByName(names map[string]bool) {
	kept := p.Rows[:0]
	for _, r := range p.Rows {
		if !names[normalizeName(p.Card(r).Name)] {
			kept = append(kept, r)
		}
	}
	p.Rows = kept
}

// Names returns the card names of the current pool, in row order.
func (p *Pool) Names() []string {
	out := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		out[i] = p.Card(r).Name
	}
	return out
}
