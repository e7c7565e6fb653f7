// Package deckbuild implements the multi-phase Commander deck construction
// pipeline (spec.md §2-§4): an ordered sequence of phases operating on a
// shared pool and deck library, generalized from the teacher's flat,
// mixin-free orchestrator idiom (spec.md §9 Design Notes).
package deckbuild

// Role is the sum type spec.md §3/§9 calls for in place of the source's
// dynamic string role field.
type Role string

const (
	RoleCommander     Role = "commander"
	RoleBasic         Role = "basic"
	RoleStaple        Role = "staple"
	RoleKindred       Role = "kindred"
	RoleFetch         Role = "fetch"
	RoleDual          Role = "dual"
	RoleTriple        Role = "triple"
	RoleUtility       Role = "utility"
	RoleOptimized     Role = "optimized"
	RoleFlex          Role = "flex"
	RoleColorFix      Role = "color-fix"
	RoleCreature      Role = "creature"
	RoleRamp          Role = "ramp"
	RoleRemoval       Role = "removal"
	RoleWipe          Role = "wipe"
	RoleCardAdvantage Role = "card_advantage"
	RoleProtection    Role = "protection"
	RoleThemeSpell    Role = "theme_spell"
	RoleFiller        Role = "filler"
)

// Entry is one deck-library value (spec.md §3 Deck entry).
type Entry struct {
	Name          string
	Count         int
	CardType      string
	ManaCost      string
	ManaValue     float64
	CreatureTypes []string
	Tags          []string

	Role    Role
	SubRole string

	AddedBy      string // phase identifier, for traceability (invariant 8)
	TriggerTag   string
	Synergy      int
	AddedAtIndex int

	// Locked marks an entry the enforcement engine must never remove
	// (e.g. the commander, or a user include pinned via preferred_replacements).
	Locked bool
}

// Library is the deck library: name -> Entry (spec.md §3 Deck entry,
// §3 lifecycle). Insertion order is tracked separately via AddedAtIndex so
// iteration can be made deterministic (spec.md invariant 7).
type Library struct {
	entries map[string]*Entry
	order   []string
	nextIdx int
}

// NewLibrary creates an empty deck library.
func NewLibrary() *Library {
	return &Library{entries: make(map[string]*Entry)}
}

// Add inserts a new entry, stamping it with the next insertion index.
// Adding a name that already exists is a no-op; use Get + mutate for
// basics/multi-copy archetypes instead.
func (l *Library) Add(e Entry) {
	if _, exists := l.entries[e.Name]; exists {
		return
	}
	e.AddedAtIndex = l.nextIdx
	l.nextIdx++
	cp := e
	l.entries[e.Name] = &cp
	l.order = append(l.order, e.Name)
}

// Get returns the entry for name, if present.
func (l *Library) Get(name string) (*Entry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// Remove deletes an entry entirely.
func (l *Library) Remove(name string) {
	if _, ok := l.entries[name]; !ok {
		return
	}
	delete(l.entries, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Entries returns every entry in deterministic insertion order
// (spec.md invariant 7).
func (l *Library) Entries() []*Entry {
	out := make([]*Entry, 0, len(l.order))
	for _, n := range l.order {
		if e, ok := l.entries[n]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether a card is already in the library.
func (l *Library) Has(name string) bool {
	_, ok := l.entries[name]
	return ok
}

// TotalCount sums entry.Count over the whole library (spec.md P1).
func (l *Library) TotalCount() int {
	total := 0
	for _, e := range l.entries {
		total += e.Count
	}
	return total
}

// CountByRole sums Count for entries with the given role.
func (l *Library) CountByRole(r Role) int {
	n := 0
	for _, e := range l.entries {
		if e.Role == r {
			n += e.Count
		}
	}
	return n
}

// Len returns the number of distinct entries.
func (l *Library) Len() int { return len(l.entries) }
