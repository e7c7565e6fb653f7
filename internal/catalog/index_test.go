package catalog

import (
	"strings"
	"testing"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := LoadReader(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	return cat
}

func TestBuildTagIndexRows(t *testing.T) {
	cat := testCatalog(t)
	rows := cat.Index.Rows("theme:goblins")
	if len(rows) != 1 {
		t.Fatalf("expected 1 row tagged theme:goblins, got %d", len(rows))
	}
	if cat.Cards[rows[0]].Name != "Krenko Mob Boss" {
		t.Fatalf("expected Krenko Mob Boss, got %s", cat.Cards[rows[0]].Name)
	}
}

func TestTagIndexTagsListsEveryTag(t *testing.T) {
	cat := testCatalog(t)
	tags := cat.Index.Tags()
	found := map[string]bool{}
	for _, tg := range tags {
		found[tg] = true
	}
	for _, want := range []string{"theme:goblins", "theme:sacrifice", "theme:ramp"} {
		if !found[want] {
			t.Fatalf("expected tag %q in Tags(), got %v", want, tags)
		}
	}
}

func TestNewPoolFiltersByColorIdentity(t *testing.T) {
	cat := testCatalog(t)
	// Mono-red identity should admit red cards and colorless lands, but not
	// the green Farseek.
	identity := ParseColorSet("R")
	pool := NewPool(cat, identity, nil, false, nil)
	names := pool.Names()
	for _, n := range names {
		if n == "Farseek" {
			t.Fatal("mono-red pool should not admit a green card")
		}
	}
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["Krenko Mob Boss"] || !found["Mountain"] {
		t.Fatalf("expected red commander and colorless land in pool, got %v", names)
	}
}

func TestNewPoolExcludeList(t *testing.T) {
	cat := testCatalog(t)
	identity := ParseColorSet("RG")
	exclude := map[string]bool{"mountain": true}
	pool := NewPool(cat, identity, exclude, false, nil)
	for _, n := range pool.Names() {
		if strings.EqualFold(n, "Mountain") {
			t.Fatal("excluded card should not appear in the pool")
		}
	}
}

func TestNewPoolOwnedOnly(t *testing.T) {
	cat := testCatalog(t)
	identity := ParseColorSet("RG")
	owned := map[string]bool{"mountain": true, "farseek": true}
	pool := NewPool(cat, identity, nil, true, owned)
	names := pool.Names()
	if len(names) != 2 {
		t.Fatalf("owned-only pool should contain exactly the 2 owned cards, got %v", names)
	}
}

func TestPoolFilterAndRemove(t *testing.T) {
	cat := testCatalog(t)
	identity := ParseColorSet("RG")
	pool := NewPool(cat, identity, nil, false, nil)

	creatures := pool.Filter(func(c Card) bool { return c.IsCreature() })
	if len(creatures.Rows) != 1 {
		t.Fatalf("expected 1 creature in RG pool, got %d", len(creatures.Rows))
	}

	before := len(pool.Rows)
	toRemove := map[RowID]bool{pool.Rows[0]: true}
	pool.Remove(toRemove)
	if len(pool.Rows) != before-1 {
		t.Fatalf("Remove should drop exactly one row, pool now has %d (was %d)", len(pool.Rows), before)
	}
}

func TestPoolRemoveByName(t *testing.T) {
	cat := testCatalog(t)
	identity := ParseColorSet("RG")
	pool := NewPool(cat, identity, nil, false, nil)
	pool.RemoveByName(map[string]bool{"mountain": true})
	for _, n := range pool.Names() {
		if strings.EqualFold(n, "Mountain") {
			t.Fatal("RemoveByName should have dropped Mountain")
		}
	}
}
