package randomentry

import (
	"strings"
	"testing"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
)

const randomEntryTestCSV = `name,type,manaCost,manaValue,colorIdentity,themeTags
Krenko Mob Boss,Legendary Creature - Goblin,{2}{R},3,"['R']","['goblins','aggro']"
Edgar Markov,Legendary Creature - Vampire,{3}{R}{W}{B},6,"['R','W','B']","['vampires','aggro']"
Muldrotha the Gravetide,Legendary Creature - Elemental,{2}{B}{G}{U},5,"['B','G','U']","['graveyard']"
Sol Ring,Artifact,{1},1,,
`

func testRandomEntryCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadReader(strings.NewReader(randomEntryTestCSV))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	return cat
}

func TestSelectReturnsCommanderLegalCard(t *testing.T) {
	cat := testRandomEntryCatalog(t)
	commander, _, err := Select(cat, SelectConfig{Seed: 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !commander.IsCommanderLegal {
		t.Fatalf("expected a commander-legal result, got %+v", commander)
	}
}

func TestSelectFiltersByPrimaryTheme(t *testing.T) {
	cat := testRandomEntryCatalog(t)
	commander, diag, err := Select(cat, SelectConfig{Primary: "goblins", Seed: 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if commander.Name != "Krenko Mob Boss" {
		t.Fatalf("expected the only goblins-tagged commander, got %s", commander.Name)
	}
	if diag.ComboFallback || diag.SynergyFallback {
		t.Fatalf("expected a direct theme match, got diagnostics %+v", diag)
	}
}

func TestSelectStrictThemeMatchErrorsOnNoMatch(t *testing.T) {
	cat := testRandomEntryCatalog(t)
	_, _, err := Select(cat, SelectConfig{Primary: "nonexistent theme", StrictThemeMatch: true, Seed: 1})
	if err == nil {
		t.Fatal("expected an error when strict theme matching finds nothing")
	}
}

func TestSelectFallsBackToFullPoolWhenNoThemeMatches(t *testing.T) {
	cat := testRandomEntryCatalog(t)
	_, diag, err := Select(cat, SelectConfig{Primary: "nonexistent theme zzz", Seed: 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !diag.ComboFallback {
		t.Fatal("expected the full-pool fallback to be flagged")
	}
}

func TestSelectValidateRejectsCandidates(t *testing.T) {
	cat := testRandomEntryCatalog(t)
	commander, _, err := Select(cat, SelectConfig{
		Seed:     1,
		Attempts: 1000,
		Validate: func(c catalog.Card) bool { return c.Name == "Edgar Markov" },
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if commander.Name != "Edgar Markov" {
		t.Fatalf("expected Validate to steer selection to Edgar Markov, got %s", commander.Name)
	}
}

func TestAndFilterEmptyTagsReturnsNil(t *testing.T) {
	cat := testRandomEntryCatalog(t)
	legal := map[catalog.RowID]bool{}
	if rows := andFilter(cat, legal, nil); rows != nil {
		t.Fatalf("expected nil for empty tags, got %v", rows)
	}
}

func TestIsGlobalTokenDetectsLegendMatters(t *testing.T) {
	if !isGlobalToken("legendary matters") {
		t.Fatal("expected a legendary-matters tag to be classified as global")
	}
	if isGlobalToken("goblins") {
		t.Fatal("expected an ordinary tribal tag not to be global")
	}
}

func TestIsKindredTokenDetectsTribalSynonyms(t *testing.T) {
	for _, tag := range []string{"kindred", "tribal", "clan"} {
		if !isKindredToken(tag) {
			t.Fatalf("expected %q to be classified as a kindred token", tag)
		}
	}
}

func TestCuratedPoolExcludesUnderrepresentedTags(t *testing.T) {
	cards := []catalog.Card{
		{ThemeTags: []string{"goblins"}},
		{ThemeTags: []string{"goblins"}},
	}
	pool := curatedPool(cards)
	if pool["goblins"] {
		t.Fatal("expected a tag with fewer than 5 commanders to be excluded from the curated pool")
	}
}
