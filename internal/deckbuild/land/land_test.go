package land

import (
	"strings"
	"testing"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

const landTestCatalogCSV = `name,type,manaCost,manaValue,colorIdentity,text,power
Krenko Mob Boss,Legendary Creature - Goblin,{2}{R},3,"['R']",,3
Path of Ancestry,Land,,0,,,
Cavern of Souls,Land,,0,,,
Three Tree City,Land,,0,,,
Goblin Burrows,Land,,0,,land that has a goblin creature type in its name produces,
Terramorphic Expanse,Land,,0,,search your library for a basic land card,
Arid Mesa,Land,,0,"['R','W']",search your library for a mountain or plains card,
Mountain,Basic Land - Mountain,,0,"['R']",,
`

func testLandState(t *testing.T, ideal deckbuild.IdealCounts, themes deckbuild.Themes) *deckbuild.State {
	t.Helper()
	cat, err := catalog.LoadReader(strings.NewReader(landTestCatalogCSV))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	commander, ok := cat.ByName("Krenko Mob Boss")
	if !ok {
		t.Fatal("fixture missing commander")
	}
	cfg := &deckbuild.Config{
		CommanderName: commander.Name,
		Themes:        themes,
		BracketLevel:  3,
		IdealCounts:   ideal,
		Seed:          7,
	}
	s := deckbuild.NewState(cfg, cat, commander, nil, nil)
	s.RNG = rng.New(cfg.Seed)
	return s
}

func TestBasicsDistributesEvenlyAcrossColors(t *testing.T) {
	s := testLandState(t, deckbuild.IdealCounts{Lands: 36, BasicLands: 10}, deckbuild.Themes{})
	if err := Basics(s); err != nil {
		t.Fatalf("Basics: %v", err)
	}
	e, ok := s.Library.Get("Mountain")
	if !ok {
		t.Fatal("expected Mountain (Krenko's only color) to be added")
	}
	if e.Count <= 0 {
		t.Fatalf("expected a positive Mountain count, got %d", e.Count)
	}
	if e.Role != deckbuild.RoleBasic {
		t.Fatalf("expected RoleBasic, got %v", e.Role)
	}
}

func TestBasicsColorlessCommanderUsesWastes(t *testing.T) {
	s := testLandState(t, deckbuild.IdealCounts{Lands: 36, BasicLands: 10}, deckbuild.Themes{})
	s.Identity = 0 // colorless
	if err := Basics(s); err != nil {
		t.Fatalf("Basics: %v", err)
	}
	if _, ok := s.Library.Get("Wastes"); !ok {
		t.Fatal("expected Wastes to be added for a colorless identity")
	}
}

func TestBasicsRespectsLandCap(t *testing.T) {
	ideal := deckbuild.IdealCounts{Lands: 5, BasicLands: 20}
	s := testLandState(t, ideal, deckbuild.Themes{})
	if err := Basics(s); err != nil {
		t.Fatalf("Basics: %v", err)
	}
	if currentLandCount(s) > ideal.Lands {
		t.Fatalf("expected land cap %d to be enforced, got %d", ideal.Lands, currentLandCount(s))
	}
}

func TestKindredNoOpWithoutKindredTheme(t *testing.T) {
	s := testLandState(t, deckbuild.IdealCounts{Lands: 36}, deckbuild.Themes{Primary: "Aggro"})
	before := s.Library.TotalCount()
	if err := Kindred(s); err != nil {
		t.Fatalf("Kindred: %v", err)
	}
	if s.Library.TotalCount() != before {
		t.Fatal("expected Kindred to be a no-op without a kindred/tribal theme")
	}
}

func TestKindredAddsBaselineLands(t *testing.T) {
	s := testLandState(t, deckbuild.IdealCounts{Lands: 36}, deckbuild.Themes{Primary: "Goblin Kindred"})
	if err := Kindred(s); err != nil {
		t.Fatalf("Kindred: %v", err)
	}
	if !s.Library.Has("Path of Ancestry") {
		t.Fatal("expected Path of Ancestry baseline kindred land")
	}
	if e, ok := s.Library.Get("Path of Ancestry"); ok && e.Role != deckbuild.RoleKindred {
		t.Fatalf("expected RoleKindred, got %v", e.Role)
	}
}

func TestExtractTribeStripsKindredSuffix(t *testing.T) {
	if got := extractTribe([]string{"Goblin Kindred"}); got != "goblin" {
		t.Fatalf("extractTribe = %q, want goblin", got)
	}
	if got := extractTribe([]string{"Elf Tribal"}); got != "elf" {
		t.Fatalf("extractTribe = %q, want elf", got)
	}
	if got := extractTribe([]string{"Aggro"}); got != "" {
		t.Fatalf("extractTribe = %q, want empty for a non-tribal theme", got)
	}
}

func TestIsFetchLandDetectsGenericAndTextual(t *testing.T) {
	if !isFetchLand("Terramorphic Expanse", "") {
		t.Fatal("expected a denylisted generic fetch name to match")
	}
	if !isFetchLand("Arid Mesa", "search your library for a mountain or plains card") {
		t.Fatal("expected oracle-text heuristic to match a fetch land")
	}
	if isFetchLand("Mountain", "") {
		t.Fatal("a basic should never be classified as a fetch land")
	}
}

func TestFetchAddsUpToTarget(t *testing.T) {
	s := testLandState(t, deckbuild.IdealCounts{Lands: 36, FetchLands: 2}, deckbuild.Themes{})
	if err := Fetch(s); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	count := 0
	for _, e := range s.Library.Entries() {
		if e.Role == deckbuild.RoleFetch {
			count += e.Count
		}
	}
	if count == 0 {
		t.Fatal("expected at least one fetch land to be added")
	}
	if count > 2 {
		t.Fatalf("expected at most 2 fetch lands, got %d", count)
	}
}

func TestStaplesStopsAtLandCap(t *testing.T) {
	s := testLandState(t, deckbuild.IdealCounts{Lands: 0}, deckbuild.Themes{})
	before := s.Library.TotalCount()
	if err := Staples(s); err != nil {
		t.Fatalf("Staples: %v", err)
	}
	if s.Library.TotalCount() != before {
		t.Fatal("expected no staples added when the land cap is already zero")
	}
}
