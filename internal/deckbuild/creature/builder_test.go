package creature

import (
	"strings"
	"testing"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

const creatureTestCatalogCSV = `name,type,manaCost,manaValue,colorIdentity,themeTags,power
Krenko Mob Boss,Legendary Creature - Goblin,{2}{R},3,"['R']","['goblins']",3
Goblin Bombardier,Creature - Goblin,{1}{R},2,"['R']","['goblins']",2
Goblin Cohort,Creature - Goblin,{R},1,"['R']","['goblins']",1
Siege-Gang Commander,Creature - Goblin,{3}{R},4,"['R']","['goblins']",3
Mountain Giant,Creature - Giant,{4}{R},5,"['R']","['giants']",5
`

func testCreatureState(t *testing.T, themes deckbuild.Themes, idealCreatures int, tagMode deckbuild.TagMode) *deckbuild.State {
	t.Helper()
	cat, err := catalog.LoadReader(strings.NewReader(creatureTestCatalogCSV))
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
		TagMode:       tagMode,
		BracketLevel:  3,
		IdealCounts:   deckbuild.IdealCounts{Creatures: idealCreatures},
		Seed:          11,
	}
	s := deckbuild.NewState(cfg, cat, commander, nil, nil)
	s.RNG = rng.New(cfg.Seed)
	return s
}

func TestBuildNoOpWithoutThemes(t *testing.T) {
	s := testCreatureState(t, deckbuild.Themes{}, 3, deckbuild.TagModeOR)
	if err := Build(s); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s.Library.CountByRole(deckbuild.RoleCreature) != 0 {
		t.Fatal("expected no creatures added without a selected theme")
	}
}

func TestBuildAddsGoblinThemeCreatures(t *testing.T) {
	s := testCreatureState(t, deckbuild.Themes{Primary: "goblins"}, 2, deckbuild.TagModeOR)
	if err := Build(s); err != nil {
		t.Fatalf("Build: %v", err)
	}
	n := s.Library.CountByRole(deckbuild.RoleCreature)
	if n == 0 {
		t.Fatal("expected at least one goblin creature added")
	}
	if n > 2 {
		t.Fatalf("expected at most the ideal count of 2 creatures, got %d", n)
	}
	for _, e := range s.Library.Entries() {
		if e.Name == s.Commander.Name && (e.Role != deckbuild.RoleCommander || e.Count != 1) {
			t.Fatal("commander should never be re-added by the creature pass")
		}
	}
}

func TestThemeWeightTablesSumToOne(t *testing.T) {
	for n := 1; n <= 3; n++ {
		total := 0.0
		for i := 0; i < n; i++ {
			total += themeWeight(n, i)
		}
		if total < 0.99 || total > 1.01 {
			t.Fatalf("themeWeight table for n=%d sums to %f, want ~1.0", n, total)
		}
	}
}

func TestNormalizeWeights(t *testing.T) {
	w := []float64{2, 2}
	normalize(w)
	if w[0] != 0.5 || w[1] != 0.5 {
		t.Fatalf("normalize([2,2]) = %v, want [0.5 0.5]", w)
	}
}

func TestNormalizeZeroTotalIsNoOp(t *testing.T) {
	w := []float64{0, 0}
	normalize(w)
	if w[0] != 0 || w[1] != 0 {
		t.Fatalf("normalize([0,0]) should be a no-op, got %v", w)
	}
}

func TestApplyKindredMultipliersBoostsTribalTheme(t *testing.T) {
	themes := []string{"Goblin Kindred"}
	weights := []float64{1.0}
	applyKindredMultipliers(themes, weights)
	if weights[0] != kindredPrimaryMult {
		t.Fatalf("expected the primary kindred multiplier applied, got %f", weights[0])
	}
}

func TestContainsFoldCaseInsensitive(t *testing.T) {
	if !containsFold("Goblin Kindred", "kindred") {
		t.Fatal("expected a case-insensitive substring match")
	}
	if containsFold("Aggro", "kindred") {
		t.Fatal("expected no match for an unrelated theme")
	}
}
