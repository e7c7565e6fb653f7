package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
	"github.com/mtgforge/commanderbuilder/internal/store"
)

const cliTestCatalogCSV = `name,type,manaCost,manaValue,colorIdentity
Krenko Mob Boss,Legendary Creature - Goblin,{2}{R},3,"['R']"
Sol Ring,Artifact,{1},1,
`

func testCLICatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadReader(strings.NewReader(cliTestCatalogCSV))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	return cat
}

func TestExitCodeForErrNil(t *testing.T) {
	if code := exitCodeForErr(nil); code != 0 {
		t.Fatalf("exitCodeForErr(nil) = %d, want 0", code)
	}
}

func TestExitCodeForErrGenericError(t *testing.T) {
	if code := exitCodeForErr(errors.New("boom")); code != 1 {
		t.Fatalf("exitCodeForErr(generic) = %d, want 1", code)
	}
}

func TestExitCodeForErrMapsBuildErrorKinds(t *testing.T) {
	cases := []struct {
		kind deckbuild.Kind
		want int
	}{
		{deckbuild.KindCatalogUnavailable, 4},
		{deckbuild.KindInputValidation, 3},
		{deckbuild.KindStrictThemeNoMatch, 3},
		{deckbuild.KindConstraintsImpossible, 3},
		{deckbuild.KindEnforcementBlocked, 1},
	}
	for _, c := range cases {
		err := deckbuild.NewError(c.kind, "test", nil)
		if got := exitCodeForErr(err); got != c.want {
			t.Errorf("exitCodeForErr(%v) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestExitCodeForVerdictNoComplianceReport(t *testing.T) {
	s := &deckbuild.State{}
	if code := exitCodeForVerdict(s); code != 0 {
		t.Fatalf("exitCodeForVerdict(no report) = %d, want 0", code)
	}
}

func TestExitCodeForVerdictFail(t *testing.T) {
	s := &deckbuild.State{Compliance: compliance.Report{Verdict: compliance.Fail}}
	if code := exitCodeForVerdict(s); code != 2 {
		t.Fatalf("exitCodeForVerdict(FAIL) = %d, want 2", code)
	}
}

func TestExitCodeForVerdictPassOrWarn(t *testing.T) {
	for _, v := range []compliance.Status{compliance.Pass, compliance.Warn} {
		s := &deckbuild.State{Compliance: compliance.Report{Verdict: v}}
		if code := exitCodeForVerdict(s); code != 0 {
			t.Fatalf("exitCodeForVerdict(%s) = %d, want 0", v, code)
		}
	}
}

func TestResolveCommanderExactMatch(t *testing.T) {
	cat := testCLICatalog(t)
	card, candidates, err := resolveCommander(cat, "Krenko Mob Boss")
	if err != nil {
		t.Fatalf("resolveCommander: %v", err)
	}
	if card.Name != "Krenko Mob Boss" {
		t.Fatalf("expected exact match, got %s", card.Name)
	}
	if candidates != nil {
		t.Fatalf("expected no candidates on an exact match, got %v", candidates)
	}
}

func TestResolveCommanderNoMatchReturnsCandidatesAndError(t *testing.T) {
	cat := testCLICatalog(t)
	_, _, err := resolveCommander(cat, "Totally Unrelated Name Zzz")
	if err == nil {
		t.Fatal("expected an error when no commander resolves")
	}
	var be *deckbuild.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected a *deckbuild.BuildError, got %T", err)
	}
	if be.Kind != deckbuild.KindInputValidation {
		t.Fatalf("expected KindInputValidation, got %v", be.Kind)
	}
}

func TestRunBuildDrivesFullPipeline(t *testing.T) {
	cat := testCLICatalog(t)
	commander, _ := cat.ByName("Krenko Mob Boss")
	cfg := &deckbuild.Config{
		CommanderName: commander.Name,
		BracketLevel:  3,
		IdealCounts:   deckbuild.DefaultIdealCounts(),
		Seed:          1,
	}
	state, err := runBuild(cat, cfg, commander, nil, nil, compliance.Lists{})
	if err != nil {
		t.Fatalf("runBuild: %v", err)
	}
	if state.Library.Len() == 0 {
		t.Fatal("expected runBuild to populate the library")
	}
}

func TestLoadCatalogReadsCatalogThroughCache(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	if err := os.WriteFile(catalogPath, []byte(cliTestCatalogCSV), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cat, lists, err := loadCatalog(catalogPath, filepath.Join(dir, "policies"))
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if _, ok := cat.ByName("Sol Ring"); !ok {
		t.Fatal("expected Sol Ring to load through the cache.Suite-backed catalog")
	}
	if lists.GameChangers == nil || lists.GameChangers.Contains("anything") {
		t.Fatal("expected an empty game_changers list for a missing policy dir")
	}
}

func TestLoadCatalogMissingFileIsCatalogUnavailable(t *testing.T) {
	_, _, err := loadCatalog(filepath.Join(t.TempDir(), "missing.csv"), "")
	var be *deckbuild.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected a *deckbuild.BuildError, got %T", err)
	}
	if be.Kind != deckbuild.KindCatalogUnavailable {
		t.Fatalf("expected KindCatalogUnavailable, got %v", be.Kind)
	}
}

func TestLoadCatalogReadsPresentPolicyList(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	os.WriteFile(catalogPath, []byte(cliTestCatalogCSV), 0o644)

	policyDir := filepath.Join(dir, "policies")
	if err := os.MkdirAll(policyDir, 0o755); err != nil {
		t.Fatalf("mkdir policies: %v", err)
	}
	if err := os.WriteFile(filepath.Join(policyDir, "game_changers.json"), []byte(`{"list_version":"1","cards":["Sol Ring"]}`), 0o644); err != nil {
		t.Fatalf("write policy list: %v", err)
	}

	_, lists, err := loadCatalog(catalogPath, policyDir)
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if lists.GameChangers == nil || !lists.GameChangers.Contains("Sol Ring") {
		t.Fatal("expected the present game_changers list to load and contain Sol Ring")
	}
}

func TestOpenStoreEmptyPathReturnsNil(t *testing.T) {
	db, err := openStore("")
	if err != nil {
		t.Fatalf("openStore(\"\"): %v", err)
	}
	if db != nil {
		t.Fatal("expected a nil DB for an empty path")
	}
}

func TestLoadOwnedNamesNilDBReturnsEmpty(t *testing.T) {
	owned := loadOwnedNames(nil)
	if len(owned) != 0 {
		t.Fatalf("expected an empty set for a nil DB, got %v", owned)
	}
}

func TestLoadOwnedNamesReadsFromStore(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(store.DefaultConfig(dir + "/test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer db.Close()
	if err := store.NewOwnedRepo(db).Add(cmdContext(), "Sol Ring"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	owned := loadOwnedNames(db)
	if !owned["sol ring"] {
		t.Fatalf("expected sol ring present in owned set, got %v", owned)
	}
}

func TestColorStatusNonTerminalReturnsPlainText(t *testing.T) {
	if got := colorStatus(compliance.Pass); got != string(compliance.Pass) {
		t.Fatalf("colorStatus on a non-terminal = %q, want plain %q", got, compliance.Pass)
	}
}
