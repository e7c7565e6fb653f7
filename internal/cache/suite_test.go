package cache

import (
	"os"
	"path/filepath"
	"testing"
)

const suiteTestCatalogCSV = "name,type,manaCost,manaValue,colorIdentity\nSol Ring,Artifact,{1},1,\n"

func TestNewSuiteMissingPolicyListsResolveEmpty(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	if err := os.WriteFile(catalogPath, []byte(suiteTestCatalogCSV), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	suite := NewSuite(catalogPath, filepath.Join(dir, "policies"), nil)
	defer suite.Close()

	gc, err := suite.GameChangers.Get()
	if err != nil {
		t.Fatalf("GameChangers.Get() on a missing file should not error: %v", err)
	}
	if gc.Contains("anything") {
		t.Fatal("an empty (missing-file) card list should contain nothing")
	}

	combos, err := suite.Combos.Get()
	if err != nil {
		t.Fatalf("Combos.Get() on a missing file should not error: %v", err)
	}
	if len(combos.Index()) != 0 {
		t.Fatal("an empty (missing-file) combo list should index to nothing")
	}
}

func TestNewSuiteCatalogLoads(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	if err := os.WriteFile(catalogPath, []byte(suiteTestCatalogCSV), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	suite := NewSuite(catalogPath, filepath.Join(dir, "policies"), nil)
	defer suite.Close()

	cat, err := suite.Catalog.Get()
	if err != nil {
		t.Fatalf("Catalog.Get(): %v", err)
	}
	if _, ok := cat.ByName("Sol Ring"); !ok {
		t.Fatal("expected Sol Ring to load from the catalog cache")
	}
}

func TestNewSuitePresentPolicyListLoads(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	os.WriteFile(catalogPath, []byte(suiteTestCatalogCSV), 0o644)

	policyDir := filepath.Join(dir, "policies")
	if err := os.MkdirAll(policyDir, 0o755); err != nil {
		t.Fatalf("mkdir policies: %v", err)
	}
	listPath := filepath.Join(policyDir, "game_changers.json")
	if err := os.WriteFile(listPath, []byte(`{"list_version":"1","cards":["Sol Ring"]}`), 0o644); err != nil {
		t.Fatalf("write policy list: %v", err)
	}

	suite := NewSuite(catalogPath, policyDir, nil)
	defer suite.Close()

	gc, err := suite.GameChangers.Get()
	if err != nil {
		t.Fatalf("GameChangers.Get(): %v", err)
	}
	if !gc.Contains("Sol Ring") {
		t.Fatal("expected the present policy list to load and contain Sol Ring")
	}
}
