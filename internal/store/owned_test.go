package store

import (
	"context"
	"testing"
)

func TestOwnedRepoAddAndHas(t *testing.T) {
	db := openTestDB(t)
	repo := NewOwnedRepo(db)
	ctx := context.Background()

	has, err := repo.Has(ctx, "Sol Ring")
	if err != nil {
		t.Fatalf("Has before Add: %v", err)
	}
	if has {
		t.Fatal("Sol Ring should not be owned yet")
	}

	if err := repo.Add(ctx, "Sol Ring"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	has, err = repo.Has(ctx, "sol ring") // case-insensitive
	if err != nil {
		t.Fatalf("Has after Add: %v", err)
	}
	if !has {
		t.Fatal("expected Sol Ring to be owned (case-insensitive) after Add")
	}
}

func TestOwnedRepoAddIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewOwnedRepo(db)
	ctx := context.Background()

	if err := repo.Add(ctx, "Sol Ring"); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := repo.Add(ctx, "Sol Ring"); err != nil {
		t.Fatalf("second Add should not error: %v", err)
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 owned card after duplicate Add, got %d", len(all))
	}
}

func TestOwnedRepoAddAllTransactional(t *testing.T) {
	db := openTestDB(t)
	repo := NewOwnedRepo(db)
	ctx := context.Background()

	names := []string{"Sol Ring", "Arcane Signet", "Command Tower"}
	if err := repo.AddAll(ctx, names); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != len(names) {
		t.Fatalf("expected %d owned cards, got %d", len(names), len(all))
	}
}

func TestOwnedRepoRemove(t *testing.T) {
	db := openTestDB(t)
	repo := NewOwnedRepo(db)
	ctx := context.Background()

	if err := repo.Add(ctx, "Sol Ring"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Remove(ctx, "Sol Ring"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	has, err := repo.Has(ctx, "Sol Ring")
	if err != nil {
		t.Fatalf("Has after Remove: %v", err)
	}
	if has {
		t.Fatal("Sol Ring should no longer be owned after Remove")
	}
}

func TestOwnedRepoAllOrderedByName(t *testing.T) {
	db := openTestDB(t)
	repo := NewOwnedRepo(db)
	ctx := context.Background()

	for _, n := range []string{"Zendikar Resurgent", "Arcane Signet"} {
		if err := repo.Add(ctx, n); err != nil {
			t.Fatalf("Add(%s): %v", n, err)
		}
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all[0] != "arcane signet" || all[1] != "zendikar resurgent" {
		t.Fatalf("expected alphabetically ordered normalized names, got %v", all)
	}
}
