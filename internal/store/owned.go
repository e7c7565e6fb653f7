package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
)

// OwnedRepo persists the owned-names set backed by OWNED_CARDS_DIR
// (SPEC_FULL.md §4.11), replacing the teacher's flat-file collection
// repositories with a SQLite table so the set survives alongside build
// history in one database.
type OwnedRepo struct {
	db *DB
}

// NewOwnedRepo returns a repository bound to db.
func NewOwnedRepo(db *DB) *OwnedRepo {
	return &OwnedRepo{db: db}
}

// Add inserts name into the owned set, normalizing the same way
// catalog.ByName does so membership checks agree.
func (r *OwnedRepo) Add(ctx context.Context, name string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO owned_cards (name) VALUES (?) ON CONFLICT(name) DO NOTHING`,
		catalog.NormalizeName(name),
	)
	if err != nil {
		return fmt.Errorf("add owned card: %w", err)
	}
	return nil
}

// AddAll inserts every name in names inside a single transaction.
func (r *OwnedRepo) AddAll(ctx context.Context, names []string) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin owned-cards transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO owned_cards (name) VALUES (?) ON CONFLICT(name) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare owned-cards insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range names {
		if _, err := stmt.ExecContext(ctx, catalog.NormalizeName(n)); err != nil {
			return fmt.Errorf("add owned card %q: %w", n, err)
		}
	}
	return tx.Commit()
}

// Remove deletes name from the owned set.
func (r *OwnedRepo) Remove(ctx context.Context, name string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM owned_cards WHERE name = ?`, catalog.NormalizeName(name))
	if err != nil {
		return fmt.Errorf("remove owned card: %w", err)
	}
	return nil
}

// All returns every owned card name (normalized, lowercase).
func (r *OwnedRepo) All(ctx context.Context) ([]string, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT name FROM owned_cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list owned cards: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan owned card: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Has reports whether name is in the owned set.
func (r *OwnedRepo) Has(ctx context.Context, name string) (bool, error) {
	var exists int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM owned_cards WHERE name = ?`, catalog.NormalizeName(name)).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check owned card: %w", err)
	}
	return true, nil
}
