package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
)

// Run is one recorded build attempt, persisted for batch reproducibility
// audits (SPEC_FULL.md §4.11: "same commander + seed + themes must reach
// the same verdict", the regression check backing invariants P6/P9).
type Run struct {
	RunID        string
	Commander    string
	Seed         int64
	BracketLevel int
	Themes       []string
	Verdict      string
	Violations   int
	CreatedAt    time.Time
}

// RunsRepo persists build_runs rows.
type RunsRepo struct {
	db *DB
}

// NewRunsRepo returns a repository bound to db.
func NewRunsRepo(db *DB) *RunsRepo {
	return &RunsRepo{db: db}
}

// Record saves a finished build's outcome, assigning it a fresh run ID.
// verdict/violations come from the build's compliance report when present;
// a build that errored before reaching compliance records verdict "ERROR".
func (r *RunsRepo) Record(ctx context.Context, s *deckbuild.State) (Run, error) {
	run := Run{
		RunID:        uuid.NewString(),
		Commander:    s.Commander.Name,
		Seed:         s.Config.Seed,
		BracketLevel: s.Config.BracketLevel,
		Themes:       s.Config.Themes.List(),
		Verdict:      "ERROR",
	}

	if report, ok := s.Compliance.(compliance.Report); ok {
		run.Verdict = string(report.Verdict)
		run.Violations = violationCount(report)
	}

	themesJSON, err := json.Marshal(run.Themes)
	if err != nil {
		return Run{}, fmt.Errorf("marshal themes: %w", err)
	}

	row := r.db.conn.QueryRowContext(ctx, `
		INSERT INTO build_runs (run_id, commander, seed, bracket_level, themes, verdict, violations)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`,
		run.RunID, run.Commander, run.Seed, run.BracketLevel, string(themesJSON), run.Verdict, run.Violations,
	)
	if err := row.Scan(&run.CreatedAt); err != nil {
		return Run{}, fmt.Errorf("record build run: %w", err)
	}
	return run, nil
}

// violationCount sums non-compliant category findings across a report, the
// same count the enforcement phase trims toward zero (spec.md §4.7/§4.8).
func violationCount(report compliance.Report) int {
	n := 0
	for _, cat := range report.Categories {
		if cat.Status != compliance.Pass {
			n++
		}
	}
	if report.Combos.Status != compliance.Pass {
		n++
	}
	return n
}

// ForCommander returns prior runs for commander, most recent first, for a
// batch job to compare against when checking reproducibility.
func (r *RunsRepo) ForCommander(ctx context.Context, commander string) ([]Run, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT run_id, commander, seed, bracket_level, themes, verdict, violations, created_at
		FROM build_runs WHERE commander = ? ORDER BY created_at DESC`,
		commander,
	)
	if err != nil {
		return nil, fmt.Errorf("query build runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var themesJSON string
		if err := rows.Scan(&run.RunID, &run.Commander, &run.Seed, &run.BracketLevel,
			&themesJSON, &run.Verdict, &run.Violations, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan build run: %w", err)
		}
		if err := json.Unmarshal([]byte(themesJSON), &run.Themes); err != nil {
			return nil, fmt.Errorf("unmarshal themes: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// MatchesSeed reports whether a prior run for the same commander, seed and
// themes reached the same verdict as current — a reproducibility regression
// check (SPEC_FULL.md §4.11).
func (r *RunsRepo) MatchesSeed(ctx context.Context, commander string, seed int64, themes []string, verdict string) (bool, *Run, error) {
	prior, err := r.ForCommander(ctx, commander)
	if err != nil {
		return false, nil, err
	}
	for _, run := range prior {
		if run.Seed != seed || !sameThemes(run.Themes, themes) {
			continue
		}
		match := run.Verdict == verdict
		return match, &run, nil
	}
	return true, nil, nil // no prior run at this seed: nothing to regress against
}

func sameThemes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
