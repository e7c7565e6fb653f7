// Package batch runs multiple independent commander builds concurrently,
// each with its own seed, over a shared read-only catalog (spec.md §5:
// "multiple independent builds with distinct seeds may run concurrently in
// a worker pool"). Grounded on golang.org/x/sync/errgroup for bounded
// fan-out, replacing the teacher's raw sync.WaitGroup + channel scheduler
// (internal/mtga/cards/refresh.scheduler) with the simpler errgroup idiom
// used elsewhere in the retrieval pack.
package batch

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
	"github.com/mtgforge/commanderbuilder/internal/pipeline"
)

// Job is one build request within a batch.
type Job struct {
	Config    *deckbuild.Config
	Commander catalog.Card
	Owned     map[string]bool

	// PolicyLists is the shared policy-list set the caller pre-loaded
	// through a cache.Suite, so every job in the batch reads the bracket
	// policy lists once instead of once per job (spec.md §5 "multiple
	// independent builds ... may run concurrently").
	PolicyLists compliance.Lists
}

// Result is one job's outcome, stamped with a run ID for audit/export
// correlation (spec.md §4.11 build_runs table).
type Result struct {
	RunID string
	Job   Job
	State *deckbuild.State
	Err   error
}

// Runner executes a batch of jobs against a shared catalog with bounded
// concurrency. It owns no mutable state beyond the catalog pointer (shared,
// read-only) and the results it produces; it keeps no completion counter.
type Runner struct {
	Catalog     *catalog.Catalog
	Concurrency int
}

// NewRunner returns a Runner bound to cat with the given concurrency (<=0
// defaults to 4).
func NewRunner(cat *catalog.Catalog, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Runner{Catalog: cat, Concurrency: concurrency}
}

// Run executes every job, returning one Result per job in the same order
// jobs was given (not completion order), so callers can zip results back to
// their originating request.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Job: job, Err: gctx.Err()}
				return nil
			default:
			}

			runID := uuid.NewString()
			state := deckbuild.NewState(job.Config, r.Catalog, job.Commander, job.Owned, nil)
			state.PolicyLists = job.PolicyLists
			orch := pipeline.New()
			err := orch.Run(state)

			results[i] = Result{RunID: runID, Job: job, State: state, Err: err}
			return nil
		})
	}

	// errgroup's own error only surfaces a context cancellation; per-job
	// failures are carried in each Result so one bad seed doesn't abort
	// the rest of the batch (spec.md §7 propagation policy, applied at
	// batch scope).
	_ = g.Wait()
	return results, nil
}
