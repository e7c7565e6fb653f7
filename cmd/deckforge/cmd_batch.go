package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtgforge/commanderbuilder/internal/batch"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
	"github.com/mtgforge/commanderbuilder/internal/export"
	"github.com/mtgforge/commanderbuilder/internal/store"
)

var batchFlags struct {
	catalogPath  string
	policyDir    string
	storePath    string
	commanders   []string
	seeds        []int64
	bracketLevel int
	concurrency  int
	exportDir    string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Build multiple decks concurrently, one per commander/seed pair",
	RunE:  runBatchCmd,
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.catalogPath, "catalog", "catalog.csv", "path to the tagged card catalog CSV")
	f.StringVar(&batchFlags.policyDir, "policy-dir", "", "directory containing bracket policy lists")
	f.StringVar(&batchFlags.storePath, "db", "", "path to the owned-cards/build-history SQLite database")
	f.StringSliceVar(&batchFlags.commanders, "commander", nil, "commander name, repeatable")
	f.Int64SliceVar(&batchFlags.seeds, "seed", nil, "seed, repeatable; zipped against --commander by index, or one seed per commander if a single value is given")
	f.IntVar(&batchFlags.bracketLevel, "bracket", 3, "bracket power level (1-5)")
	f.IntVar(&batchFlags.concurrency, "concurrency", 4, "maximum concurrent builds")
	f.StringVar(&batchFlags.exportDir, "export-dir", "", "directory to write decklist exports (defaults to DECK_EXPORTS)")
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	if len(batchFlags.commanders) == 0 {
		return deckbuild.NewError(deckbuild.KindInputValidation, "batch requires at least one --commander", nil)
	}

	cat, policyLists, err := loadCatalog(batchFlags.catalogPath, batchFlags.policyDir)
	if err != nil {
		return err
	}

	db, err := openStore(batchFlags.storePath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	owned := loadOwnedNames(db)

	jobs := make([]batch.Job, 0, len(batchFlags.commanders))
	for i, name := range batchFlags.commanders {
		commander, candidates, err := resolveCommander(cat, name)
		if err != nil {
			if len(candidates) > 0 {
				var names []string
				for _, c := range candidates {
					names = append(names, c.Name)
				}
				fmt.Printf("skipping %q: no exact match, did you mean %s?\n", name, strings.Join(names, ", "))
			} else {
				fmt.Printf("skipping %q: %v\n", name, err)
			}
			continue
		}

		seed := time.Now().UnixNano() + int64(i)
		if len(batchFlags.seeds) == 1 {
			seed = batchFlags.seeds[0] + int64(i)
		} else if i < len(batchFlags.seeds) {
			seed = batchFlags.seeds[i]
		}

		cfg := &deckbuild.Config{
			CommanderName: commander.Name,
			BracketLevel:  batchFlags.bracketLevel,
			IdealCounts:   deckbuild.DefaultIdealCounts(),
			Seed:          seed,
			PolicyDir:     batchFlags.policyDir,
		}
		jobs = append(jobs, batch.Job{Config: cfg, Commander: commander, Owned: owned, PolicyLists: policyLists})
	}

	runner := batch.NewRunner(cat, batchFlags.concurrency)
	results, err := runner.Run(cmdContext(), jobs)
	if err != nil {
		return err
	}

	exportDir := batchFlags.exportDir
	if exportDir == "" {
		exportDir = loadedConfig().Export.Dir
	}

	worstExit := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s (seed %d): build failed: %v\n", r.Job.Commander.Name, r.Job.Config.Seed, r.Err)
			worstExit = maxInt(worstExit, exitCodeForErr(r.Err))
			continue
		}

		report, _ := r.State.Compliance.(compliance.Report)
		printColor(fmt.Sprintf("%s (seed %d, run %s): %d cards, verdict %s",
			r.Job.Commander.Name, r.Job.Config.Seed, r.RunID, r.State.Library.TotalCount(), colorStatus(report.Verdict)))

		if db != nil {
			if _, err := store.NewRunsRepo(db).Record(cmdContext(), r.State); err != nil {
				fmt.Printf("  warning: record build run: %v\n", err)
			}
		}
		if _, err := export.WriteAll(r.State, exportDir, time.Now()); err != nil {
			fmt.Printf("  warning: export deck: %v\n", err)
		}

		worstExit = maxInt(worstExit, exitCodeForVerdict(r.State))
	}

	pendingExitCode = worstExit
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
