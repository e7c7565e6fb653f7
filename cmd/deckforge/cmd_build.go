package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
	"github.com/mtgforge/commanderbuilder/internal/export"
)

var buildFlags struct {
	catalogPath   string
	policyDir     string
	storePath     string
	commander     string
	primary       string
	secondary     string
	tertiary      string
	tagMode       string
	bracketLevel  int
	seed          int64
	useOwnedOnly  bool
	preferOwned   bool
	includeCards  []string
	excludeCards  []string
	enforcement   string
	exportDir     string
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a Commander deck for a named commander",
	RunE:  runBuildCmd,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildFlags.catalogPath, "catalog", "catalog.csv", "path to the tagged card catalog CSV")
	f.StringVar(&buildFlags.policyDir, "policy-dir", "", "directory containing bracket policy lists")
	f.StringVar(&buildFlags.storePath, "db", "", "path to the owned-cards/build-history SQLite database")
	f.StringVar(&buildFlags.commander, "commander", "", "commander name (required)")
	f.StringVar(&buildFlags.primary, "theme", "", "primary theme")
	f.StringVar(&buildFlags.secondary, "theme2", "", "secondary theme")
	f.StringVar(&buildFlags.tertiary, "theme3", "", "tertiary theme")
	f.StringVar(&buildFlags.tagMode, "tag-mode", "AND", "multi-theme combination mode: AND or OR")
	f.IntVar(&buildFlags.bracketLevel, "bracket", 3, "bracket power level (1-5)")
	f.Int64Var(&buildFlags.seed, "seed", time.Now().UnixNano(), "deterministic RNG seed")
	f.BoolVar(&buildFlags.useOwnedOnly, "owned-only", false, "restrict the pool to owned cards")
	f.BoolVar(&buildFlags.preferOwned, "prefer-owned", false, "bias selection toward owned cards")
	f.StringSliceVar(&buildFlags.includeCards, "include", nil, "card names to force-include")
	f.StringSliceVar(&buildFlags.excludeCards, "exclude", nil, "card names to exclude")
	f.StringVar(&buildFlags.enforcement, "enforcement", "enforce", "compliance enforcement mode: warn or enforce")
	f.StringVar(&buildFlags.exportDir, "export-dir", "", "directory to write the decklist export (defaults to DECK_EXPORTS)")
	_ = buildCmd.MarkFlagRequired("commander")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	cat, policyLists, err := loadCatalog(buildFlags.catalogPath, buildFlags.policyDir)
	if err != nil {
		return err
	}

	commander, candidates, err := resolveCommander(cat, buildFlags.commander)
	if err != nil {
		if len(candidates) > 0 {
			var names []string
			for _, c := range candidates {
				names = append(names, c.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "no exact match; did you mean: %s?\n", strings.Join(names, ", "))
		}
		return err
	}

	db, err := openStore(buildFlags.storePath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	cfg := &deckbuild.Config{
		CommanderName: commander.Name,
		Themes: deckbuild.Themes{
			Primary:   buildFlags.primary,
			Secondary: buildFlags.secondary,
			Tertiary:  buildFlags.tertiary,
		},
		TagMode:         deckbuild.TagMode(strings.ToUpper(buildFlags.tagMode)),
		BracketLevel:    buildFlags.bracketLevel,
		IdealCounts:     deckbuild.DefaultIdealCounts(),
		Seed:            buildFlags.seed,
		UseOwnedOnly:    buildFlags.useOwnedOnly,
		PreferOwned:     buildFlags.preferOwned,
		IncludeCards:    buildFlags.includeCards,
		ExcludeCards:    buildFlags.excludeCards,
		EnforcementMode: deckbuild.EnforcementMode(buildFlags.enforcement),
		PolicyDir:       buildFlags.policyDir,
	}

	owned := loadOwnedNames(db)

	state, buildErr := runBuild(cat, cfg, commander, owned, db, policyLists)
	if buildErr != nil {
		return buildErr
	}

	printBuildSummary(state)

	exportDir := buildFlags.exportDir
	if exportDir == "" {
		exportDir = loadedConfig().Export.Dir
	}
	if _, err := export.WriteAll(state, exportDir, time.Now()); err != nil {
		return fmt.Errorf("export deck: %w", err)
	}

	pendingExitCode = exitCodeForVerdict(state)
	return nil
}

func printBuildSummary(s *deckbuild.State) {
	report, ok := s.Compliance.(compliance.Report)
	verdict := compliance.Pass
	if ok {
		verdict = report.Verdict
	}
	printColor(fmt.Sprintf("%s -- %d cards, bracket %d, verdict %s",
		s.Commander.Name, s.Library.TotalCount(), s.Config.BracketLevel, colorStatus(verdict)))
	for _, w := range s.Diagnostics.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
