package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/export"
	"github.com/mtgforge/commanderbuilder/internal/randomentry"
)

var randomFlags struct {
	catalogPath       string
	policyDir         string
	storePath         string
	primary           string
	secondary         string
	tertiary          string
	strictThemeMatch  bool
	autoFillSecondary bool
	autoFillTertiary  bool
	bracketLevel      int
	seed              int64
	exportDir         string
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Select a random commander and build a deck for it",
	RunE:  runRandomCmd,
}

func init() {
	f := randomCmd.Flags()
	f.StringVar(&randomFlags.catalogPath, "catalog", "catalog.csv", "path to the tagged card catalog CSV")
	f.StringVar(&randomFlags.policyDir, "policy-dir", "", "directory containing bracket policy lists")
	f.StringVar(&randomFlags.storePath, "db", "", "path to the owned-cards/build-history SQLite database")
	f.StringVar(&randomFlags.primary, "theme", "", "primary theme filter")
	f.StringVar(&randomFlags.secondary, "theme2", "", "secondary theme filter")
	f.StringVar(&randomFlags.tertiary, "theme3", "", "tertiary theme filter")
	f.BoolVar(&randomFlags.strictThemeMatch, "strict-theme-match", false, "fail instead of falling back when no commander satisfies the theme filter")
	f.BoolVar(&randomFlags.autoFillSecondary, "auto-fill-secondary", true, "auto-fill a missing secondary theme from the commander's curated tags")
	f.BoolVar(&randomFlags.autoFillTertiary, "auto-fill-tertiary", true, "auto-fill a missing tertiary theme from the commander's curated tags")
	f.IntVar(&randomFlags.bracketLevel, "bracket", 3, "bracket power level (1-5)")
	f.Int64Var(&randomFlags.seed, "seed", time.Now().UnixNano(), "deterministic RNG seed")
	f.StringVar(&randomFlags.exportDir, "export-dir", "", "directory to write the decklist export (defaults to DECK_EXPORTS)")
}

func runRandomCmd(cmd *cobra.Command, args []string) error {
	cat, policyLists, err := loadCatalog(randomFlags.catalogPath, randomFlags.policyDir)
	if err != nil {
		return err
	}

	appCfg := loadedConfig()

	sel, diag, err := randomentry.Select(cat, randomentry.SelectConfig{
		Primary:           randomFlags.primary,
		Secondary:         randomFlags.secondary,
		Tertiary:          randomFlags.tertiary,
		StrictThemeMatch:  randomFlags.strictThemeMatch,
		Seed:              randomFlags.seed,
		Attempts:          appCfg.Random.MaxAttempts,
		Timeout:           appCfg.RandomTimeout(),
		AutoFillSecondary: randomFlags.autoFillSecondary,
		AutoFillTertiary:  randomFlags.autoFillTertiary,
	})
	if err != nil {
		return err
	}

	fmt.Printf("selected commander: %s", sel.Name)
	if reason := fallbackDiagnostic(diag); reason != "" {
		fmt.Printf(" (%s)", reason)
	}
	fmt.Println()

	db, err := openStore(randomFlags.storePath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	cfg := &deckbuild.Config{
		CommanderName: sel.Name,
		Themes: deckbuild.Themes{
			Primary:   randomFlags.primary,
			Secondary: diag.Secondary,
			Tertiary:  diag.Tertiary,
		},
		TagMode:      deckbuild.TagModeAND,
		BracketLevel: randomFlags.bracketLevel,
		IdealCounts:  deckbuild.DefaultIdealCounts(),
		Seed:         randomFlags.seed,
		PolicyDir:    randomFlags.policyDir,
	}

	owned := loadOwnedNames(db)
	state, buildErr := runBuild(cat, cfg, sel, owned, db, policyLists)
	if buildErr != nil {
		return buildErr
	}

	printBuildSummary(state)

	if !appCfg.Random.SuppressInitialExport {
		exportDir := randomFlags.exportDir
		if exportDir == "" {
			exportDir = appCfg.Export.Dir
		}
		if _, err := export.WriteAll(state, exportDir, time.Now()); err != nil {
			return fmt.Errorf("export deck: %w", err)
		}
	}

	pendingExitCode = exitCodeForVerdict(state)
	return nil
}

// fallbackDiagnostic renders a short explanation of why the random selection fell
// back from the direct multi-theme intersection, for the CLI's one-line
// summary.
func fallbackDiagnostic(d randomentry.Diagnostics) string {
	var parts []string
	if d.ComboFallback {
		parts = append(parts, "combo fallback")
	}
	if d.SynergyFallback {
		parts = append(parts, "synergy fallback")
	}
	if len(d.AutoFilledThemes) > 0 {
		parts = append(parts, "auto-filled: "+strings.Join(d.AutoFilledThemes, ", "))
	}
	if d.TimeoutHit {
		parts = append(parts, "timeout hit")
	}
	return strings.Join(parts, "; ")
}
