package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/mtgforge/commanderbuilder/internal/cache"
	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/config"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
	"github.com/mtgforge/commanderbuilder/internal/fuzzy"
	"github.com/mtgforge/commanderbuilder/internal/pipeline"
	"github.com/mtgforge/commanderbuilder/internal/store"
)

// cmdContext is the single context used for the short-lived store
// operations a CLI invocation makes; the CLI has no long-running work to
// cancel mid-command.
func cmdContext() context.Context { return context.Background() }

// stdout is an ANSI-stripping writer on Windows, a passthrough elsewhere
// (github.com/mattn/go-colorable), used for the colorized compliance output.
var stdout io.Writer = colorable.NewColorableStdout()

// exitCodeForErr maps the spec.md §6 exit-code table onto a returned error.
// Errors not tagged with a *deckbuild.BuildError fall back to 1 (generic).
func exitCodeForErr(err error) int {
	if err == nil {
		return 0
	}
	var be *deckbuild.BuildError
	if buildErr, ok := err.(*deckbuild.BuildError); ok {
		be = buildErr
	}
	if be == nil {
		return 1
	}
	switch be.Kind {
	case deckbuild.KindCatalogUnavailable:
		return 4
	case deckbuild.KindInputValidation, deckbuild.KindStrictThemeNoMatch, deckbuild.KindConstraintsImpossible:
		return 3
	default:
		return 1
	}
}

// exitCodeForVerdict maps a finished build's compliance verdict onto the
// spec.md §6 exit-code table: 0 = PASS or WARN, 2 = FAIL after enforcement.
func exitCodeForVerdict(s *deckbuild.State) int {
	report, ok := s.Compliance.(compliance.Report)
	if !ok {
		return 0
	}
	if report.Verdict == compliance.Fail {
		return 2
	}
	return 0
}

// loadCatalog opens the tagged card catalog and the bracket policy lists
// through a TTL/mtime-invalidated cache.Suite (spec.md §5 "cached with a
// short TTL (60s) and rebuilt on underlying file mtime change"), wrapping a
// missing or corrupt catalog as the spec.md §7 CatalogUnavailable kind. A
// missing policyDir resolves every policy list to empty, as before.
func loadCatalog(catalogPath, policyDir string) (*catalog.Catalog, compliance.Lists, error) {
	suite := cache.NewSuite(catalogPath, policyDir, nil)
	cat, err := suite.Catalog.Get()
	if err != nil {
		return nil, compliance.Lists{}, deckbuild.NewError(deckbuild.KindCatalogUnavailable, "load catalog "+catalogPath, err)
	}
	return cat, policyListsFromSuite(suite), nil
}

// policyListsFromSuite reads every cached policy list out of suite,
// tolerating a missing underlying file the same way a direct disk load
// does (the Cache's loader returns an empty list, not an error, for a
// missing file; see cache.loadCardList/loadComboList).
func policyListsFromSuite(suite *cache.Suite) compliance.Lists {
	gameChangers, _ := suite.GameChangers.Get()
	extraTurns, _ := suite.ExtraTurns.Get()
	massLandDenial, _ := suite.MassLandDenial.Get()
	tutorsNonland, _ := suite.TutorsNonland.Get()
	combos, _ := suite.Combos.Get()
	return compliance.Lists{
		GameChangers:   gameChangers,
		ExtraTurns:     extraTurns,
		MassLandDenial: massLandDenial,
		TutorsNonland:  tutorsNonland,
		Combos:         combos,
	}
}

// resolveCommander fuzzy-matches name against the catalog's commander-legal
// cards (spec.md §4.1), returning an InputValidation error when no exact
// match is found and candidates must be presented instead.
func resolveCommander(cat *catalog.Catalog, name string) (catalog.Card, []catalog.Card, error) {
	var names []string
	for _, c := range cat.Cards {
		if c.IsCommanderLegal {
			names = append(names, c.Name)
		}
	}
	resolver := fuzzy.NewResolver(names, nil)
	res := fuzzy.ResolveCommander(cat, resolver, name)
	if res.Exact != nil {
		return *res.Exact, nil, nil
	}
	return catalog.Card{}, res.Candidates, deckbuild.NewError(
		deckbuild.KindInputValidation,
		fmt.Sprintf("no exact commander match for %q", name),
		nil,
	)
}

// runBuild assembles State for commander and drives it through the full
// pipeline (spec.md §4.3-§4.8), recording the run in the store when db is
// non-nil. lists is the pre-loaded policy-list set from loadCatalog's
// cache.Suite; the compliance and enforcement phases use it instead of
// reloading Config.PolicyDir from disk.
func runBuild(cat *catalog.Catalog, cfg *deckbuild.Config, commander catalog.Card, owned map[string]bool, db *store.DB, lists compliance.Lists) (*deckbuild.State, error) {
	state := deckbuild.NewState(cfg, cat, commander, owned, nil)
	state.PolicyLists = lists
	orch := pipeline.New()
	if err := orch.Run(state); err != nil {
		return state, err
	}

	if db != nil {
		if _, err := store.NewRunsRepo(db).Record(cmdContext(), state); err != nil {
			state.Diagnostics.Warn("record build run: " + err.Error())
		}
	}
	return state, nil
}

// loadedConfig loads operational settings, falling back to defaults on any
// error so CLI commands remain usable without a prior `deckforge config`
// step.
func loadedConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// openStore opens the owned-card/build-history database at path, returning
// nil (not an error) when path is empty so persistence is opt-in.
func openStore(path string) (*store.DB, error) {
	if path == "" {
		return nil, nil
	}
	return store.Open(store.DefaultConfig(path))
}

// loadOwnedNames returns the owned-card set from the store. When no database
// is open, or the query fails, the set is empty.
func loadOwnedNames(db *store.DB) map[string]bool {
	owned := map[string]bool{}
	if db == nil {
		return owned
	}
	names, err := store.NewOwnedRepo(db).All(cmdContext())
	if err != nil {
		return owned
	}
	for _, n := range names {
		owned[n] = true
	}
	return owned
}

// colorStatus renders a compliance verdict in color when stdout is a real
// terminal (spec.md §6 colorized compliance output: green PASS / yellow
// WARN / red FAIL), falling back to plain text on a pipe/redirect.
func colorStatus(status compliance.Status) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return string(status)
	}
	const (
		green  = "\x1b[32m"
		yellow = "\x1b[33m"
		red    = "\x1b[31m"
		reset  = "\x1b[0m"
	)
	color := reset
	switch status {
	case compliance.Pass:
		color = green
	case compliance.Warn:
		color = yellow
	case compliance.Fail:
		color = red
	}
	return color + string(status) + reset
}

// printColor writes s to the colorable stdout writer, stripping ANSI codes
// automatically on terminals that don't support them.
func printColor(s string) {
	fmt.Fprintln(stdout, s)
}
