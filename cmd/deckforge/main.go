// Command deckforge is the CLI surface for the commander deck-construction
// engine (spec.md §6 External interfaces): build, random, batch and
// compliance subcommands under a single cobra root command, replacing the
// teacher's flat flag-parsing + os.Args[1] subcommand sniffing
// (cmd/mtga-companion/main.go) with cobra's named, composable subcommands,
// as SPEC_FULL.md §4.10 calls for.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtgforge/commanderbuilder/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "deckforge",
	Short:   "Deterministic Commander deck construction engine",
	Version: version.GetVersion(),
}

// pendingExitCode lets a subcommand signal a non-error exit status derived
// from a build's compliance verdict (spec.md §6: exit 0 for PASS/WARN, 2 for
// FAIL), since returning a non-nil error from RunE would otherwise be the
// only way cobra communicates a nonzero status.
var pendingExitCode int

func main() {
	rootCmd.AddCommand(buildCmd, randomCmd, batchCmd, complianceCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeForErr(err))
	}
	os.Exit(pendingExitCode)
}
