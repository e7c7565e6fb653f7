package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
)

var complianceFlags struct {
	catalogPath  string
	policyDir    string
	commander    string
	bracketLevel int
}

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Build a commander deck and print its bracket compliance report",
	RunE:  runComplianceCmd,
}

func init() {
	f := complianceCmd.Flags()
	f.StringVar(&complianceFlags.catalogPath, "catalog", "catalog.csv", "path to the tagged card catalog CSV")
	f.StringVar(&complianceFlags.policyDir, "policy-dir", "", "directory containing bracket policy lists")
	f.StringVar(&complianceFlags.commander, "commander", "", "commander name (required)")
	f.IntVar(&complianceFlags.bracketLevel, "bracket", 3, "bracket power level (1-5)")
	_ = complianceCmd.MarkFlagRequired("commander")
}

func runComplianceCmd(cmd *cobra.Command, args []string) error {
	cat, policyLists, err := loadCatalog(complianceFlags.catalogPath, complianceFlags.policyDir)
	if err != nil {
		return err
	}

	commander, _, err := resolveCommander(cat, complianceFlags.commander)
	if err != nil {
		return err
	}

	cfg := &deckbuild.Config{
		CommanderName: commander.Name,
		BracketLevel:  complianceFlags.bracketLevel,
		IdealCounts:   deckbuild.DefaultIdealCounts(),
		Seed:          1,
		PolicyDir:     complianceFlags.policyDir,
	}

	state, buildErr := runBuild(cat, cfg, commander, nil, nil, policyLists)
	if buildErr != nil {
		return buildErr
	}

	report, ok := state.Compliance.(compliance.Report)
	if !ok {
		return fmt.Errorf("compliance report unavailable")
	}

	printColor(fmt.Sprintf("Bracket %d compliance: %s", cfg.BracketLevel, colorStatus(report.Verdict)))
	for _, result := range report.Categories {
		printColor(fmt.Sprintf("  %-20s %3d / %-6s %s", categoryName(result.Category), result.Count, limitText(result.Limit), colorStatus(result.Status)))
	}
	printColor(fmt.Sprintf("  %-20s %3d / %-6s %s", "combos", report.Combos.Count, limitText(report.Combos.Limit), colorStatus(report.Combos.Status)))
	if report.CommanderFlagged {
		fmt.Println("  note: commander itself is on a policy list")
	}

	pendingExitCode = exitCodeForVerdict(state)
	return nil
}

func categoryName(c bracket.Category) string {
	switch c {
	case bracket.GameChangers:
		return "game changers"
	case bracket.ExtraTurns:
		return "extra turns"
	case bracket.MassLandDenial:
		return "mass land denial"
	case bracket.TutorsNonland:
		return "tutors (nonland)"
	default:
		return string(c)
	}
}

func limitText(l bracket.Limit) string {
	if l.IsUnlimited() {
		return "unlimited"
	}
	return fmt.Sprintf("%d", *l.Value)
}
