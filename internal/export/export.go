// Package export writes a finished build's decklist to the formats spec.md
// §6 "Decklist exports" names, generalized from the teacher's
// internal/mtga/deckexport.Exporter (format-switch over a fixed set of
// named exporters) to spec's CSV/TXT/JSON-sidecar trio.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild/compliance"
)

// csvHeader matches spec.md §6 exactly.
var csvHeader = []string{
	"Name", "Count", "Type", "ManaCost", "ManaValue", "Colors", "Power",
	"Toughness", "Role", "SubRole", "AddedBy", "TriggerTag", "Tags", "Text", "Owned",
}

// Result is the set of files a single export call produces.
type Result struct {
	CSVPath        string
	TXTPath        string
	SummaryPath    string
	CompliancePath string
}

// row pairs a library entry with its catalog data for export field lookup.
type row struct {
	entry *deckbuild.Entry
	card  catalog.Card
	found bool
}

func rows(s *deckbuild.State) []row {
	entries := s.Library.Entries()
	out := make([]row, len(entries))
	for i, e := range entries {
		card, found := s.Catalog.ByName(e.Name)
		out[i] = row{entry: e, card: card, found: found}
	}
	return out
}

// WriteAll writes CSV, TXT, summary sidecar and compliance sidecar for a
// finished build into dir, stemmed from the commander's name
// (spec.md §6 Decklist exports).
func WriteAll(s *deckbuild.State, dir string, stamp time.Time) (Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create export dir: %w", err)
	}
	stem := sanitizeFilename(s.Commander.Name)
	base := filepath.Join(dir, stem)

	var res Result

	res.CSVPath = base + ".csv"
	if err := writeCSV(s, res.CSVPath); err != nil {
		return res, err
	}

	res.TXTPath = base + ".txt"
	if err := writeTXT(s, res.TXTPath, stamp); err != nil {
		return res, err
	}

	res.SummaryPath = base + ".summary.json"
	if err := writeSummary(s, res.SummaryPath, stamp); err != nil {
		return res, err
	}

	res.CompliancePath = base + "_compliance.json"
	if err := writeCompliance(s, res.CompliancePath); err != nil {
		return res, err
	}

	return res, nil
}

func writeCSV(s *deckbuild.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	owned := make(map[string]bool, len(s.Config.OwnedNames))
	for _, n := range s.Config.OwnedNames {
		owned[catalog.NormalizeName(n)] = true
	}

	for _, r := range rows(s) {
		colors := strings.Join(r.card.ColorIdentity.Letters(), "")
		power := ""
		if r.found && r.card.Power != 0 {
			power = strconv.Itoa(r.card.Power)
		}
		record := []string{
			r.entry.Name,
			strconv.Itoa(r.entry.Count),
			r.entry.CardType,
			r.entry.ManaCost,
			strconv.FormatFloat(r.entry.ManaValue, 'f', -1, 64),
			colors,
			power,
			r.card.Toughness,
			string(r.entry.Role),
			r.entry.SubRole,
			r.entry.AddedBy,
			r.entry.TriggerTag,
			strings.Join(r.entry.Tags, ";"),
			r.card.Text,
			strconv.FormatBool(owned[catalog.NormalizeName(r.entry.Name)]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTXT(s *deckbuild.State, path string, stamp time.Time) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Commander: %s\n", s.Commander.Name))
	sb.WriteString(fmt.Sprintf("# Themes: %s\n", strings.Join(s.Config.Themes.List(), ", ")))
	sb.WriteString(fmt.Sprintf("# Colors: %s\n", strings.Join(s.Identity.Letters(), "")))
	sb.WriteString(fmt.Sprintf("# Bracket: %d\n", s.Config.BracketLevel))
	sb.WriteString(fmt.Sprintf("# Generated: %s\n", stamp.UTC().Format(time.RFC3339)))
	sb.WriteString("\n")

	for _, e := range s.Library.Entries() {
		sb.WriteString(fmt.Sprintf("%d %s\n", e.Count, e.Name))
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// sidecar is the JSON shape spec.md §6 calls for: {meta, summary}.
type sidecar struct {
	Meta    map[string]any `json:"meta"`
	Summary Summary        `json:"summary"`
}

func writeSummary(s *deckbuild.State, path string, stamp time.Time) error {
	doc := sidecar{
		Meta: map[string]any{
			"commander":       s.Commander.Name,
			"themes":          s.Config.Themes.List(),
			"bracket_level":   s.Config.BracketLevel,
			"seed":            s.Config.Seed,
			"generated_at":    stamp.UTC().Format(time.RFC3339),
			"attempts":        s.Diagnostics.Attempts,
			"elapsed_ms":      s.Diagnostics.ElapsedMS,
			"fallback":        s.Diagnostics.Fallback,
			"resolved_themes": s.Diagnostics.ResolvedThemes,
			"combo_fallback":  s.Diagnostics.ComboFallback,
			"synergy_fallback": s.Diagnostics.SynergyFallback,
			"fallback_reason": s.Diagnostics.FallbackReason,
		},
		Summary: BuildSummary(s),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCompliance(s *deckbuild.State, path string) error {
	report, _ := s.Compliance.(compliance.Report)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Summary mirrors spec.md §6 "summary" build-result sub-document.
type Summary struct {
	TypeBreakdown   TypeBreakdown      `json:"type_breakdown"`
	ManaCurve       map[string]int     `json:"mana_curve"`
	PipDistribution map[string]float64 `json:"pip_distribution"`
	ManaGeneration  map[string]int     `json:"mana_generation"`
	Colors          []string           `json:"colors"`
	Total           int                `json:"total"`
}

// TypeBreakdown mirrors spec.md §6's {counts, order, cards, total}.
type TypeBreakdown struct {
	Counts map[string]int      `json:"counts"`
	Order  []string            `json:"order"`
	Cards  map[string][]string `json:"cards"`
	Total  int                 `json:"total"`
}

var typeOrder = []string{"Creature", "Planeswalker", "Instant", "Sorcery", "Artifact", "Enchantment", "Land"}

// BuildSummary computes the deck summary from a finished build's library
// (spec.md §6 Build result "summary").
func BuildSummary(s *deckbuild.State) Summary {
	counts := map[string]int{}
	cards := map[string][]string{}
	curve := map[string]int{}
	pipCounts := map[string]float64{}
	pipTotal := 0.0
	sourceCounts := map[string]int{}
	total := 0

	for _, r := range rows(s) {
		total += r.entry.Count
		t := primaryType(r.entry.CardType)
		counts[t] += r.entry.Count
		cards[t] = append(cards[t], r.entry.Name)

		if t == "Land" {
			for _, c := range r.card.ColorIdentity.Letters() {
				sourceCounts[c] += r.entry.Count
			}
			continue
		}

		bucket := curveBucket(r.entry.ManaValue)
		curve[bucket] += r.entry.Count

		for _, sym := range extractPips(r.entry.ManaCost) {
			pipCounts[sym] += float64(r.entry.Count)
			pipTotal += float64(r.entry.Count)
		}
	}

	pipShares := map[string]float64{}
	for c, n := range pipCounts {
		if pipTotal > 0 {
			pipShares[c] = n / pipTotal
		}
	}

	order := make([]string, 0, len(counts))
	for _, t := range typeOrder {
		if counts[t] > 0 {
			order = append(order, t)
		}
	}
	var extra []string
	for t := range counts {
		if !contains(order, t) {
			extra = append(extra, t)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	return Summary{
		TypeBreakdown: TypeBreakdown{
			Counts: counts,
			Order:  order,
			Cards:  cards,
			Total:  total,
		},
		ManaCurve:       curve,
		PipDistribution: pipShares,
		ManaGeneration:  sourceCounts,
		Colors:          s.Identity.Letters(),
		Total:           total,
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func primaryType(cardType string) string {
	if cardType == "" {
		return "Spell"
	}
	return cardType
}

func curveBucket(mv float64) string {
	n := int(mv)
	if n >= 6 {
		return "6+"
	}
	return strconv.Itoa(n)
}

// extractPips returns one entry per color letter found in a cost string
// ("{2}{U}{U}" -> ["U","U"]). A hybrid symbol such as "{R/G}" yields one
// entry for each of its colors; it is not split the way
// rebalance.spellPipShares splits it.
func extractPips(manaCost string) []string {
	var out []string
	for _, c := range catalog.Colors {
		out = append(out, repeat(c, strings.Count(manaCost, c))...)
	}
	return out
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, ch := range invalid {
		result = strings.ReplaceAll(result, ch, "_")
	}
	result = strings.TrimSpace(result)
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "deck"
	}
	return result
}
