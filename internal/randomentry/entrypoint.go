// Package randomentry implements the seeded random commander entrypoint
// (spec.md §4.9): a multi-theme AND fallback ladder over the commander-legal
// slice of the catalog, deterministic candidate selection, and optional
// theme auto-fill from a curated pool.
package randomentry

import (
	"sort"
	"strings"
	"time"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
	"github.com/mtgforge/commanderbuilder/internal/rng"
)

// SelectConfig is the random-entrypoint request (spec.md §4.9).
type SelectConfig struct {
	Primary   string
	Secondary string
	Tertiary  string

	StrictThemeMatch bool

	Seed     int64
	Attempts int
	Timeout  time.Duration

	AutoFillSecondary bool
	AutoFillTertiary  bool

	// Validate optionally rejects a candidate (e.g. an exclude list or
	// owned-only constraint) during the attempt loop. Nil accepts everything.
	Validate func(catalog.Card) bool
}

// Diagnostics mirrors the fields spec.md §3 Build result diagnostics assigns
// to a random-mode build.
type Diagnostics struct {
	ResolvedThemes   []string
	ComboFallback    bool
	SynergyFallback  bool
	FallbackReason   string
	AttemptsTried    int
	TimeoutHit       bool
	AutoFilledThemes []string

	// Secondary/Tertiary carry the post-auto-fill theme values back to the
	// caller, since SelectConfig is treated as immutable input.
	Secondary string
	Tertiary  string
}

var globalThemeKeywords = []string{"goodstuff", "good stuff", "all colors", "omnicolor"}

var globalThemePatterns = [][2]string{
	{"legend", "matter"},
	{"legendary", "matter"},
	{"historic", "matter"},
}

var kindredKeywords = []string{"kindred", "tribal", "tribe", "clan", "family", "pack"}

const overrepresentedShareThreshold = 0.30

func isGlobalToken(tag string) bool {
	norm := strings.ToLower(tag)
	for _, kw := range globalThemeKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	for _, pat := range globalThemePatterns {
		if strings.Contains(norm, pat[0]) && strings.Contains(norm, pat[1]) {
			return true
		}
	}
	return false
}

func isKindredToken(tag string) bool {
	norm := strings.ToLower(tag)
	for _, kw := range kindredKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// Select runs the spec.md §4.9 fallback ladder and returns the chosen
// commander plus its selection diagnostics.
func Select(cat *catalog.Catalog, cfg SelectConfig) (catalog.Card, Diagnostics, error) {
	commanders := commanderLegalRows(cat)
	if len(commanders) == 0 {
		return catalog.Card{}, Diagnostics{}, deckbuild.NewError(deckbuild.KindCatalogUnavailable, "no commander-legal cards in catalog", nil)
	}

	rows, diag := filterLadder(cat, commanders, cfg.Primary, cfg.Secondary, cfg.Tertiary)

	if cfg.StrictThemeMatch && (diag.SynergyFallback || len(rows) == 0) {
		return catalog.Card{}, Diagnostics{}, deckbuild.NewError(deckbuild.KindStrictThemeNoMatch, "no commander matched the requested themes", nil)
	}
	if len(rows) == 0 {
		rows = commanders
		diag.ComboFallback = true
		diag.SynergyFallback = true
		diag.FallbackReason = "no theme matches found; using full commander pool"
	}

	names := make([]string, 0, len(rows))
	byName := make(map[string]catalog.RowID, len(rows))
	for _, r := range rows {
		name := cat.Cards[r].Name
		names = append(names, name)
		byName[name] = r
	}
	sort.Strings(names)

	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	src := rng.New(cfg.Seed)
	deadline := time.Now().Add(timeout)

	var pick string
	for i := 0; i < attempts; i++ {
		if time.Now().After(deadline) {
			diag.TimeoutHit = true
			break
		}
		diag.AttemptsTried = i + 1
		candidate := names[src.IntN(len(names))]
		if cfg.Validate == nil || cfg.Validate(cat.Cards[byName[candidate]]) {
			pick = candidate
			break
		}
	}
	if pick == "" {
		idx := int(((cfg.Seed % int64(len(names))) + int64(len(names))) % int64(len(names)))
		pick = names[idx]
	}

	commander := cat.Cards[byName[pick]]

	if cfg.AutoFillSecondary || cfg.AutoFillTertiary {
		diag.Secondary, diag.Tertiary, diag.AutoFilledThemes = autoFill(cat, commanders, commander, cfg, src)
	}

	return commander, diag, nil
}

func commanderLegalRows(cat *catalog.Catalog) []catalog.RowID {
	var out []catalog.RowID
	for i, c := range cat.Cards {
		if c.IsCommanderLegal {
			out = append(out, catalog.RowID(i))
		}
	}
	return out
}

// andFilter intersects tag row-sets (restricted to legal rows) for every
// requested tag; an empty or missing tag yields no candidates.
func andFilter(cat *catalog.Catalog, legal map[catalog.RowID]bool, tags []string) []catalog.RowID {
	if len(tags) == 0 {
		return nil
	}
	var acc map[catalog.RowID]bool
	for _, tag := range tags {
		rows := cat.Index.Rows(tag)
		if len(rows) == 0 {
			return nil
		}
		set := make(map[catalog.RowID]bool, len(rows))
		for _, r := range rows {
			if legal[r] {
				set[r] = true
			}
		}
		if acc == nil {
			acc = set
		} else {
			for r := range acc {
				if !set[r] {
					delete(acc, r)
				}
			}
		}
		if len(acc) == 0 {
			return nil
		}
	}
	out := make([]catalog.RowID, 0, len(acc))
	for r := range acc {
		out = append(out, r)
	}
	return out
}

func filterLadder(cat *catalog.Catalog, commanders []catalog.RowID, primary, secondary, tertiary string) ([]catalog.RowID, Diagnostics) {
	legal := make(map[catalog.RowID]bool, len(commanders))
	for _, r := range commanders {
		legal[r] = true
	}

	p, s, t := strings.TrimSpace(primary), strings.TrimSpace(secondary), strings.TrimSpace(tertiary)

	if p != "" && s != "" && t != "" {
		if rows := andFilter(cat, legal, []string{p, s, t}); len(rows) > 0 {
			return rows, Diagnostics{ResolvedThemes: []string{p, s, t}}
		}
	}
	if p != "" && s != "" {
		if rows := andFilter(cat, legal, []string{p, s}); len(rows) > 0 {
			reason := ""
			if t != "" {
				reason = "no commander matched all three themes; using primary+secondary"
			}
			return rows, Diagnostics{ResolvedThemes: []string{p, s}, ComboFallback: t != "", FallbackReason: reason}
		}
	}
	if p != "" && t != "" {
		if rows := andFilter(cat, legal, []string{p, t}); len(rows) > 0 {
			reason := ""
			if s != "" {
				reason = "no commander matched requested combinations; using primary+tertiary"
			}
			return rows, Diagnostics{ResolvedThemes: []string{p, t}, ComboFallback: s != "", FallbackReason: reason}
		}
	}
	if p != "" {
		if rows := andFilter(cat, legal, []string{p}); len(rows) > 0 {
			reason := ""
			combo := s != "" || t != ""
			if combo {
				reason = "no multi-theme combination matched; using primary only"
			}
			return rows, Diagnostics{ResolvedThemes: []string{p}, ComboFallback: combo, FallbackReason: reason}
		}
	}
	if p != "" {
		if rows, matched := synergyFallback(cat, legal, p); len(rows) > 0 {
			return rows, Diagnostics{
				ResolvedThemes:  matched,
				ComboFallback:   true,
				SynergyFallback: true,
				FallbackReason:  "primary theme had no direct matches; using synergy overlap",
			}
		}
	}
	return nil, Diagnostics{}
}

// synergyFallback tokenizes primary on whitespace/hyphens and unions every
// commander whose tag index contains a token, direct match first and then a
// substring scan over every known tag key (spec.md §4.9 step 5).
func synergyFallback(cat *catalog.Catalog, legal map[catalog.RowID]bool, primary string) ([]catalog.RowID, []string) {
	words := strings.FieldsFunc(strings.ToLower(primary), func(r rune) bool {
		return r == ' ' || r == '-'
	})
	if len(words) == 0 {
		return nil, nil
	}

	hits := make(map[catalog.RowID]bool)
	var matchedTokens []string
	seenTokens := map[string]bool{}

	for _, w := range words {
		rows := cat.Index.Rows(w)
		if len(rows) == 0 {
			continue
		}
		if !seenTokens[w] {
			seenTokens[w] = true
			matchedTokens = append(matchedTokens, w)
		}
		for _, r := range rows {
			if legal[r] {
				hits[r] = true
			}
		}
	}

	if len(hits) == 0 {
		for _, w := range words {
			for _, tag := range cat.Index.Tags() {
				if !strings.Contains(tag, w) {
					continue
				}
				rows := cat.Index.Rows(tag)
				if len(rows) == 0 {
					continue
				}
				if !seenTokens[tag] {
					seenTokens[tag] = true
					matchedTokens = append(matchedTokens, tag)
				}
				for _, r := range rows {
					if legal[r] {
						hits[r] = true
					}
				}
			}
		}
	}

	if len(hits) == 0 {
		return nil, nil
	}
	out := make([]catalog.RowID, 0, len(hits))
	for r := range hits {
		out = append(out, r)
	}
	return out, matchedTokens
}

// curatedPool builds the auto-fill-eligible theme tag set: tags with at
// least 5 commanders, excluding global/kindred tokens and anything covering
// more than 30% of the commander pool (spec.md §4.9 "Auto-fill").
func curatedPool(commanderCards []catalog.Card) map[string]bool {
	counts := map[string]int{}
	for _, c := range commanderCards {
		for _, tag := range c.ThemeTags {
			counts[tag]++
		}
	}
	total := len(commanderCards)
	allowed := map[string]bool{}
	for tag, count := range counts {
		if count < 5 {
			continue
		}
		if isGlobalToken(tag) || isKindredToken(tag) {
			continue
		}
		if total > 0 && float64(count)/float64(total) > overrepresentedShareThreshold {
			continue
		}
		allowed[tag] = true
	}
	return allowed
}

func autoFill(cat *catalog.Catalog, commanderRows []catalog.RowID, commander catalog.Card, cfg SelectConfig, src *rng.Source) (string, string, []string) {
	secondary, tertiary := cfg.Secondary, cfg.Tertiary
	missingSecondary := cfg.AutoFillSecondary && secondary == ""
	missingTertiary := cfg.AutoFillTertiary && tertiary == ""
	if !missingSecondary && !missingTertiary {
		return secondary, tertiary, nil
	}

	commanderCards := make([]catalog.Card, len(commanderRows))
	for i, r := range commanderRows {
		commanderCards[i] = cat.Cards[r]
	}
	allowed := curatedPool(commanderCards)

	existing := map[string]bool{
		strings.ToLower(cfg.Primary): true,
		strings.ToLower(secondary):   true,
		strings.ToLower(tertiary):    true,
	}

	var candidates []string
	seen := map[string]bool{}
	for _, tag := range commander.ThemeTags {
		if seen[tag] || existing[tag] || !allowed[tag] {
			continue
		}
		seen[tag] = true
		candidates = append(candidates, tag)
	}
	if len(candidates) == 0 {
		return secondary, tertiary, nil
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	src.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var filled []string
	for _, idx := range order {
		tag := candidates[idx]
		if missingSecondary {
			secondary = tag
			missingSecondary = false
			filled = append(filled, tag)
			continue
		}
		if missingTertiary {
			tertiary = tag
			missingTertiary = false
			filled = append(filled, tag)
		}
		if !missingSecondary && !missingTertiary {
			break
		}
	}
	return secondary, tertiary, filled
}
