package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// columnAliases lists the exact header names spec.md §6 promises, plus the
// accepted aliases ("type" vs "type_line", "text" vs "oracleText").
var columnAliases = map[string][]string{
	"name":          {"name"},
	"type":          {"type", "type_line"},
	"manaCost":      {"manaCost", "mana_cost"},
	"manaValue":     {"manaValue", "mana_value"},
	"colorIdentity": {"colorIdentity", "color_identity"},
	"text":          {"text", "oracleText"},
	"themeTags":     {"themeTags", "theme_tags"},
	"creatureTypes": {"creatureTypes", "creature_types"},
	"keywords":      {"keywords"},
	"edhrecRank":    {"edhrecRank", "edhrec_rank"},
	"power":         {"power"},
	"toughness":     {"toughness"},
	"layout":        {"layout"},
	"side":          {"side"},
	"faceName":      {"faceName", "face_name"},
	"backType":      {"backType", "back_type"},
}

// Catalog is the immutable, columnar tagged card catalog (spec.md §3
// lifecycle: "loaded once per build; never mutated").
type Catalog struct {
	Cards []Card
	Index *TagIndex
	// byName maps a lowercased, trimmed card name to its row.
	byName map[string]RowID
}

// ByName looks up a card by exact (case-insensitive) name.
func (c *Catalog) ByName(name string) (Card, bool) {
	row, ok := c.byName[normalizeName(name)]
	if !ok {
		return Card{}, false
	}
	return c.Cards[row], true
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName exports the catalog's name-lookup normalization so callers
// building exclusion/inclusion sets key them the same way ByName does.
func NormalizeName(s string) string {
	return normalizeName(s)
}

// Load reads a tabular tagged card catalog (CSV) from path and builds the
// catalog plus its tag index (spec.md §4.1 load_catalog).
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader parses a tagged card catalog from an already-open reader.
func LoadReader(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	colIdx := make(map[string]int, len(columnAliases))
	for canon, aliases := range columnAliases {
		for i, h := range header {
			for _, alias := range aliases {
				if strings.EqualFold(strings.TrimSpace(h), alias) {
					colIdx[canon] = i
				}
			}
		}
	}
	if _, ok := colIdx["name"]; !ok {
		return nil, fmt.Errorf("catalog missing required column: name")
	}

	cat := &Catalog{byName: make(map[string]RowID)}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		card, err := parseRow(rec, colIdx)
		if err != nil {
			continue // skip malformed rows rather than abort the whole load
		}
		row := RowID(len(cat.Cards))
		cat.Cards = append(cat.Cards, card)
		cat.byName[normalizeName(card.Name)] = row
	}

	cat.Index = BuildTagIndex(cat.Cards)
	return cat, nil
}

func field(rec []string, colIdx map[string]int, key string) string {
	idx, ok := colIdx[key]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func parseRow(rec []string, colIdx map[string]int) (Card, error) {
	name := strings.TrimSpace(field(rec, colIdx, "name"))
	if name == "" {
		return Card{}, fmt.Errorf("empty name")
	}

	mv, _ := strconv.ParseFloat(strings.TrimSpace(field(rec, colIdx, "manaValue")), 64)

	var rank *int
	if raw := strings.TrimSpace(field(rec, colIdx, "edhrecRank")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			rank = &v
		}
	}

	power, _ := strconv.Atoi(strings.TrimSpace(field(rec, colIdx, "power")))

	card := Card{
		Name:          name,
		TypeLine:      field(rec, colIdx, "type"),
		ManaCost:      field(rec, colIdx, "manaCost"),
		ManaValue:     mv,
		ColorIdentity: ColorSetFromSlice(ParseList(field(rec, colIdx, "colorIdentity"))),
		Text:          strings.ToLower(field(rec, colIdx, "text")),
		ThemeTags:     normalizeTags(ParseList(field(rec, colIdx, "themeTags"))),
		CreatureTypes: ParseList(field(rec, colIdx, "creatureTypes")),
		Keywords:      ParseList(field(rec, colIdx, "keywords")),
		EDHRecRank:    rank,
		Power:         power,
		Toughness:     strings.TrimSpace(field(rec, colIdx, "toughness")),
		Layout:        field(rec, colIdx, "layout"),
		Side:          field(rec, colIdx, "side"),
		FaceName:      field(rec, colIdx, "faceName"),
		BackType:      field(rec, colIdx, "backType"),
	}
	card.IsCommanderLegal = strings.Contains(strings.ToLower(card.TypeLine), "legendary")
	return card, nil
}

// ParseList parses a column that may be a Python-repr list ("['A', 'B']"),
// a comma-separated string ("A, B"), or empty, into a clean string slice.
// The source catalog is produced by a Python pipeline (spec.md §6), so both
// forms occur in practice.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		raw = raw[1 : len(raw)-1]
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, "'\"")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}
