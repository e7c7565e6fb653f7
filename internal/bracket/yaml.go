package bracket

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLPolicy mirrors one bracket entry of the optional override file
// (spec.md §6 Bracket definitions).
type YAMLPolicy struct {
	Name   string `yaml:"name"`
	Level  int    `yaml:"level"`
	Limits struct {
		GameChangers      *int `yaml:"game_changers"`
		ExtraTurns        *int `yaml:"extra_turns"`
		MassLandDenial    *int `yaml:"mass_land_denial"`
		TutorsNonland     *int `yaml:"tutors_nonland"`
		TwoCardCombos     *int `yaml:"two_card_combos"`
		ExtraTurnsWarn    *int `yaml:"extra_turns_warn"`
		TutorsNonlandWarn *int `yaml:"tutors_nonland_warn"`
	} `yaml:"limits"`
}

// yamlDoc is the top-level document: a map keyed by an arbitrary slug
// ("core", "upgraded", ...) to a YAMLPolicy, per spec.md §6's example.
type yamlDoc map[string]YAMLPolicy

// LoadOverrides reads an optional bracket-definition YAML file and applies
// every entry to the table. A missing file is not an error: overrides are
// optional (spec.md §6 "YAML, optional override").
func LoadOverrides(t *Table, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read bracket overrides %s: %w", path, err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse bracket overrides %s: %w", path, err)
	}
	for _, policy := range doc {
		t.ApplyOverride(policy)
	}
	return nil
}
