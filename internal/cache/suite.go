package cache

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mtgforge/commanderbuilder/internal/bracket"
	"github.com/mtgforge/commanderbuilder/internal/catalog"
)

// Suite bundles every file-backed input a build needs, each with its own
// TTL/mtime-invalidated cache, so a long-lived CLI or batch process reloads
// the catalog and policy lists in place instead of re-reading them from
// disk on every build (spec.md §5).
type Suite struct {
	Catalog        *Cache[*catalog.Catalog]
	GameChangers   *Cache[*bracket.CardList]
	ExtraTurns     *Cache[*bracket.CardList]
	MassLandDenial *Cache[*bracket.CardList]
	TutorsNonland  *Cache[*bracket.CardList]
	Combos         *Cache[*bracket.ComboList]
}

// NewSuite builds a Suite rooted at catalogPath, with policy lists resolved
// under policyDir (spec.md §6 Policy lists: game_changers.json,
// extra_turns.json, mass_land_denial.json, tutors_nonland.json,
// combos.json). Any policy list whose file is absent resolves to an empty
// list rather than an error; the loadCardList/loadComboList wrappers do this,
// since bracket.LoadCardList itself returns an error for a missing file.
func NewSuite(catalogPath, policyDir string, logger *slog.Logger) *Suite {
	policy := func(name string) string { return filepath.Join(policyDir, name) }

	return &Suite{
		Catalog: New(catalogPath, func(p string) (*catalog.Catalog, error) {
			return catalog.Load(p)
		}, logger),
		GameChangers:   New(policy("game_changers.json"), loadCardList, logger),
		ExtraTurns:     New(policy("extra_turns.json"), loadCardList, logger),
		MassLandDenial: New(policy("mass_land_denial.json"), loadCardList, logger),
		TutorsNonland:  New(policy("tutors_nonland.json"), loadCardList, logger),
		Combos:         New(policy("combos.json"), loadComboList, logger),
	}
}

// loadCardList tolerates a missing file (PolicyDir is optional per spec.md
// §6: an absent list means that category simply never flags anything).
func loadCardList(path string) (*bracket.CardList, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &bracket.CardList{}, nil
	}
	return bracket.LoadCardList(path)
}

func loadComboList(path string) (*bracket.ComboList, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &bracket.ComboList{}, nil
	}
	return bracket.LoadComboList(path)
}

// WatchAll starts fsnotify watchers on every cached file present on disk,
// logging but not failing on files that don't exist yet.
func (s *Suite) WatchAll() {
	for _, c := range []interface{ Watch() error }{
		s.Catalog, s.GameChangers, s.ExtraTurns, s.MassLandDenial, s.TutorsNonland, s.Combos,
	} {
		_ = c.Watch()
	}
}

// Close stops every watcher in the suite.
func (s *Suite) Close() {
	s.Catalog.Close()
	s.GameChangers.Close()
	s.ExtraTurns.Close()
	s.MassLandDenial.Close()
	s.TutorsNonland.Close()
	s.Combos.Close()
}
