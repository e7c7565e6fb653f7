package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mtgforge/commanderbuilder/internal/catalog"
	"github.com/mtgforge/commanderbuilder/internal/deckbuild"
)

const testCatalogCSV = `name,type,manaCost,manaValue,colorIdentity,text,themeTags,creatureTypes,keywords,edhrecRank,power,toughness,layout
Krenko Mob Boss,Legendary Creature - Goblin,{2}{R},3,R,"whenever krenko attacks tap an untapped goblin...",goblin_tribal;aggro,Goblin,,100,3,3,normal
Goblin Bombardment,Artifact,{1}{R},2,R,"sacrifice a creature: deals damage",sacrifice,,,500,0,0,normal
Mountain,Basic Land - Mountain,,0,,,,,,,,0,normal
Forest,Basic Land - Forest,,0,,,,,,,,0,normal
`

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadReader(strings.NewReader(testCatalogCSV))
	require.NoError(t, err)
	return cat
}

func TestRunnerRunProducesOneResultPerJob(t *testing.T) {
	defer goleak.VerifyNone(t)

	cat := testCatalog(t)
	commander, ok := cat.ByName("Krenko Mob Boss")
	require.True(t, ok)

	cfg := &deckbuild.Config{
		CommanderName: commander.Name,
		BracketLevel:  3,
		Seed:          1,
		IdealCounts:   deckbuild.DefaultIdealCounts(),
	}

	jobs := []Job{
		{Config: cfg, Commander: commander, Owned: nil},
		{Config: cfg, Commander: commander, Owned: nil},
		{Config: cfg, Commander: commander, Owned: nil},
	}

	runner := NewRunner(cat, 2)
	results, err := runner.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for _, r := range results {
		require.NotEmpty(t, r.RunID)
		require.NotNil(t, r.State)
	}
}

func TestRunnerRunRespectsCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	cat := testCatalog(t)
	commander, ok := cat.ByName("Krenko Mob Boss")
	require.True(t, ok)

	cfg := &deckbuild.Config{CommanderName: commander.Name, BracketLevel: 3, Seed: 1, IdealCounts: deckbuild.DefaultIdealCounts()}
	jobs := []Job{{Config: cfg, Commander: commander, Owned: nil}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(cat, 1)
	results, err := runner.Run(ctx, jobs)
	require.NoError(t, err)
	require.Len(t, results, 1)
}
