package graphmem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/types"
)

// The canonical two-entity fixture: A --depends_on--> B.
func seedSmallFixture(t *testing.T) *graphmem.Store {
	t.Helper()
	store := newTestStore(t)
	seedEntities(t, store,
		graphmem.EntityInput{Name: "A", EntityType: "svc", Observations: []string{"x"}},
		graphmem.EntityInput{Name: "B", EntityType: "db", Observations: []string{"y"}},
	)
	_, err := store.CreateRelations([]graphmem.RelationInput{
		{From: "A", To: "B", RelationType: "depends_on"},
	})
	require.NoError(t, err)
	return store
}

func TestSearchNodesObservationMatch(t *testing.T) {
	store := seedSmallFixture(t)

	result, err := store.SearchNodes("x")
	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "A", result.Entities[0].Name)
}

func TestSearchNodesEmptyQuery(t *testing.T) {
	store := seedSmallFixture(t)
	_, err := store.SearchNodes("   ")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestFindPathsRespectsDirection(t *testing.T) {
	store := seedSmallFixture(t)

	forward, err := store.FindPaths("A", "B", 1)
	require.NoError(t, err)
	require.Len(t, forward, 1)
	assert.Equal(t, []string{"A", "B"}, forward[0].Nodes)
	assert.Equal(t, []string{"depends_on"}, forward[0].Relations)

	backward, err := store.FindPaths("B", "A", 1)
	require.NoError(t, err)
	assert.Empty(t, backward)
}

func TestFindPathsSelfDefault(t *testing.T) {
	store := seedSmallFixture(t)
	paths, err := store.FindPaths("A", "A", 3)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestGetStatistics(t *testing.T) {
	store := seedSmallFixture(t)
	stats := store.GetStatistics()

	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 1, stats.RelationCount)
	assert.Equal(t, map[string]int{"svc": 1, "db": 1}, stats.EntityTypes)
	assert.Equal(t, map[string]int{"depends_on": 1}, stats.RelationTypes)
	assert.Equal(t, 1.0, stats.MeanObservations)
	assert.Equal(t, 0, stats.IsolatedEntityCount)
	assert.InDelta(t, 0.5, stats.Density, 1e-9)
}

func TestGenerateReport(t *testing.T) {
	store := seedSmallFixture(t)
	seedEntities(t, store, graphmem.EntityInput{Name: "loner", EntityType: "svc"})

	report := store.GenerateReport()
	assert.Equal(t, []string{"loner"}, report.OrphanedEntities)
	assert.Equal(t, []string{"depends_on"}, report.UnderusedRelationTypes)
	assert.Equal(t, []string{"loner"}, report.EntitiesWithoutObservations)
	assert.NotEmpty(t, report.Recommendations)
}

func TestExportGraphJSONRoundTrip(t *testing.T) {
	store := seedSmallFixture(t)

	result, err := store.ExportGraph("json")
	require.NoError(t, err)
	data, ok := result.Files["graph.json"]
	require.True(t, ok)

	reloaded, err := types.LoadGraph(data)
	require.NoError(t, err)
	assert.Len(t, reloaded.Entities, 2)
	assert.Len(t, reloaded.Relations, 1)
	assert.Equal(t, []string{"x"}, reloaded.Entity("A").Observations)
}

func TestExportGraphUnsupportedFormat(t *testing.T) {
	store := seedSmallFixture(t)
	_, err := store.ExportGraph("xlsx")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestDetectClustersCoversAllEntities(t *testing.T) {
	store := seedSmallFixture(t)
	seedEntities(t, store, graphmem.EntityInput{Name: "loner", EntityType: "svc"})

	result := store.DetectClusters()
	assert.Len(t, result.Assignments, 3)
	for _, name := range []string{"A", "B", "loner"} {
		_, ok := result.Assignments[name]
		assert.True(t, ok, "entity %s must be assigned", name)
	}
}

func TestSuggestRelations(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store,
		graphmem.EntityInput{Name: "api", EntityType: "svc"},
		graphmem.EntityInput{Name: "worker", EntityType: "svc"},
		graphmem.EntityInput{Name: "postgres", EntityType: "db"},
	)
	_, err := store.CreateRelations([]graphmem.RelationInput{
		{From: "api", To: "postgres", RelationType: "depends_on"},
		{From: "worker", To: "postgres", RelationType: "depends_on"},
	})
	require.NoError(t, err)

	suggestions := store.SuggestRelations()
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "api", suggestions[0].Source)
	assert.Equal(t, "worker", suggestions[0].Target)
	assert.Contains(t, suggestions[0].SharedNeighbors, "postgres")
}
