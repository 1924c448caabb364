package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem/pkg/search"
	"github.com/soundprediction/graphmem/pkg/types"
)

func intPtr(n int) *int { return &n }

func filterFixture(t *testing.T) *types.Graph {
	t.Helper()
	return buildGraph(t,
		[]*types.Entity{
			{Name: "api", EntityType: "service", Observations: []string{"go", "public"}},
			{Name: "worker", EntityType: "service", Observations: []string{"go"}},
			{Name: "postgres", EntityType: "database", Observations: []string{"v15", "primary", "replicated"}},
		},
		[]*types.Relation{
			{From: "api", To: "postgres", RelationType: "depends_on"},
			{From: "worker", To: "postgres", RelationType: "depends_on"},
			{From: "api", To: "worker", RelationType: "enqueues"},
		},
	)
}

func TestAdvancedSearchEntityType(t *testing.T) {
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{EntityType: "service"})
	require.NoError(t, err)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, "api", result.Entities[0].Name)
	assert.Equal(t, "worker", result.Entities[1].Name)
	// Only the relation among the surviving entities remains.
	require.Len(t, result.Relations, 1)
	assert.Equal(t, "enqueues", result.Relations[0].RelationType)
}

func TestAdvancedSearchMinObservations(t *testing.T) {
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{MinObservations: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, "api", result.Entities[0].Name)
	assert.Equal(t, "postgres", result.Entities[1].Name)
}

func TestAdvancedSearchMaxRelations(t *testing.T) {
	// postgres has degree 2, api has degree 2, worker has degree 2.
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{MaxRelations: intPtr(1)})
	require.NoError(t, err)
	assert.Empty(t, result.Entities)
}

func TestAdvancedSearchNamePattern(t *testing.T) {
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{NamePattern: "^POST"})
	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "postgres", result.Entities[0].Name)
}

func TestAdvancedSearchConjunction(t *testing.T) {
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{
		EntityType:      "service",
		MinObservations: intPtr(2),
	})
	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "api", result.Entities[0].Name)
}

func TestAdvancedSearchRelationTypeNarrowsRelations(t *testing.T) {
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{RelationType: "depends_on"})
	require.NoError(t, err)
	assert.Len(t, result.Entities, 3)
	require.Len(t, result.Relations, 2)
	for _, r := range result.Relations {
		assert.Equal(t, "depends_on", r.RelationType)
	}
}

func TestAdvancedSearchNoFiltersReturnsEverything(t *testing.T) {
	result, err := search.AdvancedSearch(filterFixture(t), search.Filters{})
	require.NoError(t, err)
	assert.Len(t, result.Entities, 3)
	assert.Len(t, result.Relations, 3)
}

func TestAdvancedSearchInvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		filters search.Filters
	}{
		{"invalid regexp", search.Filters{NamePattern: "(["}},
		{"negative min observations", search.Filters{MinObservations: intPtr(-1)}},
		{"negative max relations", search.Filters{MaxRelations: intPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := search.AdvancedSearch(filterFixture(t), tt.filters)
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
		})
	}
}
