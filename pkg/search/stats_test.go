package search_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem/pkg/search"
	"github.com/soundprediction/graphmem/pkg/types"
)

func TestStatisticsEmptyGraph(t *testing.T) {
	stats := search.Statistics(types.NewGraph())
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 0, stats.RelationCount)
	assert.Equal(t, 0.0, stats.MeanObservations)
	assert.Equal(t, 0.0, stats.Density)
	assert.Empty(t, stats.TopConnectedEntities)
}

func TestStatisticsHistograms(t *testing.T) {
	g := buildGraph(t,
		[]*types.Entity{
			{Name: "a", EntityType: "svc", Observations: []string{"1", "2"}},
			{Name: "b", EntityType: "svc"},
			{Name: "c", EntityType: "db", Observations: []string{"3", "4"}},
		},
		[]*types.Relation{
			{From: "a", To: "c", RelationType: "depends_on"},
			{From: "b", To: "c", RelationType: "depends_on"},
		},
	)

	stats := search.Statistics(g)
	assert.Equal(t, map[string]int{"svc": 2, "db": 1}, stats.EntityTypes)
	assert.Equal(t, map[string]int{"depends_on": 2}, stats.RelationTypes)
	assert.InDelta(t, 4.0/3.0, stats.MeanObservations, 1e-9)
	// density = 2 / (3*2)
	assert.InDelta(t, 1.0/3.0, stats.Density, 1e-9)
	assert.Equal(t, 0, stats.IsolatedEntityCount)
}

func TestStatisticsTopConnected(t *testing.T) {
	entities := []*types.Entity{{Name: "hub", EntityType: "svc"}}
	var relations []*types.Relation
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("leaf%02d", i)
		entities = append(entities, &types.Entity{Name: name, EntityType: "svc"})
		relations = append(relations, &types.Relation{From: name, To: "hub", RelationType: "links"})
	}
	g := buildGraph(t, entities, relations)

	stats := search.Statistics(g)
	assert.Len(t, stats.TopConnectedEntities, 10)
	assert.Equal(t, "hub", stats.TopConnectedEntities[0].Name)
	assert.Equal(t, 15, stats.TopConnectedEntities[0].Degree)
	// Ties among leaves break by ascending name.
	assert.Equal(t, "leaf00", stats.TopConnectedEntities[1].Name)
}

func TestGenerateReportFlags(t *testing.T) {
	g := buildGraph(t,
		[]*types.Entity{
			{Name: "orphan", EntityType: "svc"},
			{Name: "a", EntityType: "svc", Observations: []string{"x"}},
			{Name: "b", EntityType: "svc", Observations: []string{"y"}},
		},
		[]*types.Relation{
			{From: "a", To: "b", RelationType: "once"},
			{From: "b", To: "a", RelationType: "twice"},
			{From: "a", To: "b", RelationType: "twice"},
		},
	)

	report := search.GenerateReport(g)
	assert.Equal(t, []string{"orphan"}, report.OrphanedEntities)
	assert.Equal(t, []string{"once"}, report.UnderusedRelationTypes)
	assert.Equal(t, []string{"orphan"}, report.EntitiesWithoutObservations)

	require.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.Recommendations[0], "orphan")
}

func TestGenerateReportHealthyGraphHasNoFlags(t *testing.T) {
	g := buildGraph(t,
		[]*types.Entity{
			{Name: "a", EntityType: "svc", Observations: []string{"x"}},
			{Name: "b", EntityType: "svc", Observations: []string{"y"}},
		},
		[]*types.Relation{
			{From: "a", To: "b", RelationType: "r"},
			{From: "b", To: "a", RelationType: "r"},
		},
	)

	report := search.GenerateReport(g)
	assert.Empty(t, report.OrphanedEntities)
	assert.Empty(t, report.EntitiesWithoutObservations)
	assert.Empty(t, report.UnderusedRelationTypes)
}
