package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem/pkg/search"
	"github.com/soundprediction/graphmem/pkg/types"
)

// diamondGraph: a -> b -> d, a -> c -> d, plus a direct a -> d edge.
func diamondGraph(t *testing.T) *types.Graph {
	t.Helper()
	return buildGraph(t,
		[]*types.Entity{
			{Name: "a", EntityType: "t"},
			{Name: "b", EntityType: "t"},
			{Name: "c", EntityType: "t"},
			{Name: "d", EntityType: "t"},
		},
		[]*types.Relation{
			{From: "a", To: "b", RelationType: "r1"},
			{From: "b", To: "d", RelationType: "r2"},
			{From: "a", To: "c", RelationType: "r3"},
			{From: "c", To: "d", RelationType: "r4"},
			{From: "a", To: "d", RelationType: "direct"},
		},
	)
}

func TestFindPathsOrdering(t *testing.T) {
	paths, err := search.FindPaths(diamondGraph(t), "a", "d", 3, false)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	// Shortest first, then lexicographic node sequence.
	assert.Equal(t, []string{"a", "d"}, paths[0].Nodes)
	assert.Equal(t, []string{"direct"}, paths[0].Relations)
	assert.Equal(t, []string{"a", "b", "d"}, paths[1].Nodes)
	assert.Equal(t, []string{"a", "c", "d"}, paths[2].Nodes)
	assert.Equal(t, 1, paths[0].Length)
	assert.Equal(t, 2, paths[1].Length)
}

func TestFindPathsHonorsMaxLength(t *testing.T) {
	paths, err := search.FindPaths(diamondGraph(t), "a", "d", 1, false)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"a", "d"}, paths[0].Nodes)

	for _, p := range paths {
		assert.LessOrEqual(t, p.Length, 1)
	}
}

func TestFindPathsNoPathIsEmptyNotError(t *testing.T) {
	paths, err := search.FindPaths(diamondGraph(t), "d", "a", 5, false)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindPathsCycleSafe(t *testing.T) {
	g := buildGraph(t,
		[]*types.Entity{
			{Name: "a", EntityType: "t"},
			{Name: "b", EntityType: "t"},
			{Name: "c", EntityType: "t"},
		},
		[]*types.Relation{
			{From: "a", To: "b", RelationType: "r"},
			{From: "b", To: "a", RelationType: "r"},
			{From: "b", To: "c", RelationType: "r"},
		},
	)

	paths, err := search.FindPaths(g, "a", "c", 10, false)
	require.NoError(t, err)
	// Simple paths only: a,b,c once, never revisiting a.
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"a", "b", "c"}, paths[0].Nodes)
}

func TestFindPathsParallelRelations(t *testing.T) {
	g := buildGraph(t,
		[]*types.Entity{
			{Name: "a", EntityType: "t"},
			{Name: "b", EntityType: "t"},
		},
		[]*types.Relation{
			{From: "a", To: "b", RelationType: "reads"},
			{From: "a", To: "b", RelationType: "writes"},
		},
	)

	paths, err := search.FindPaths(g, "a", "b", 1, false)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"reads"}, paths[0].Relations)
	assert.Equal(t, []string{"writes"}, paths[1].Relations)
}

func TestFindPathsSelfTarget(t *testing.T) {
	g := diamondGraph(t)

	t.Run("default yields no path", func(t *testing.T) {
		paths, err := search.FindPaths(g, "a", "a", 3, false)
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("zero-length self path when enabled", func(t *testing.T) {
		paths, err := search.FindPaths(g, "a", "a", 3, true)
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, []string{"a"}, paths[0].Nodes)
		assert.Equal(t, 0, paths[0].Length)
	})
}

func TestFindPathsErrors(t *testing.T) {
	g := diamondGraph(t)

	t.Run("maxLength below one", func(t *testing.T) {
		_, err := search.FindPaths(g, "a", "d", 0, false)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	})

	t.Run("absent source", func(t *testing.T) {
		_, err := search.FindPaths(g, "ghost", "d", 3, false)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("absent target", func(t *testing.T) {
		_, err := search.FindPaths(g, "a", "ghost", 3, false)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}
