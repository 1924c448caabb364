package graphmem_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/types"
)

func TestCreateEntities(t *testing.T) {
	store := newTestStore(t)

	t.Run("deduplicates observations on insert", func(t *testing.T) {
		result, err := store.CreateEntities([]graphmem.EntityInput{
			{Name: "a", EntityType: "t", Observations: []string{"x", "y", "x", "", "y"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, []string{"x", "y"}, store.ReadGraph().Entity("a").Observations)
	})

	t.Run("duplicate name fails that item only", func(t *testing.T) {
		result, err := store.CreateEntities([]graphmem.EntityInput{
			{Name: "a", EntityType: "t"},
			{Name: "b", EntityType: "t"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		require.Len(t, result.Items, 2)
		assert.Equal(t, types.StatusFailed, result.Items[0].Status)
		assert.Equal(t, types.StatusCreated, result.Items[1].Status)
	})

	t.Run("blank fields fail validation", func(t *testing.T) {
		result, err := store.CreateEntities([]graphmem.EntityInput{
			{Name: "  ", EntityType: "t"},
			{Name: "c", EntityType: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		for _, item := range result.Items {
			assert.Equal(t, types.StatusFailed, item.Status)
			assert.NotEmpty(t, item.Error)
		}
	})

	t.Run("names are case-sensitive", func(t *testing.T) {
		result, err := store.CreateEntities([]graphmem.EntityInput{
			{Name: "A", EntityType: "t"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		g := store.ReadGraph()
		assert.True(t, g.HasEntity("a"))
		assert.True(t, g.HasEntity("A"))
	})
}

func TestAddObservations(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store, graphmem.EntityInput{Name: "a", EntityType: "t", Observations: []string{"x"}})

	t.Run("appends only new observations", func(t *testing.T) {
		result, err := store.AddObservations("a", []string{"x", "y", "", "y"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, []string{"y"}, result.Appended)
		assert.Equal(t, []string{"x", "y"}, store.ReadGraph().Entity("a").Observations)
	})

	t.Run("exact-string comparison by default", func(t *testing.T) {
		result, err := store.AddObservations("a", []string{"X"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
	})

	t.Run("missing entity fails", func(t *testing.T) {
		_, err := store.AddObservations("ghost", []string{"x"})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestAddObservationsCaseFolded(t *testing.T) {
	dir := t.TempDir()
	store, err := graphmem.New(graphmem.Options{
		Path:                 filepath.Join(dir, "graph.json"),
		CaseFoldObservations: true,
	})
	require.NoError(t, err)
	seedEntities(t, store, graphmem.EntityInput{Name: "a", EntityType: "t", Observations: []string{"Speaks French"}})

	result, err := store.AddObservations("a", []string{"speaks french"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
}

func TestDeleteEntitiesCascadesRelations(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store,
		graphmem.EntityInput{Name: "a", EntityType: "t"},
		graphmem.EntityInput{Name: "b", EntityType: "t"},
		graphmem.EntityInput{Name: "c", EntityType: "t"},
	)
	_, err := store.CreateRelations([]graphmem.RelationInput{
		{From: "a", To: "b", RelationType: "r"},
		{From: "c", To: "a", RelationType: "r"},
		{From: "b", To: "c", RelationType: "r"},
	})
	require.NoError(t, err)

	result, err := store.DeleteEntities([]string{"a", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 2, result.RelationsDeleted)
	require.Len(t, result.Items, 2)
	assert.Equal(t, types.StatusDeleted, result.Items[0].Status)
	assert.Equal(t, types.StatusMissing, result.Items[1].Status)

	g := store.ReadGraph()
	assert.False(t, g.HasEntity("a"))
	for _, r := range g.Relations {
		assert.NotEqual(t, "a", r.From)
		assert.NotEqual(t, "a", r.To)
	}
}

func TestDeleteObservations(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store, graphmem.EntityInput{Name: "a", EntityType: "t", Observations: []string{"x", "y", "z"}})

	result, err := store.DeleteObservations("a", []string{"y", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, []string{"missing"}, result.NotPresent)
	assert.Equal(t, []string{"x", "z"}, store.ReadGraph().Entity("a").Observations)

	_, err = store.DeleteObservations("ghost", []string{"x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestOpenNodes(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store,
		graphmem.EntityInput{Name: "a", EntityType: "t"},
		graphmem.EntityInput{Name: "b", EntityType: "t"},
		graphmem.EntityInput{Name: "c", EntityType: "t"},
	)
	_, err := store.CreateRelations([]graphmem.RelationInput{
		{From: "a", To: "b", RelationType: "r"},
		{From: "b", To: "c", RelationType: "r"},
	})
	require.NoError(t, err)

	sub, err := store.OpenNodes([]string{"a", "b", "ghost", "a"})
	require.NoError(t, err)
	assert.Len(t, sub.Entities, 2)
	require.Len(t, sub.Relations, 1)
	assert.Equal(t, "a", sub.Relations[0].From)
	assert.Equal(t, "b", sub.Relations[0].To)
}
