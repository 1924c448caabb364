package graphmem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/types"
)

func TestCreateRelations(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store,
		graphmem.EntityInput{Name: "a", EntityType: "t"},
		graphmem.EntityInput{Name: "b", EntityType: "t"},
	)

	t.Run("creates valid relation", func(t *testing.T) {
		result, err := store.CreateRelations([]graphmem.RelationInput{
			{From: "a", To: "b", RelationType: "depends_on"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})

	t.Run("exact duplicate is skipped not failed", func(t *testing.T) {
		result, err := store.CreateRelations([]graphmem.RelationInput{
			{From: "a", To: "b", RelationType: "depends_on"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, types.StatusSkipped, result.Items[0].Status)
		assert.Len(t, store.ReadGraph().Relations, 1)
	})

	t.Run("same pair different type is a new relation", func(t *testing.T) {
		result, err := store.CreateRelations([]graphmem.RelationInput{
			{From: "a", To: "b", RelationType: "monitors"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Len(t, store.ReadGraph().Relations, 2)
	})

	t.Run("missing endpoint fails that item only", func(t *testing.T) {
		result, err := store.CreateRelations([]graphmem.RelationInput{
			{From: "a", To: "ghost", RelationType: "r"},
			{From: "b", To: "a", RelationType: "r"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, types.StatusFailed, result.Items[0].Status)
		assert.Contains(t, result.Items[0].Error, "ghost")
		assert.Equal(t, types.StatusCreated, result.Items[1].Status)
	})

	t.Run("blank fields fail validation", func(t *testing.T) {
		result, err := store.CreateRelations([]graphmem.RelationInput{
			{From: "a", To: "b", RelationType: "  "},
		})
		require.NoError(t, err)
		assert.Equal(t, types.StatusFailed, result.Items[0].Status)
	})

	t.Run("self loop is allowed", func(t *testing.T) {
		result, err := store.CreateRelations([]graphmem.RelationInput{
			{From: "a", To: "a", RelationType: "references"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
	})
}

func TestDeleteRelations(t *testing.T) {
	store := newTestStore(t)
	seedEntities(t, store,
		graphmem.EntityInput{Name: "a", EntityType: "t"},
		graphmem.EntityInput{Name: "b", EntityType: "t"},
	)
	_, err := store.CreateRelations([]graphmem.RelationInput{
		{From: "a", To: "b", RelationType: "reads"},
		{From: "a", To: "b", RelationType: "writes"},
	})
	require.NoError(t, err)

	result, err := store.DeleteRelations([]graphmem.RelationInput{
		{From: "a", To: "b", RelationType: "reads"},
		{From: "b", To: "a", RelationType: "reads"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, types.StatusDeleted, result.Items[0].Status)
	assert.Equal(t, types.StatusMissing, result.Items[1].Status)

	g := store.ReadGraph()
	require.Len(t, g.Relations, 1)
	assert.Equal(t, "writes", g.Relations[0].RelationType)
}
