package graphmem

import (
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

// RelationInput is one item of a relation batch.
type RelationInput struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
}

func (in RelationInput) relation() *types.Relation {
	return &types.Relation{
		From:         strings.TrimSpace(in.From),
		To:           strings.TrimSpace(in.To),
		RelationType: strings.TrimSpace(in.RelationType),
	}
}

// CreateRelations inserts each valid relation. An endpoint that does not
// exist fails that item with MissingEntity naming the absent endpoint; an
// exact duplicate triple is a no-op reported as skipped. Other items in the
// batch are unaffected either way.
func (s *Store) CreateRelations(inputs []RelationInput) (*types.CreateRelationsResult, error) {
	result := &types.CreateRelationsResult{}
	err := s.mutate("create_relations", func(g *types.Graph) error {
		for _, in := range inputs {
			r := in.relation()
			if err := r.Validate(); err != nil {
				result.Items = append(result.Items, types.RelationOutcome{
					Relation: *r,
					Status:   types.StatusFailed,
					Error:    err.Error(),
				})
				continue
			}
			if missing := firstMissingEndpoint(g, r); missing != "" {
				result.Items = append(result.Items, types.RelationOutcome{
					Relation: *r,
					Status:   types.StatusFailed,
					Error:    types.NewMissingEntityError(missing).Error(),
				})
				continue
			}
			if g.HasRelation(r) {
				result.Items = append(result.Items, types.RelationOutcome{Relation: *r, Status: types.StatusSkipped})
				result.Skipped++
				continue
			}
			g.AddRelation(r)
			result.Items = append(result.Items, types.RelationOutcome{Relation: *r, Status: types.StatusCreated})
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteRelations removes exact (from, to, relationType) matches.
// Non-matches are reported as missing, not fatal.
func (s *Store) DeleteRelations(inputs []RelationInput) (*types.DeleteRelationsResult, error) {
	result := &types.DeleteRelationsResult{}
	err := s.mutate("delete_relations", func(g *types.Graph) error {
		remove := make(map[string]struct{}, len(inputs))
		for _, in := range inputs {
			remove[in.relation().Key()] = struct{}{}
		}

		deleted := make(map[string]struct{})
		kept := g.Relations[:0]
		for _, r := range g.Relations {
			if _, drop := remove[r.Key()]; drop {
				deleted[r.Key()] = struct{}{}
				result.Deleted++
				continue
			}
			kept = append(kept, r)
		}
		g.Relations = kept

		for _, in := range inputs {
			r := in.relation()
			if _, ok := deleted[r.Key()]; ok {
				result.Items = append(result.Items, types.RelationOutcome{Relation: *r, Status: types.StatusDeleted})
			} else {
				result.Items = append(result.Items, types.RelationOutcome{Relation: *r, Status: types.StatusMissing})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// firstMissingEndpoint returns the name of the first relation endpoint that
// is not an existing entity, or "" when both exist.
func firstMissingEndpoint(g *types.Graph, r *types.Relation) string {
	if !g.HasEntity(r.From) {
		return r.From
	}
	if !g.HasEntity(r.To) {
		return r.To
	}
	return ""
}
