package graphmem

import (
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

// EntityInput is one item of a create_entities batch.
type EntityInput struct {
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
}

// CreateEntities inserts each valid entity, deduplicating its observation
// list on the way in. A name that already exists fails that item with
// DuplicateEntity and leaves it untouched; the rest of the batch proceeds.
func (s *Store) CreateEntities(inputs []EntityInput) (*types.CreateEntitiesResult, error) {
	result := &types.CreateEntitiesResult{}
	err := s.mutate("create_entities", func(g *types.Graph) error {
		for _, in := range inputs {
			e := &types.Entity{
				Name:       strings.TrimSpace(in.Name),
				EntityType: strings.TrimSpace(in.EntityType),
			}
			if err := e.Validate(); err != nil {
				result.Items = append(result.Items, types.EntityOutcome{
					Name:   in.Name,
					Status: types.StatusFailed,
					Error:  err.Error(),
				})
				continue
			}
			if g.HasEntity(e.Name) {
				result.Items = append(result.Items, types.EntityOutcome{
					Name:   e.Name,
					Status: types.StatusFailed,
					Error:  types.NewDuplicateEntityError(e.Name).Error(),
				})
				continue
			}
			e.Observations = dedupObservations(in.Observations, s.caseFoldObservations)
			g.AddEntity(e)
			result.Items = append(result.Items, types.EntityOutcome{Name: e.Name, Status: types.StatusCreated})
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddObservations appends observations not already present on the entity.
// Presence is exact string match unless the store was configured to fold case.
func (s *Store) AddObservations(name string, observations []string) (*types.AddObservationsResult, error) {
	result := &types.AddObservationsResult{EntityName: name}
	err := s.mutate("add_observations", func(g *types.Graph) error {
		e := g.Entity(name)
		if e == nil {
			return types.NewEntityNotFoundError(name)
		}
		for _, obs := range observations {
			if strings.TrimSpace(obs) == "" {
				continue
			}
			if e.HasObservation(obs, s.caseFoldObservations) {
				continue
			}
			e.Observations = append(e.Observations, obs)
			result.Appended = append(result.Appended, obs)
			result.Added++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteEntities removes each named entity and cascades deletion of every
// relation touching it. Unknown names are reported as missing, not fatal.
func (s *Store) DeleteEntities(names []string) (*types.DeleteEntitiesResult, error) {
	result := &types.DeleteEntitiesResult{}
	err := s.mutate("delete_entities", func(g *types.Graph) error {
		doomed := make(map[string]struct{})
		for _, name := range names {
			if !g.HasEntity(name) {
				result.Items = append(result.Items, types.EntityOutcome{Name: name, Status: types.StatusMissing})
				continue
			}
			doomed[name] = struct{}{}
			result.Items = append(result.Items, types.EntityOutcome{Name: name, Status: types.StatusDeleted})
			result.Deleted++
		}
		if len(doomed) == 0 {
			return nil
		}
		g.RemoveEntities(doomed)

		kept := g.Relations[:0]
		for _, r := range g.Relations {
			_, fromDoomed := doomed[r.From]
			_, toDoomed := doomed[r.To]
			if fromDoomed || toDoomed {
				result.RelationsDeleted++
				continue
			}
			kept = append(kept, r)
		}
		g.Relations = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteObservations removes the listed observations from an entity.
// Observations not present are reported, not fatal.
func (s *Store) DeleteObservations(name string, observations []string) (*types.DeleteObservationsResult, error) {
	result := &types.DeleteObservationsResult{EntityName: name}
	err := s.mutate("delete_observations", func(g *types.Graph) error {
		e := g.Entity(name)
		if e == nil {
			return types.NewEntityNotFoundError(name)
		}
		remove := make(map[string]struct{}, len(observations))
		for _, obs := range observations {
			remove[obs] = struct{}{}
		}
		kept := e.Observations[:0]
		removed := make(map[string]struct{})
		for _, obs := range e.Observations {
			if _, drop := remove[obs]; drop {
				removed[obs] = struct{}{}
				result.Removed++
				continue
			}
			kept = append(kept, obs)
		}
		e.Observations = kept
		for _, obs := range observations {
			if _, ok := removed[obs]; !ok {
				result.NotPresent = append(result.NotPresent, obs)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OpenNodes fetches the named entities plus every relation whose endpoints
// are both in the requested set. Unknown names are skipped.
func (s *Store) OpenNodes(names []string) (*types.Graph, error) {
	out := types.NewGraph()
	err := s.view(func(g *types.Graph) error {
		for _, name := range names {
			if e := g.Entity(name); e != nil && !out.HasEntity(e.Name) {
				out.AddEntity(e.Clone())
			}
		}
		for _, r := range g.Relations {
			if out.HasEntity(r.From) && out.HasEntity(r.To) {
				out.AddRelation(r.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// dedupObservations keeps the first occurrence of each observation,
// preserving order and dropping blanks.
func dedupObservations(observations []string, caseFold bool) []string {
	out := make([]string, 0, len(observations))
	seen := make(map[string]struct{}, len(observations))
	for _, obs := range observations {
		if strings.TrimSpace(obs) == "" {
			continue
		}
		key := obs
		if caseFold {
			key = strings.ToLower(obs)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, obs)
	}
	return out
}
