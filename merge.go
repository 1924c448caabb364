package graphmem

import (
	"fmt"

	"github.com/soundprediction/graphmem/pkg/types"
)

// MergeEntities consolidates source into target: every relation endpoint
// equal to source is reassigned to target, any remapped triple that would
// duplicate an existing one is dropped, the two observation lists are
// unioned (first occurrence wins), and source is deleted.
//
// With dryRun set the same outcome is computed against a copy and the live
// graph is left untouched, so automated callers can validate before
// committing.
func (s *Store) MergeEntities(source, target string, dryRun bool) (*types.MergeResult, error) {
	if dryRun {
		var result *types.MergeResult
		err := s.view(func(g *types.Graph) error {
			preview := g.Clone()
			r, mergeErr := s.applyMerge(preview, source, target)
			if mergeErr != nil {
				return mergeErr
			}
			result = r
			return nil
		})
		if err != nil {
			return nil, err
		}
		result.DryRun = true
		return result, nil
	}

	var result *types.MergeResult
	err := s.mutate("merge_entities", func(g *types.Graph) error {
		r, mergeErr := s.applyMerge(g, source, target)
		if mergeErr != nil {
			return mergeErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Entities merged", "source", source, "target", target,
		"observations_merged", result.ObservationsMerged, "duplicates_dropped", result.DuplicatesDropped)
	return result, nil
}

// applyMerge mutates g in place and reports what changed.
func (s *Store) applyMerge(g *types.Graph, source, target string) (*types.MergeResult, error) {
	if source == target {
		return nil, fmt.Errorf("merge: %w: cannot merge entity %q into itself", types.ErrConflict, source)
	}
	tgt := g.Entity(target)
	if tgt == nil {
		return nil, fmt.Errorf("merge: %w: target entity %q does not exist", types.ErrConflict, target)
	}
	src := g.Entity(source)
	if src == nil {
		return nil, types.NewEntityNotFoundError(source)
	}

	result := &types.MergeResult{SourceName: source, TargetName: target}

	// Union observations, exact-string dedup unless the store folds case.
	for _, obs := range src.Observations {
		if !tgt.HasObservation(obs, s.caseFoldObservations) {
			tgt.Observations = append(tgt.Observations, obs)
			result.ObservationsMerged++
		}
	}

	// Reassign relation endpoints, dropping any remapped triple that
	// collides with a triple already kept. Earlier relations win.
	seen := make(map[string]struct{}, len(g.Relations))
	kept := g.Relations[:0]
	for _, r := range g.Relations {
		remapped := false
		if r.From == source {
			r.From = target
			remapped = true
		}
		if r.To == source {
			r.To = target
			remapped = true
		}
		if _, dup := seen[r.Key()]; dup {
			result.DuplicatesDropped++
			continue
		}
		seen[r.Key()] = struct{}{}
		if remapped {
			result.RelationsRemapped++
		}
		kept = append(kept, r)
	}
	g.Relations = kept

	g.RemoveEntities(map[string]struct{}{source: {}})

	result.ResultingEntity = *tgt.Clone()
	result.ResultingRelations = len(g.Relations)
	return result, nil
}
