package search

import (
	"sort"
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Result holds matched entities, ordered by relevance, plus every relation
// whose endpoints are both in the matched set.
type Result struct {
	Entities  []*types.Entity   `json:"entities"`
	Relations []*types.Relation `json:"relations"`

	// MatchCounts maps entity name to how many of its fields matched.
	// Only populated by keyword search.
	MatchCounts map[string]int `json:"matchCounts,omitempty"`
}

// Search matches query case-insensitively as a substring of entity name,
// entity type, and each observation. An entity's match count is the number
// of fields that matched; results are ordered by descending match count,
// ties broken by ascending name.
func Search(g *types.Graph, query string) (*Result, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, types.NewInvalidArgumentError("search query cannot be empty")
	}

	result := &Result{MatchCounts: make(map[string]int)}
	for _, e := range g.Entities {
		matches := 0
		if strings.Contains(strings.ToLower(e.Name), q) {
			matches++
		}
		if strings.Contains(strings.ToLower(e.EntityType), q) {
			matches++
		}
		for _, obs := range e.Observations {
			if strings.Contains(strings.ToLower(obs), q) {
				matches++
			}
		}
		if matches > 0 {
			result.Entities = append(result.Entities, e.Clone())
			result.MatchCounts[e.Name] = matches
		}
	}

	sort.Slice(result.Entities, func(i, j int) bool {
		ci := result.MatchCounts[result.Entities[i].Name]
		cj := result.MatchCounts[result.Entities[j].Name]
		if ci != cj {
			return ci > cj
		}
		return result.Entities[i].Name < result.Entities[j].Name
	})

	result.Relations = relationsAmong(g, result.Entities)
	return result, nil
}

// relationsAmong returns copies of the relations with both endpoints inside
// the given entity set, preserving stored order.
func relationsAmong(g *types.Graph, entities []*types.Entity) []*types.Relation {
	names := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		names[e.Name] = struct{}{}
	}
	var out []*types.Relation
	for _, r := range g.Relations {
		if _, okFrom := names[r.From]; !okFrom {
			continue
		}
		if _, okTo := names[r.To]; !okTo {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}
