package search

import (
	"sort"
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

// DefaultSuggestionLimit caps how many relation candidates are returned.
const DefaultSuggestionLimit = 10

// minSuggestionEntities is the smallest graph worth scoring.
const minSuggestionEntities = 3

// Suggestion is a candidate relation between two entities that are not yet
// directly connected. Score = shared-neighbor count + shared
// observation-token overlap.
type Suggestion struct {
	Source          string   `json:"source"`
	SourceType      string   `json:"sourceType"`
	Target          string   `json:"target"`
	TargetType      string   `json:"targetType"`
	SharedNeighbors []string `json:"sharedNeighbors,omitempty"`
	SharedTokens    []string `json:"sharedTokens,omitempty"`
	Score           int      `json:"score"`
}

// SuggestRelations ranks ordered entity pairs with no existing direct
// relation by their score, descending, and returns the top limit
// candidates. Ties break by ascending source then target name, so the
// ranking is fully deterministic.
func SuggestRelations(g *types.Graph, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if len(g.Entities) < minSuggestionEntities {
		return nil
	}

	connected := make(map[string]struct{}, len(g.Relations))
	for _, r := range g.Relations {
		connected[r.From+"\x00"+r.To] = struct{}{}
	}

	neighbors := make(map[string]map[string]struct{}, len(g.Entities))
	tokens := make(map[string]map[string]struct{}, len(g.Entities))
	for _, e := range g.Entities {
		neighbors[e.Name] = g.Neighbors(e.Name)
		tokens[e.Name] = observationTokens(e)
	}

	var suggestions []Suggestion
	for _, src := range g.Entities {
		for _, tgt := range g.Entities {
			if src.Name == tgt.Name {
				continue
			}
			if _, exists := connected[src.Name+"\x00"+tgt.Name]; exists {
				continue
			}
			shared := intersect(neighbors[src.Name], neighbors[tgt.Name])
			overlap := intersect(tokens[src.Name], tokens[tgt.Name])
			score := len(shared) + len(overlap)
			if score == 0 {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Source:          src.Name,
				SourceType:      src.EntityType,
				Target:          tgt.Name,
				TargetType:      tgt.EntityType,
				SharedNeighbors: shared,
				SharedTokens:    overlap,
				Score:           score,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		if suggestions[i].Source != suggestions[j].Source {
			return suggestions[i].Source < suggestions[j].Source
		}
		return suggestions[i].Target < suggestions[j].Target
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// observationTokens lowercases and splits an entity's observations into a
// token set on non-alphanumeric boundaries.
func observationTokens(e *types.Entity) map[string]struct{} {
	out := make(map[string]struct{})
	for _, obs := range e.Observations {
		fields := strings.FieldsFunc(strings.ToLower(obs), func(r rune) bool {
			return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
		})
		for _, f := range fields {
			out[f] = struct{}{}
		}
	}
	return out
}

// intersect returns the sorted intersection of two string sets.
func intersect(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
