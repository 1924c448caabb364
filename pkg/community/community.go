// Package community detects clusters of closely related entities. The
// directed relation multigraph is collapsed into an undirected weighted
// projection (edge weight = number of distinct relation instances between
// the unordered pair) and partitioned by greedy modularity optimization.
//
// Candidate merges are processed in ascending-name order so ties resolve
// deterministically; the merge loop is bounded because each iteration
// strictly reduces the community count.
package community

import (
	"sort"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Group is one detected community with its modularity contribution.
type Group struct {
	ID           int      `json:"id"`
	Members      []string `json:"members"`
	DominantType string   `json:"dominantType"`
	Modularity   float64  `json:"modularity"`
}

// Result maps every entity to exactly one group.
type Result struct {
	Assignments map[string]int `json:"assignments"`
	Groups      []Group        `json:"groups"`
	Modularity  float64        `json:"modularity"`
	Iterations  int            `json:"iterations"`
}

// Detect partitions the graph. A relation-free graph yields one singleton
// group per entity with zero modularity.
func Detect(g *types.Graph) *Result {
	p := buildProjection(g)
	merged := p.greedyMerge()

	// Communities keyed by their smallest member name; emit groups in
	// that order so ids are stable across runs.
	keys := make([]string, 0, len(merged.members))
	for key := range merged.members {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &Result{Assignments: make(map[string]int, len(g.Entities))}
	result.Iterations = merged.iterations
	for id, key := range keys {
		members := append([]string(nil), merged.members[key]...)
		sort.Strings(members)
		group := Group{
			ID:           id,
			Members:      members,
			DominantType: dominantType(g, members),
			Modularity:   merged.contribution(key),
		}
		result.Modularity += group.Modularity
		result.Groups = append(result.Groups, group)
		for _, m := range members {
			result.Assignments[m] = id
		}
	}
	return result
}

// dominantType is the most frequent entity type among members, ties broken
// by ascending type name.
func dominantType(g *types.Graph, members []string) string {
	counts := make(map[string]int)
	for _, name := range members {
		if e := g.Entity(name); e != nil {
			counts[e.EntityType]++
		}
	}
	best, bestCount := "", -1
	typeNames := make([]string, 0, len(counts))
	for t := range counts {
		typeNames = append(typeNames, t)
	}
	sort.Strings(typeNames)
	for _, t := range typeNames {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}
