package search

import (
	"sort"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Path is one simple directed path between two entities. Relations holds
// the relation type taken at each hop, so len(Relations) == Length.
type Path struct {
	Nodes     []string `json:"nodes"`
	Relations []string `json:"relations"`
	Length    int      `json:"length"`
}

// FindPaths enumerates all simple paths (no repeated entity) from source to
// target following relation direction, bounded by maxLength hops. Paths are
// ordered shortest first, ties broken by lexicographic order of the
// entity-name sequence. No path within the bound is a normal empty result.
//
// With allowSelfPath set, source == target yields the zero-length self
// path; otherwise it yields nothing.
func FindPaths(g *types.Graph, source, target string, maxLength int, allowSelfPath bool) ([]Path, error) {
	if maxLength < 1 {
		return nil, types.NewInvalidArgumentError("maxLength must be at least 1")
	}
	if !g.HasEntity(source) {
		return nil, types.NewEntityNotFoundError(source)
	}
	if !g.HasEntity(target) {
		return nil, types.NewEntityNotFoundError(target)
	}

	if source == target {
		if allowSelfPath {
			return []Path{{Nodes: []string{source}, Relations: []string{}, Length: 0}}, nil
		}
		return nil, nil
	}

	// Adjacency keyed by source entity; successors kept in deterministic
	// order so the DFS emits paths reproducibly.
	type hop struct {
		to           string
		relationType string
	}
	adjacency := make(map[string][]hop)
	for _, r := range g.Relations {
		adjacency[r.From] = append(adjacency[r.From], hop{to: r.To, relationType: r.RelationType})
	}
	for from := range adjacency {
		hops := adjacency[from]
		sort.Slice(hops, func(i, j int) bool {
			if hops[i].to != hops[j].to {
				return hops[i].to < hops[j].to
			}
			return hops[i].relationType < hops[j].relationType
		})
	}

	var paths []Path
	visited := map[string]bool{source: true}
	nodes := []string{source}
	relations := []string{}

	var dfs func(current string)
	dfs = func(current string) {
		if len(nodes)-1 >= maxLength {
			return
		}
		for _, h := range adjacency[current] {
			if h.to == target {
				p := Path{
					Nodes:     append(append([]string{}, nodes...), target),
					Relations: append(append([]string{}, relations...), h.relationType),
				}
				p.Length = len(p.Nodes) - 1
				paths = append(paths, p)
				continue
			}
			if visited[h.to] {
				continue
			}
			visited[h.to] = true
			nodes = append(nodes, h.to)
			relations = append(relations, h.relationType)
			dfs(h.to)
			nodes = nodes[:len(nodes)-1]
			relations = relations[:len(relations)-1]
			visited[h.to] = false
		}
	}
	dfs(source)

	// Stable so parallel relations between the same node sequence keep
	// their discovery order.
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].Length != paths[j].Length {
			return paths[i].Length < paths[j].Length
		}
		return lessNodeSequence(paths[i].Nodes, paths[j].Nodes)
	})
	return paths, nil
}

func lessNodeSequence(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
