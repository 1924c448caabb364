package community

import (
	"sort"

	"github.com/soundprediction/graphmem/pkg/types"
)

// pairKey identifies an unordered entity pair, smaller name first.
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	if x < y {
		return pairKey{a: x, b: y}
	}
	return pairKey{a: y, b: x}
}

// projection is the undirected weighted collapse of the relation
// multigraph. Self-loop relations carry no clustering signal and are
// excluded.
type projection struct {
	nodes   []string
	weights map[pairKey]float64
	degree  map[string]float64 // weighted degree per node
	total   float64            // total edge weight (m)
}

func buildProjection(g *types.Graph) *projection {
	p := &projection{
		weights: make(map[pairKey]float64),
		degree:  make(map[string]float64),
	}
	for _, e := range g.Entities {
		p.nodes = append(p.nodes, e.Name)
		p.degree[e.Name] = 0
	}
	sort.Strings(p.nodes)

	for _, r := range g.Relations {
		if r.From == r.To {
			continue
		}
		key := newPairKey(r.From, r.To)
		p.weights[key]++
		p.degree[r.From]++
		p.degree[r.To]++
		p.total++
	}
	return p
}

// partition is the evolving community state during greedy merging. Each
// community is keyed by its smallest member name.
type partition struct {
	members    map[string][]string
	intra      map[string]float64            // internal edge weight per community
	degree     map[string]float64            // summed weighted degree per community
	links      map[string]map[string]float64 // inter-community edge weight
	total      float64
	iterations int
}

// greedyMerge agglomerates communities while some merge improves
// modularity. Each iteration scans candidate merges in ascending key order
// and applies the single best one, so results are deterministic and the
// loop terminates after at most len(nodes)-1 merges.
func (p *projection) greedyMerge() *partition {
	part := &partition{
		members: make(map[string][]string, len(p.nodes)),
		intra:   make(map[string]float64, len(p.nodes)),
		degree:  make(map[string]float64, len(p.nodes)),
		links:   make(map[string]map[string]float64, len(p.nodes)),
		total:   p.total,
	}
	for _, n := range p.nodes {
		part.members[n] = []string{n}
		part.degree[n] = p.degree[n]
		part.links[n] = make(map[string]float64)
	}
	for key, w := range p.weights {
		part.links[key.a][key.b] = w
		part.links[key.b][key.a] = w
	}
	if p.total == 0 {
		return part
	}

	for {
		bestGain := 0.0
		var bestA, bestB string
		found := false

		keys := part.sortedKeys()
		for _, a := range keys {
			neighborKeys := make([]string, 0, len(part.links[a]))
			for b := range part.links[a] {
				if a < b {
					neighborKeys = append(neighborKeys, b)
				}
			}
			sort.Strings(neighborKeys)
			for _, b := range neighborKeys {
				gain := part.mergeGain(a, b)
				if gain > bestGain {
					bestGain, bestA, bestB, found = gain, a, b, true
				}
			}
		}

		if !found {
			return part
		}
		part.merge(bestA, bestB)
		part.iterations++
	}
}

func (part *partition) sortedKeys() []string {
	keys := make([]string, 0, len(part.members))
	for k := range part.members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mergeGain is the modularity delta of merging communities a and b:
// w_ab/m - d_a*d_b/(2m^2).
func (part *partition) mergeGain(a, b string) float64 {
	w := part.links[a][b]
	m := part.total
	return w/m - part.degree[a]*part.degree[b]/(2*m*m)
}

// merge folds community b into community a (a < b by construction).
func (part *partition) merge(a, b string) {
	part.intra[a] += part.intra[b] + part.links[a][b]
	part.degree[a] += part.degree[b]
	part.members[a] = append(part.members[a], part.members[b]...)

	for other, w := range part.links[b] {
		if other == a {
			continue
		}
		part.links[a][other] += w
		part.links[other][a] += w
		delete(part.links[other], b)
	}
	delete(part.links[a], b)

	delete(part.members, b)
	delete(part.intra, b)
	delete(part.degree, b)
	delete(part.links, b)
}

// contribution is a community's term in the modularity sum:
// intra/m - (degree/2m)^2.
func (part *partition) contribution(key string) float64 {
	if part.total == 0 {
		return 0
	}
	d := part.degree[key] / (2 * part.total)
	return part.intra[key]/part.total - d*d
}
