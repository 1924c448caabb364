package types

import (
	"encoding/json"
	"strings"
)

// Entity is a uniquely named node with a type tag and an ordered list of
// free-text observations. Duplicate observations are suppressed on insert.
type Entity struct {
	Name         string   `json:"name"`
	EntityType   string   `json:"entityType"`
	Observations []string `json:"observations"`
}

// Validate checks that the entity's identifying fields are non-blank.
func (e *Entity) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return NewInvalidArgumentError("entity name cannot be empty")
	}
	if strings.TrimSpace(e.EntityType) == "" {
		return NewInvalidArgumentError("entity type cannot be empty")
	}
	return nil
}

// HasObservation reports whether the entity already carries the observation,
// compared by exact string equality (or case-folded when caseFold is true).
func (e *Entity) HasObservation(obs string, caseFold bool) bool {
	for _, existing := range e.Observations {
		if existing == obs {
			return true
		}
		if caseFold && strings.EqualFold(existing, obs) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	obs := make([]string, len(e.Observations))
	copy(obs, e.Observations)
	return &Entity{
		Name:         e.Name,
		EntityType:   e.EntityType,
		Observations: obs,
	}
}

// Relation is a directed, typed edge between two entities. Multiple relation
// types may coexist between the same ordered pair, but the full
// (from, to, relationType) triple is unique.
type Relation struct {
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relationType"`
}

// Validate checks that all three relation fields are non-blank.
func (r *Relation) Validate() error {
	if strings.TrimSpace(r.From) == "" {
		return NewInvalidArgumentError("relation 'from' cannot be empty")
	}
	if strings.TrimSpace(r.To) == "" {
		return NewInvalidArgumentError("relation 'to' cannot be empty")
	}
	if strings.TrimSpace(r.RelationType) == "" {
		return NewInvalidArgumentError("relation type cannot be empty")
	}
	return nil
}

// Key returns the canonical triple key used for uniqueness checks.
func (r *Relation) Key() string {
	return r.From + "\x00" + r.To + "\x00" + r.RelationType
}

// Clone returns a copy of the relation.
func (r *Relation) Clone() *Relation {
	c := *r
	return &c
}

// Graph is the full multigraph state: all entities keyed by name plus all
// relations. The zero value is not usable; construct with NewGraph or
// unmarshal through LoadGraph.
type Graph struct {
	Entities  []*Entity   `json:"entities"`
	Relations []*Relation `json:"relations"`

	index map[string]int // entity name -> position in Entities
}

// NewGraph returns an empty graph with an initialized name index.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// LoadGraph parses a persisted graph document and rebuilds the name index.
// A structurally invalid document (wrong shape, blank names, dangling
// relation endpoints, duplicate names or triples) fails with CorruptData.
func LoadGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, NewCorruptDataError("graph document is not valid JSON", err)
	}
	if g.Entities == nil {
		g.Entities = []*Entity{}
	}
	if g.Relations == nil {
		g.Relations = []*Relation{}
	}
	g.index = make(map[string]int, len(g.Entities))
	for i, e := range g.Entities {
		if e == nil || strings.TrimSpace(e.Name) == "" {
			return nil, NewCorruptDataError("graph document contains an entity with a blank name", nil)
		}
		if _, dup := g.index[e.Name]; dup {
			return nil, NewCorruptDataError("graph document contains duplicate entity "+e.Name, nil)
		}
		if e.Observations == nil {
			e.Observations = []string{}
		}
		g.index[e.Name] = i
	}
	seen := make(map[string]struct{}, len(g.Relations))
	for _, r := range g.Relations {
		if r == nil {
			return nil, NewCorruptDataError("graph document contains a null relation", nil)
		}
		if err := r.Validate(); err != nil {
			return nil, NewCorruptDataError("graph document contains a malformed relation", err)
		}
		if !g.HasEntity(r.From) || !g.HasEntity(r.To) {
			return nil, NewCorruptDataError("relation references nonexistent entity: "+r.From+" -> "+r.To, nil)
		}
		if _, dup := seen[r.Key()]; dup {
			return nil, NewCorruptDataError("graph document contains duplicate relation triple", nil)
		}
		seen[r.Key()] = struct{}{}
	}
	return &g, nil
}

// Marshal serializes the graph into the persisted document format.
func (g *Graph) Marshal() ([]byte, error) {
	doc := struct {
		Entities  []*Entity   `json:"entities"`
		Relations []*Relation `json:"relations"`
	}{Entities: g.Entities, Relations: g.Relations}
	if doc.Entities == nil {
		doc.Entities = []*Entity{}
	}
	if doc.Relations == nil {
		doc.Relations = []*Relation{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Entity returns the entity with the given name, or nil.
func (g *Graph) Entity(name string) *Entity {
	if i, ok := g.index[name]; ok {
		return g.Entities[i]
	}
	return nil
}

// HasEntity reports whether an entity with the given name exists.
func (g *Graph) HasEntity(name string) bool {
	_, ok := g.index[name]
	return ok
}

// AddEntity appends the entity and indexes it. The caller must have checked
// for duplicates first.
func (g *Graph) AddEntity(e *Entity) {
	g.index[e.Name] = len(g.Entities)
	g.Entities = append(g.Entities, e)
}

// RemoveEntities removes all named entities and rebuilds the index.
// Relations are not touched; callers cascade separately.
func (g *Graph) RemoveEntities(names map[string]struct{}) {
	kept := g.Entities[:0]
	for _, e := range g.Entities {
		if _, drop := names[e.Name]; !drop {
			kept = append(kept, e)
		}
	}
	g.Entities = kept
	g.reindex()
}

// HasRelation reports whether the exact (from, to, relationType) triple exists.
func (g *Graph) HasRelation(r *Relation) bool {
	for _, existing := range g.Relations {
		if existing.From == r.From && existing.To == r.To && existing.RelationType == r.RelationType {
			return true
		}
	}
	return false
}

// AddRelation appends the relation. The caller must have checked endpoint
// existence and triple uniqueness first.
func (g *Graph) AddRelation(r *Relation) {
	g.Relations = append(g.Relations, r)
}

// Degree returns the combined in+out relation endpoint count for an entity.
func (g *Graph) Degree(name string) int {
	n := 0
	for _, r := range g.Relations {
		if r.From == name {
			n++
		}
		if r.To == name {
			n++
		}
	}
	return n
}

// Neighbors returns the distinct set of entities connected to name by any
// relation, in either direction.
func (g *Graph) Neighbors(name string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range g.Relations {
		if r.From == name {
			out[r.To] = struct{}{}
		}
		if r.To == name {
			out[r.From] = struct{}{}
		}
	}
	return out
}

// Clone returns a deep copy of the graph, index included. Used for snapshot
// reads and merge dry-runs.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	c.Entities = make([]*Entity, 0, len(g.Entities))
	for _, e := range g.Entities {
		c.AddEntity(e.Clone())
	}
	c.Relations = make([]*Relation, 0, len(g.Relations))
	for _, r := range g.Relations {
		c.Relations = append(c.Relations, r.Clone())
	}
	return c
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Entities))
	for i, e := range g.Entities {
		g.index[e.Name] = i
	}
}
