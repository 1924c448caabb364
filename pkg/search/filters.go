package search

import (
	"regexp"
	"sort"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Filters are the criteria of an advanced search. Zero-valued fields are
// ignored; supplied fields are combined as a conjunction.
type Filters struct {
	// EntityType keeps only entities with this exact type tag.
	EntityType string `json:"entityType,omitempty"`

	// RelationType keeps only relations of this type when building the
	// result's relation set.
	RelationType string `json:"relationType,omitempty"`

	// MinObservations keeps entities with at least this many observations.
	MinObservations *int `json:"minObservations,omitempty"`

	// MaxRelations keeps entities whose combined in+out relation endpoint
	// count does not exceed this bound.
	MaxRelations *int `json:"maxRelations,omitempty"`

	// NamePattern keeps entities whose name matches this case-insensitive
	// regular expression.
	NamePattern string `json:"namePattern,omitempty"`
}

// AdvancedSearch applies the conjunction of all supplied filters and
// returns the surviving entities (ascending name order) plus the relations
// among them, optionally narrowed by relation type.
func AdvancedSearch(g *types.Graph, f Filters) (*Result, error) {
	var namePattern *regexp.Regexp
	if f.NamePattern != "" {
		compiled, err := regexp.Compile("(?i)" + f.NamePattern)
		if err != nil {
			return nil, types.NewInvalidArgumentError("invalid name pattern: " + err.Error())
		}
		namePattern = compiled
	}
	if f.MinObservations != nil && *f.MinObservations < 0 {
		return nil, types.NewInvalidArgumentError("minObservations cannot be negative")
	}
	if f.MaxRelations != nil && *f.MaxRelations < 0 {
		return nil, types.NewInvalidArgumentError("maxRelations cannot be negative")
	}

	result := &Result{}
	for _, e := range g.Entities {
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.MinObservations != nil && len(e.Observations) < *f.MinObservations {
			continue
		}
		if f.MaxRelations != nil && g.Degree(e.Name) > *f.MaxRelations {
			continue
		}
		if namePattern != nil && !namePattern.MatchString(e.Name) {
			continue
		}
		result.Entities = append(result.Entities, e.Clone())
	}

	sort.Slice(result.Entities, func(i, j int) bool {
		return result.Entities[i].Name < result.Entities[j].Name
	})

	relations := relationsAmong(g, result.Entities)
	if f.RelationType != "" {
		narrowed := relations[:0]
		for _, r := range relations {
			if r.RelationType == f.RelationType {
				narrowed = append(narrowed, r)
			}
		}
		relations = narrowed
	}
	result.Relations = relations
	return result, nil
}
