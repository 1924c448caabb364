package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Report heuristics. An entity is orphaned when its degree is at the
// threshold; a relation type is underused when it occurs exactly the
// underused count.
const (
	orphanedDegreeThreshold    = 0
	underusedRelationTypeCount = 1
	reportTopK                 = 10

	// sparseDensityThreshold and sparseMinEntities gate the low-density
	// recommendation.
	sparseDensityThreshold = 0.1
	sparseMinEntities      = 5
)

// DegreeEntry pairs an entity name with its combined in+out degree.
type DegreeEntry struct {
	Name   string `json:"name"`
	Degree int    `json:"degree"`
}

// Stats are aggregate figures over the whole graph.
type Stats struct {
	EntityCount           int            `json:"entityCount"`
	RelationCount         int            `json:"relationCount"`
	EntityTypes           map[string]int `json:"entityTypes"`
	RelationTypes         map[string]int `json:"relationTypes"`
	MeanObservations      float64        `json:"meanObservations"`
	TopConnectedEntities  []DegreeEntry  `json:"topConnectedEntities"`
	IsolatedEntityCount   int            `json:"isolatedEntityCount"`
	Density               float64        `json:"density"`
}

// Report is Stats plus heuristic health flags and recommendations.
type Report struct {
	Stats *Stats `json:"stats"`

	// OrphanedEntities have no relations at all.
	OrphanedEntities []string `json:"orphanedEntities"`

	// UnderusedRelationTypes occur exactly once in the graph.
	UnderusedRelationTypes []string `json:"underusedRelationTypes"`

	// EntitiesWithoutObservations carry no free-text facts.
	EntitiesWithoutObservations []string `json:"entitiesWithoutObservations"`

	Recommendations []string `json:"recommendations"`
}

// Statistics computes aggregate counts and histograms over the graph.
func Statistics(g *types.Graph) *Stats {
	stats := &Stats{
		EntityCount:   len(g.Entities),
		RelationCount: len(g.Relations),
		EntityTypes:   make(map[string]int),
		RelationTypes: make(map[string]int),
	}

	totalObservations := 0
	for _, e := range g.Entities {
		stats.EntityTypes[e.EntityType]++
		totalObservations += len(e.Observations)
	}
	if stats.EntityCount > 0 {
		stats.MeanObservations = float64(totalObservations) / float64(stats.EntityCount)
	}

	degrees := make(map[string]int, len(g.Entities))
	for _, r := range g.Relations {
		stats.RelationTypes[r.RelationType]++
		degrees[r.From]++
		degrees[r.To]++
	}

	entries := make([]DegreeEntry, 0, len(g.Entities))
	for _, e := range g.Entities {
		d := degrees[e.Name]
		if d == orphanedDegreeThreshold {
			stats.IsolatedEntityCount++
			continue
		}
		entries = append(entries, DegreeEntry{Name: e.Name, Degree: d})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Degree != entries[j].Degree {
			return entries[i].Degree > entries[j].Degree
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > reportTopK {
		entries = entries[:reportTopK]
	}
	stats.TopConnectedEntities = entries

	maxRelations := stats.EntityCount * (stats.EntityCount - 1)
	if maxRelations > 0 {
		stats.Density = float64(stats.RelationCount) / float64(maxRelations)
	}
	return stats
}

// GenerateReport builds the statistics plus the heuristic flags and a set
// of actionable recommendations.
func GenerateReport(g *types.Graph) *Report {
	report := &Report{Stats: Statistics(g)}

	for _, e := range g.Entities {
		if g.Degree(e.Name) == orphanedDegreeThreshold {
			report.OrphanedEntities = append(report.OrphanedEntities, e.Name)
		}
		if len(e.Observations) == 0 {
			report.EntitiesWithoutObservations = append(report.EntitiesWithoutObservations, e.Name)
		}
	}
	for relType, count := range report.Stats.RelationTypes {
		if count == underusedRelationTypeCount {
			report.UnderusedRelationTypes = append(report.UnderusedRelationTypes, relType)
		}
	}
	sort.Strings(report.UnderusedRelationTypes)

	if len(report.OrphanedEntities) > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Connect orphaned entities: %s", truncateList(report.OrphanedEntities, 5)))
	}
	if len(report.EntitiesWithoutObservations) > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Add observations to entities: %s", truncateList(report.EntitiesWithoutObservations, 5)))
	}
	if report.Stats.Density < sparseDensityThreshold && report.Stats.EntityCount > sparseMinEntities {
		report.Recommendations = append(report.Recommendations,
			"The graph is sparse. Consider adding more relations between entities.")
	}
	if len(report.Stats.RelationTypes) < 3 && report.Stats.RelationCount > 10 {
		report.Recommendations = append(report.Recommendations,
			"Consider using more diverse relation types to better describe connections.")
	}
	return report
}

func truncateList(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:limit], ", "), len(names)-limit)
}
