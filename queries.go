package graphmem

import (
	"github.com/soundprediction/graphmem/pkg/community"
	"github.com/soundprediction/graphmem/pkg/export"
	"github.com/soundprediction/graphmem/pkg/search"
	"github.com/soundprediction/graphmem/pkg/types"
)

// SearchNodes matches the query case-insensitively against entity names,
// types, and observations. Results are ordered by descending match count,
// ties broken by ascending name.
func (s *Store) SearchNodes(query string) (*search.Result, error) {
	var result *search.Result
	err := s.view(func(g *types.Graph) error {
		r, searchErr := search.Search(g, query)
		if searchErr != nil {
			return searchErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdvancedSearch applies the conjunction of all supplied filters.
func (s *Store) AdvancedSearch(filters search.Filters) (*search.Result, error) {
	var result *search.Result
	err := s.view(func(g *types.Graph) error {
		r, filterErr := search.AdvancedSearch(g, filters)
		if filterErr != nil {
			return filterErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetStatistics computes aggregate counts and histograms over the graph.
func (s *Store) GetStatistics() *search.Stats {
	var stats *search.Stats
	s.view(func(g *types.Graph) error {
		stats = search.Statistics(g)
		return nil
	})
	return stats
}

// GenerateReport produces statistics plus heuristic health flags and
// recommendations.
func (s *Store) GenerateReport() *search.Report {
	var report *search.Report
	s.view(func(g *types.Graph) error {
		report = search.GenerateReport(g)
		return nil
	})
	return report
}

// FindPaths enumerates all simple directed paths from source to target
// within maxLength hops.
func (s *Store) FindPaths(source, target string, maxLength int) ([]search.Path, error) {
	var paths []search.Path
	err := s.view(func(g *types.Graph) error {
		p, pathErr := search.FindPaths(g, source, target, maxLength, s.zeroLengthSelfPath)
		if pathErr != nil {
			return pathErr
		}
		paths = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// DetectClusters partitions the graph into communities by greedy modularity
// optimization over the undirected weighted projection.
func (s *Store) DetectClusters() *community.Result {
	var result *community.Result
	s.view(func(g *types.Graph) error {
		result = community.Detect(g)
		return nil
	})
	return result
}

// SuggestRelations ranks unconnected entity pairs by shared-neighbor count
// plus shared observation-token overlap and returns the top candidates.
func (s *Store) SuggestRelations() []search.Suggestion {
	var suggestions []search.Suggestion
	s.view(func(g *types.Graph) error {
		suggestions = search.SuggestRelations(g, search.DefaultSuggestionLimit)
		return nil
	})
	return suggestions
}

// ExportGraph serializes the graph in the requested format ("json", "csv",
// "graphml", "yaml", or "parquet").
func (s *Store) ExportGraph(format string) (*export.Result, error) {
	var result *export.Result
	err := s.view(func(g *types.Graph) error {
		r, exportErr := export.Export(g, format)
		if exportErr != nil {
			return exportErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
