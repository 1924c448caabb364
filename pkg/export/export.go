// Package export serializes a graph to interchange formats. Every format
// round-trips entity and relation identity (name, type, endpoints) exactly
// and preserves observation order.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Supported formats.
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatGraphML = "graphml"
	FormatYAML    = "yaml"
	FormatParquet = "parquet"
)

// ObservationDelimiter joins an entity's observations into one cell in the
// CSV and GraphML exports. Observations containing the delimiter would not
// survive a round trip, so keep it out of observation text.
const ObservationDelimiter = "|"

// Result is a finished export: one or more named files keyed by file name.
// JSON and GraphML produce a single file; CSV and Parquet produce an
// entities table and a relations table.
type Result struct {
	Format string            `json:"format"`
	Files  map[string][]byte `json:"files"`
}

// Export serializes the graph in the requested format. Unknown formats
// fail with InvalidArgument.
func Export(g *types.Graph, format string) (*Result, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return exportJSON(g)
	case FormatCSV:
		return exportCSV(g)
	case FormatGraphML:
		return exportGraphML(g)
	case FormatYAML:
		return exportYAML(g)
	case FormatParquet:
		return exportParquet(g)
	default:
		return nil, types.NewInvalidArgumentError("unsupported export format: " + format)
	}
}

// exportJSON is a direct structural dump of the persisted document shape.
func exportJSON(g *types.Graph) (*Result, error) {
	data, err := g.Marshal()
	if err != nil {
		return nil, err
	}
	return &Result{
		Format: FormatJSON,
		Files:  map[string][]byte{"graph.json": data},
	}, nil
}

// exportCSV writes two tables joined by entity name.
func exportCSV(g *types.Graph) (*Result, error) {
	var entities bytes.Buffer
	w := csv.NewWriter(&entities)
	if err := w.Write([]string{"id", "name", "entityType", "observations"}); err != nil {
		return nil, err
	}
	for i, e := range g.Entities {
		row := []string{
			strconv.Itoa(i),
			e.Name,
			e.EntityType,
			strings.Join(e.Observations, ObservationDelimiter),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	var relations bytes.Buffer
	w = csv.NewWriter(&relations)
	if err := w.Write([]string{"from", "to", "relationType"}); err != nil {
		return nil, err
	}
	for _, r := range g.Relations {
		if err := w.Write([]string{r.From, r.To, r.RelationType}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &Result{
		Format: FormatCSV,
		Files: map[string][]byte{
			"entities.csv":  entities.Bytes(),
			"relations.csv": relations.Bytes(),
		},
	}, nil
}
