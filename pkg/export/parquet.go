package export

import (
	"bytes"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/soundprediction/graphmem/pkg/types"
)

// ParquetEntity is the columnar schema for one entity row.
type ParquetEntity struct {
	Name         string `parquet:"name"`
	EntityType   string `parquet:"entity_type"`
	Observations string `parquet:"observations"` // delimiter-joined
	Degree       int64  `parquet:"degree"`
}

// ParquetRelation is the columnar schema for one relation row.
type ParquetRelation struct {
	From         string `parquet:"from"`
	To           string `parquet:"to"`
	RelationType string `parquet:"relation_type"`
}

// exportParquet writes entity and relation tables as parquet blobs.
func exportParquet(g *types.Graph) (*Result, error) {
	entityRows := make([]ParquetEntity, 0, len(g.Entities))
	for _, e := range g.Entities {
		entityRows = append(entityRows, ParquetEntity{
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: strings.Join(e.Observations, ObservationDelimiter),
			Degree:       int64(g.Degree(e.Name)),
		})
	}
	relationRows := make([]ParquetRelation, 0, len(g.Relations))
	for _, r := range g.Relations {
		relationRows = append(relationRows, ParquetRelation{
			From:         r.From,
			To:           r.To,
			RelationType: r.RelationType,
		})
	}

	var entities bytes.Buffer
	if err := parquet.Write(&entities, entityRows); err != nil {
		return nil, err
	}
	var relations bytes.Buffer
	if err := parquet.Write(&relations, relationRows); err != nil {
		return nil, err
	}

	return &Result{
		Format: FormatParquet,
		Files: map[string][]byte{
			"entities.parquet":  entities.Bytes(),
			"relations.parquet": relations.Bytes(),
		},
	}, nil
}
