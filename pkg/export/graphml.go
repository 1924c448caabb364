package export

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/soundprediction/graphmem/pkg/types"
)

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

// exportGraphML emits a single directed-graph document. Entity names become
// node IDs; entity type and joined observations are node data, relation type
// is edge data.
func exportGraphML(g *types.Graph) (*Result, error) {
	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "entityType", For: "node", AttrName: "entityType", AttrType: "string"},
			{ID: "observations", For: "node", AttrName: "observations", AttrType: "string"},
			{ID: "relationType", For: "edge", AttrName: "relationType", AttrType: "string"},
		},
		Graph: graphmlGraph{
			ID:          "G",
			EdgeDefault: "directed",
		},
	}
	for _, e := range g.Entities {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: e.Name,
			Data: []graphmlData{
				{Key: "entityType", Value: e.EntityType},
				{Key: "observations", Value: strings.Join(e.Observations, ObservationDelimiter)},
			},
		})
	}
	for _, r := range g.Relations {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: r.From,
			Target: r.To,
			Data:   []graphmlData{{Key: "relationType", Value: r.RelationType}},
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')

	return &Result{
		Format: FormatGraphML,
		Files:  map[string][]byte{"graph.graphml": buf.Bytes()},
	}, nil
}
