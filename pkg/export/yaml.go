package export

import (
	"github.com/soundprediction/graphmem/pkg/types"
	"gopkg.in/yaml.v3"
)

type yamlEntity struct {
	Name         string   `yaml:"name"`
	EntityType   string   `yaml:"entityType"`
	Observations []string `yaml:"observations,omitempty"`
}

type yamlRelation struct {
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	RelationType string `yaml:"relationType"`
}

type yamlDoc struct {
	Entities  []yamlEntity   `yaml:"entities"`
	Relations []yamlRelation `yaml:"relations"`
}

// exportYAML mirrors the JSON document shape in YAML.
func exportYAML(g *types.Graph) (*Result, error) {
	doc := yamlDoc{
		Entities:  make([]yamlEntity, 0, len(g.Entities)),
		Relations: make([]yamlRelation, 0, len(g.Relations)),
	}
	for _, e := range g.Entities {
		doc.Entities = append(doc.Entities, yamlEntity{
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: e.Observations,
		})
	}
	for _, r := range g.Relations {
		doc.Relations = append(doc.Relations, yamlRelation{
			From:         r.From,
			To:           r.To,
			RelationType: r.RelationType,
		})
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Format: FormatYAML,
		Files:  map[string][]byte{"graph.yaml": data},
	}, nil
}
