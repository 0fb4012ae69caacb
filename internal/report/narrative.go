package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed narrative.yaml
var narrativeYAML []byte

// Narrative is a titled list of static talking points.
type Narrative struct {
	Title  string   `yaml:"title" json:"title"`
	Points []string `yaml:"points" json:"points"`
}

type narrativeDoc struct {
	Sections   map[string]string    `yaml:"sections"`
	Narratives map[string]Narrative `yaml:"narratives"`
}

var narratives = mustParseNarratives(narrativeYAML)

func mustParseNarratives(data []byte) narrativeDoc {
	doc, err := parseNarratives(data)
	if err != nil {
		panic(err)
	}
	return doc
}

func parseNarratives(data []byte) (narrativeDoc, error) {
	var doc narrativeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return narrativeDoc{}, fmt.Errorf("parse narratives: %w", err)
	}
	for _, id := range sectionIDs {
		if doc.Sections[id] == "" {
			return narrativeDoc{}, fmt.Errorf("parse narratives: section %q has no title", id)
		}
	}
	return doc, nil
}

func sectionTitle(id string) string {
	return narratives.Sections[id]
}

func narrativesFor(keys ...string) []Narrative {
	out := make([]Narrative, 0, len(keys))
	for _, k := range keys {
		if n, ok := narratives.Narratives[k]; ok {
			out = append(out, n)
		}
	}
	return out
}
