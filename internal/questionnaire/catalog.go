package questionnaire

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

type catalogDoc struct {
	Questions []Definition `yaml:"questions"`
}

// ParseCatalog reads a question catalog. The document is either a mapping
// with a "questions" list or the list itself; JSON input works too.
func ParseCatalog(r io.Reader) ([]Question, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	var defs []Definition
	if len(node.Content) > 0 {
		root := node.Content[0]
		if root.Kind == yaml.SequenceNode {
			err = root.Decode(&defs)
		} else {
			var doc catalogDoc
			err = root.Decode(&doc)
			defs = doc.Questions
		}
		if err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	}
	return BuildAll(defs)
}

// DefaultCatalog is the built-in lifestyle questionnaire.
func DefaultCatalog() []Question {
	var doc catalogDoc
	if err := yaml.Unmarshal(defaultCatalogYAML, &doc); err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	qs, err := BuildAll(doc.Questions)
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return qs
}

// StaticSource serves a fixed question list.
type StaticSource []Question

func (s StaticSource) LoadQuestions(context.Context) ([]Question, error) {
	out := make([]Question, len(s))
	copy(out, s)
	return out, nil
}
