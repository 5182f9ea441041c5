// Package file reads the exercise catalog from a local YAML export, for offline use and demos.
package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/repository"
)

// yamlSource expects a top-level sequence of mappings keyed by spreadsheet header:
//
//	- id: 1
//	  nombre: Tackle gate
//	  duracion_min: 15
type yamlSource struct {
	path string
}

func NewYAMLSource(path string) repository.CatalogSource {
	return &yamlSource{path: path}
}

func (s *yamlSource) Name() string {
	return "file:" + s.path
}

// FetchRows re-reads the file on every call so edits show up on the next refresh.
func (s *yamlSource) FetchRows(ctx context.Context) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, repository.Unavailable(s.Name(), err)
	}

	var docs []map[string]any
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, repository.Unavailable(s.Name(), fmt.Errorf("decode yaml: %w", err))
	}

	rows := make([]domain.Row, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		rows = append(rows, domain.Row(doc))
	}
	return rows, nil
}
