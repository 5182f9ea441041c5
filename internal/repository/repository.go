package repository

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/session-planner/internal/domain"
)

// Error constants for the repository layer
var (
	ErrSourceUnavailable = RepositoryError("catalog source unavailable")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CatalogSource is the external store holding the exercise catalog. Sources are pull-only:
// every call returns the whole current catalog as ordered rows.
type CatalogSource interface {
	FetchRows(ctx context.Context) ([]domain.Row, error)
	// Name identifies the source in logs, e.g. "sheets:repositorio_ejercicios".
	Name() string
}

// Unavailable wraps a transport or driver failure so callers can match ErrSourceUnavailable.
func Unavailable(source string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
}

// RowsFromTable turns a header row plus data rows into records the way a spreadsheet
// "get all records" call does: header cells become keys, short rows are padded with "",
// blank header cells are skipped and fully empty rows dropped. An empty table is an empty catalog.
func RowsFromTable(table [][]any) ([]domain.Row, error) {
	if len(table) == 0 {
		return []domain.Row{}, nil
	}
	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	rows := make([]domain.Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		if isBlank(cells) {
			continue
		}
		row := make(domain.Row, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			var v any = ""
			if i < len(cells) && cells[i] != nil {
				v = cells[i]
			}
			row[key] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(cells []any) bool {
	for _, c := range cells {
		if c != nil && fmt.Sprint(c) != "" {
			return false
		}
	}
	return true
}
