package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/repository"
)

const catalogYAML = `
- id: 1
  nombre: Tackle gate
  fase_juego: Defense
  subtema: Tackle technique
  intensidad: High
  duracion_min: 15
  descripcion: |
    Pair up.
    Walk through, then full speed.
- id: 2
  nombre: Kick chase
  fase_juego: Attack
  duracion_min: "20"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestYAMLSource(t *testing.T) {
	src := NewYAMLSource(writeCatalog(t, catalogYAML))

	rows, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	exercises := domain.NewExercises(rows)
	assert.Equal(t, "Tackle gate", exercises[0].Name)
	assert.Equal(t, "Pair up.\nWalk through, then full speed.\n", exercises[0].Description)
	assert.Equal(t, 20, exercises[1].DurationOrZero())
	assert.False(t, exercises[1].Has(domain.ColumnIntensity))
}

func TestYAMLSourceMissingFile(t *testing.T) {
	src := NewYAMLSource(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := src.FetchRows(context.Background())
	require.ErrorIs(t, err, repository.ErrSourceUnavailable)
}

func TestYAMLSourceBadYAML(t *testing.T) {
	src := NewYAMLSource(writeCatalog(t, "id: [unclosed"))
	_, err := src.FetchRows(context.Background())
	require.ErrorIs(t, err, repository.ErrSourceUnavailable)
}

func TestYAMLSourceEmptyFile(t *testing.T) {
	src := NewYAMLSource(writeCatalog(t, ""))
	rows, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
