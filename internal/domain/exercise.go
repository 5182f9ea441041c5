// internal/domain/exercise.go
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Column names used by the exercise spreadsheet header row.
const (
	ColumnID             = "id"
	ColumnName           = "nombre"
	ColumnPhase          = "fase_juego"
	ColumnSubtopic       = "subtema"
	ColumnIntensity      = "intensidad"
	ColumnDuration       = "duracion_min"
	ColumnObjective      = "objetivo_principal"
	ColumnSpace          = "espacio"
	ColumnMinPlayers     = "jugadores_min"
	ColumnMaxPlayers     = "jugadores_max"
	ColumnDescription    = "descripcion"
	ColumnCoachingPoints = "coaching_points"
	ColumnVideoLink      = "video_link"
)

var (
	ErrMissingField    = errors.New("field missing from record")
	ErrInvalidDuration = errors.New("duration is not a non-negative whole number of minutes")
)

// Row is one spreadsheet row keyed by header name, as returned by a catalog source.
type Row map[string]any

// Exercise is a single drill from the catalog. Values are read-only once built.
type Exercise struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phase          string `json:"phase"`
	Subtopic       string `json:"subtopic"`
	Intensity      string `json:"intensity"`
	DurationText   string `json:"duration"`
	Objective      string `json:"objective,omitempty"`
	Space          string `json:"space,omitempty"`
	MinPlayers     int    `json:"minPlayers,omitempty"` // 0 when not given
	MaxPlayers     int    `json:"maxPlayers,omitempty"` // 0 when not given
	Description    string `json:"description,omitempty"`
	CoachingPoints string `json:"coachingPoints,omitempty"`
	VideoURL       string `json:"videoUrl,omitempty"`

	columns map[string]struct{}
}

// NewExercise builds an Exercise from a row. Missing or empty cells become empty strings;
// the set of columns present is remembered so callers can tell "absent" from "blank".
func NewExercise(row Row) Exercise {
	e := Exercise{
		ID:             cellText(row, ColumnID),
		Name:           cellText(row, ColumnName),
		Phase:          cellText(row, ColumnPhase),
		Subtopic:       cellText(row, ColumnSubtopic),
		Intensity:      cellText(row, ColumnIntensity),
		DurationText:   cellText(row, ColumnDuration),
		Objective:      cellText(row, ColumnObjective),
		Space:          cellText(row, ColumnSpace),
		MinPlayers:     cellCount(row, ColumnMinPlayers),
		MaxPlayers:     cellCount(row, ColumnMaxPlayers),
		Description:    cellText(row, ColumnDescription),
		CoachingPoints: cellText(row, ColumnCoachingPoints),
		VideoURL:       cellText(row, ColumnVideoLink),
		columns:        make(map[string]struct{}, len(row)),
	}
	for k, v := range row {
		if v != nil {
			e.columns[k] = struct{}{}
		}
	}
	return e
}

// NewExercises converts rows in order.
func NewExercises(rows []Row) []Exercise {
	out := make([]Exercise, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewExercise(r))
	}
	return out
}

// Has reports whether the source row carried the given column.
func (e Exercise) Has(column string) bool {
	_, ok := e.columns[column]
	return ok
}

// Duration returns the duration in minutes, failing when the cell is absent or not a
// non-negative whole number.
func (e Exercise) Duration() (int, error) {
	if !e.Has(ColumnDuration) {
		return 0, ErrMissingField
	}
	d, ok := wholeNumber(e.DurationText)
	if !ok {
		return 0, ErrInvalidDuration
	}
	return d, nil
}

// DurationOrZero is the lenient counterpart of Duration used by exports.
func (e Exercise) DurationOrZero() int {
	d, _ := wholeNumber(e.DurationText)
	return d
}

// Label is a human readable reference for error messages.
func (e Exercise) Label() string {
	switch {
	case e.ID != "" && e.Name != "":
		return fmt.Sprintf("%s (%s)", e.ID, e.Name)
	case e.ID != "":
		return e.ID
	case e.Name != "":
		return e.Name
	}
	return "<unnamed>"
}

// wholeNumber accepts "15", "15.0" and the float64 text the Sheets API produces.
func wholeNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func cellText(row Row, column string) string {
	v, ok := row[column]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func cellCount(row Row, column string) int {
	n, _ := wholeNumber(cellText(row, column))
	return n
}
