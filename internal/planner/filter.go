// Package planner selects exercises from the catalog and renders text digests of them.
package planner

import (
	"errors"
	"fmt"
	"strings"

	"alcyxob/session-planner/internal/domain"
)

var (
	ErrMalformedRecord  = errors.New("malformed exercise record")
	ErrExerciseNotFound = errors.New("exercise not found")
)

// MalformedRecordError reports a record that cannot be checked against a supplied criterion.
type MalformedRecordError struct {
	Record string // domain.Exercise.Label()
	Field  string // spreadsheet column
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed exercise record %s: field %q: %v", e.Record, e.Field, e.Err)
}

func (e *MalformedRecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// Filter returns the records satisfying every supplied criterion, in input order.
// A record lacking a column needed by a supplied criterion fails the whole call.
func Filter(records []domain.Exercise, c domain.Criteria) ([]domain.Exercise, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	phase := strings.ToLower(strings.TrimSpace(c.Phase))
	intensity := strings.ToLower(strings.TrimSpace(c.Intensity))
	subtopic := strings.ToLower(c.Subtopic)

	out := make([]domain.Exercise, 0, len(records))
	for _, e := range records {
		ok, err := matches(e, phase, intensity, subtopic, c.MaxDuration)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func matches(e domain.Exercise, phase, intensity, subtopic string, maxDuration *int) (bool, error) {
	if phase != "" {
		if !e.Has(domain.ColumnPhase) {
			return false, malformed(e, domain.ColumnPhase, domain.ErrMissingField)
		}
		if strings.ToLower(strings.TrimSpace(e.Phase)) != phase {
			return false, nil
		}
	}
	if intensity != "" {
		if !e.Has(domain.ColumnIntensity) {
			return false, malformed(e, domain.ColumnIntensity, domain.ErrMissingField)
		}
		if strings.ToLower(strings.TrimSpace(e.Intensity)) != intensity {
			return false, nil
		}
	}
	if maxDuration != nil {
		d, err := e.Duration()
		if err != nil {
			return false, malformed(e, domain.ColumnDuration, err)
		}
		if d > *maxDuration {
			return false, nil
		}
	}
	if subtopic != "" {
		if !e.Has(domain.ColumnSubtopic) {
			return false, malformed(e, domain.ColumnSubtopic, domain.ErrMissingField)
		}
		if !strings.Contains(strings.ToLower(e.Subtopic), subtopic) {
			return false, nil
		}
	}
	return true, nil
}

func malformed(e domain.Exercise, field string, err error) error {
	return &MalformedRecordError{Record: e.Label(), Field: field, Err: err}
}

// Select picks exercises by identifier in the order the identifiers are given.
func Select(records []domain.Exercise, ids []string) ([]domain.Exercise, error) {
	byID := make(map[string]domain.Exercise, len(records))
	for _, e := range records {
		id := strings.TrimSpace(e.ID)
		if _, dup := byID[id]; !dup {
			byID[id] = e
		}
	}
	out := make([]domain.Exercise, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrExerciseNotFound, id)
		}
		out = append(out, e)
	}
	return out, nil
}
