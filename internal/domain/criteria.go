package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria holds the optional filters. Empty strings and a nil MaxDuration mean "no constraint".
type Criteria struct {
	Phase       string `json:"phase,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
	MaxDuration *int   `json:"maxDuration,omitempty"` // minutes, inclusive
	Subtopic    string `json:"subtopic,omitempty"`
}

// Validate rejects a negative duration bound.
func (c Criteria) Validate() error {
	if c.MaxDuration != nil && *c.MaxDuration < 0 {
		return fmt.Errorf("%w: max duration must not be negative, got %d", ErrInvalidCriteria, *c.MaxDuration)
	}
	return nil
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c.Phase == "" && c.Intensity == "" && c.MaxDuration == nil && c.Subtopic == ""
}

// String renders the active criteria, e.g. "phase: Defense | max 20 min".
func (c Criteria) String() string {
	var parts []string
	if c.Phase != "" {
		parts = append(parts, "phase: "+c.Phase)
	}
	if c.Intensity != "" {
		parts = append(parts, "intensity: "+c.Intensity)
	}
	if c.MaxDuration != nil {
		parts = append(parts, fmt.Sprintf("max %d min", *c.MaxDuration))
	}
	if c.Subtopic != "" {
		parts = append(parts, "subtopic: "+c.Subtopic)
	}
	return strings.Join(parts, " | ")
}
