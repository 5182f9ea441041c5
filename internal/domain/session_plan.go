// internal/domain/session_plan.go
package domain

import "time"

// SessionPlan is a printable selection of exercises for one training session.
type SessionPlan struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Criteria     Criteria   `json:"criteria"`
	Exercises    []Exercise `json:"exercises"`
	TotalMinutes int        `json:"totalMinutes"` // Missing or unreadable durations count as 0
	RequestedBy  string     `json:"requestedBy,omitempty"`
	GeneratedAt  time.Time  `json:"generatedAt"`
}

// NewSessionPlan totals the exercises leniently.
func NewSessionPlan(id, title string, criteria Criteria, exercises []Exercise, now time.Time) *SessionPlan {
	total := 0
	for _, e := range exercises {
		total += e.DurationOrZero()
	}
	return &SessionPlan{
		ID:           id,
		Title:        title,
		Criteria:     criteria,
		Exercises:    exercises,
		TotalMinutes: total,
		GeneratedAt:  now.UTC(),
	}
}
