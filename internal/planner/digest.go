package planner

import (
	"strings"

	"alcyxob/session-planner/internal/domain"
)

const (
	// DigestLimit is the most exercises a digest lists.
	DigestLimit = 5

	NoResultsMessage = "No exercises found for those criteria."

	digestTitle     = "Suggested exercises"
	digestSeparator = "-------------------------"
)

// FormatDigest renders up to DigestLimit exercises as a chat-friendly plain text message.
// phase and intensity only label the header; they do not filter.
func FormatDigest(records []domain.Exercise, phase, intensity string) string {
	if len(records) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	b.WriteString(digestTitle)
	if phase != "" {
		b.WriteString(" - ")
		b.WriteString(capitalize(phase))
	}
	if intensity != "" {
		b.WriteString(" (")
		b.WriteString(strings.ToLower(intensity))
		b.WriteString(")")
	}
	b.WriteString("\n\n")

	if len(records) > DigestLimit {
		records = records[:DigestLimit]
	}
	for _, e := range records {
		b.WriteString("*" + e.Name + "* (" + e.DurationText + " min)\n")
		b.WriteString("Objective: " + e.Objective + "\n")
		b.WriteString("Space: " + e.Space + "\n")
		if e.CoachingPoints != "" {
			b.WriteString("Coaching points: " + e.CoachingPoints + "\n")
		}
		if e.VideoURL != "" {
			b.WriteString("Video: " + e.VideoURL + "\n")
		}
		b.WriteString(digestSeparator + "\n")
	}
	return b.String()
}

// capitalize upper-cases the first letter and lower-cases the rest ("dEFENSE" -> "Defense").
func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
