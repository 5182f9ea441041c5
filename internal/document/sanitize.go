package document

import (
	"strings"
	"unicode"
)

// DefaultMaxTokenLength is the longest run of non-space characters passed to the PDF engine.
const DefaultMaxTokenLength = 40

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Sanitize flattens spreadsheet text for layout: line breaks and other control characters
// become spaces, whitespace runs collapse, and any token longer than maxToken runes is cut
// into maxToken-sized chunks.
func Sanitize(text string, maxToken int) string {
	if maxToken <= 0 {
		maxToken = DefaultMaxTokenLength
	}
	text = lineBreaks.Replace(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, chunk(w, maxToken)...)
	}
	return strings.Join(out, " ")
}

func chunk(word string, size int) []string {
	r := []rune(word)
	if len(r) <= size {
		return []string{word}
	}
	parts := make([]string, 0, len(r)/size+1)
	for len(r) > size {
		parts = append(parts, string(r[:size]))
		r = r[size:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
