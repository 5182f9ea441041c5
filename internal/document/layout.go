package document

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// DefaultTruncateLength is how many runes survive when every other layout strategy failed.
const DefaultTruncateLength = 80

// textLayout is the part of the PDF engine the text writer depends on.
// Every method reports engine failures as errors instead of leaving them sticky.
type textLayout interface {
	// MultiLine lets the engine wrap text within width.
	MultiLine(text string, width float64) error
	// Measure returns the rendered width of text in the current font.
	Measure(text string) (float64, error)
	// Line writes text on a single line and moves to the next one.
	Line(text string, width float64) error
}

type strategy struct {
	name  string
	write func(l textLayout, text string, width float64) error
}

// strategyChain is tried in order until one succeeds.
func strategyChain(truncateLength int) []strategy {
	return []strategy{
		{name: "natural", write: writeNatural},
		{name: "wrapped", write: writeWrapped},
		{name: "truncated", write: truncateTo(truncateLength)},
	}
}

// writeText places text using the first strategy that succeeds and returns its name.
// When all strategies fail the text is dropped and "" is returned.
func writeText(l textLayout, text string, width float64, chain []strategy, log *zap.Logger) string {
	if text == "" {
		return ""
	}
	for _, s := range chain {
		err := s.write(l, text, width)
		if err == nil {
			return s.name
		}
		log.Warn("text layout strategy failed",
			zap.String("strategy", s.name),
			zap.Int("runes", len([]rune(text))),
			zap.Error(err))
	}
	log.Error("dropping text, no layout strategy succeeded", zap.Int("runes", len([]rune(text))))
	return ""
}

func writeNatural(l textLayout, text string, width float64) error {
	return l.MultiLine(text, width)
}

// writeWrapped fills lines word by word while the measured width stays under width.
// A single word wider than width gets a line of its own.
func writeWrapped(l textLayout, text string, width float64) error {
	var line string
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		w, err := l.Measure(candidate)
		if err != nil {
			return err
		}
		if line == "" || w < width {
			line = candidate
			continue
		}
		if err := l.Line(line, width); err != nil {
			return err
		}
		line = word
	}
	if line == "" {
		return nil
	}
	return l.Line(line, width)
}

func truncateTo(limit int) func(l textLayout, text string, width float64) error {
	if limit <= 0 {
		limit = DefaultTruncateLength
	}
	return func(l textLayout, text string, width float64) error {
		if r := []rune(text); len(r) > limit {
			text = string(r[:limit])
		}
		return l.Line(text, width)
	}
}

// fpdfLayout adapts *fpdf.Fpdf. fpdf keeps errors sticky and may panic on odd input;
// both are turned into returned errors and the engine is reset for the next attempt.
type fpdfLayout struct {
	pdf        *fpdf.Fpdf
	translate  func(string) string
	lineHeight float64
}

func newFpdfLayout(pdf *fpdf.Fpdf) *fpdfLayout {
	return &fpdfLayout{
		pdf:        pdf,
		translate:  pdf.UnicodeTranslatorFromDescriptor(""),
		lineHeight: 5,
	}
}

func (l *fpdfLayout) MultiLine(text string, width float64) error {
	return l.guard(func() {
		l.pdf.MultiCell(width, l.lineHeight, l.translate(text), "", "L", false)
	})
}

func (l *fpdfLayout) Measure(text string) (float64, error) {
	var w float64
	err := l.guard(func() {
		w = l.pdf.GetStringWidth(l.translate(text))
	})
	return w, err
}

func (l *fpdfLayout) Line(text string, width float64) error {
	return l.guard(func() {
		l.pdf.CellFormat(width, l.lineHeight, l.translate(text), "", 1, "L", false, 0, "")
	})
}

func (l *fpdfLayout) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf engine panic: %v", r)
		} else if l.pdf.Err() {
			err = l.pdf.Error()
		}
		if err != nil {
			l.pdf.ClearError()
		}
	}()
	fn()
	return nil
}
