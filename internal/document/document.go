// Package document renders a selection of exercises as a paginated PDF session plan.
//
// Spreadsheet text is untrusted: every free-text field is sanitized, then written through
// an escalating chain of layout strategies (engine wrapping, manual wrapping, truncation)
// so that a single bad cell degrades its own output instead of failing the export.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/domain"
)

const (
	DefaultTitle = "Training session plan"

	pageMargin  = 15.0
	fontFamily  = "Helvetica"
	creatorName = "session-planner"
)

type options struct {
	title          string
	subtitle       string
	generatedAt    time.Time
	maxTokenLength int
	truncateLength int
	compress       bool
	log            *zap.Logger
}

// Option customises Generate.
type Option func(*options)

// WithTitle sets the document heading.
func WithTitle(title string) Option {
	return func(o *options) {
		if strings.TrimSpace(title) != "" {
			o.title = title
		}
	}
}

// WithSubtitle adds a line under the heading, typically the active filter criteria.
func WithSubtitle(subtitle string) Option {
	return func(o *options) { o.subtitle = subtitle }
}

// WithGeneratedAt prints a generation timestamp under the heading.
func WithGeneratedAt(t time.Time) Option {
	return func(o *options) { o.generatedAt = t }
}

// WithMaxTokenLength sets the chunk size for overlong tokens.
func WithMaxTokenLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokenLength = n
		}
	}
}

// WithTruncateLength sets how much text the last-resort strategy keeps.
func WithTruncateLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.truncateLength = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Generate builds the PDF for records in the given order. Row content never makes it fail;
// the returned error only reports a failure to serialize the finished document.
func Generate(records []domain.Exercise, opts ...Option) ([]byte, error) {
	o := options{
		title:          DefaultTitle,
		maxTokenLength: DefaultMaxTokenLength,
		truncateLength: DefaultTruncateLength,
		compress:       true,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := newBuilder(o)
	b.summary(records)
	for i, e := range records {
		if i > 0 {
			b.separator()
		}
		b.exercise(i+1, e)
	}
	return b.output()
}

type builder struct {
	pdf    *fpdf.Fpdf
	layout *fpdfLayout
	chain  []strategy
	width  float64
	opts   options
}

func newBuilder(o options) *builder {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetCompression(o.compress)
	pdf.SetTitle(o.title, true)
	pdf.SetCreator(creatorName, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin + 3)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	return &builder{
		pdf:    pdf,
		layout: newFpdfLayout(pdf),
		chain:  strategyChain(o.truncateLength),
		width:  pageWidth - 2*pageMargin,
		opts:   o,
	}
}

func (b *builder) style(style string, size, lineHeight float64) {
	b.pdf.SetFont(fontFamily, style, size)
	b.layout.lineHeight = lineHeight
}

// text sanitizes value and writes it, optionally behind a fixed label.
func (b *builder) text(label, value string) {
	value = Sanitize(value, b.opts.maxTokenLength)
	if value == "" {
		return
	}
	writeText(b.layout, label+value, b.width, b.chain, b.opts.log)
}

func (b *builder) summary(records []domain.Exercise) {
	total := 0
	for _, e := range records {
		total += e.DurationOrZero()
	}

	b.style("B", 18, 9)
	b.text("", b.opts.title)
	if b.opts.subtitle != "" {
		b.style("I", 10, 5)
		b.text("", b.opts.subtitle)
	}
	if !b.opts.generatedAt.IsZero() {
		b.style("", 9, 5)
		b.text("Generated ", b.opts.generatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	b.pdf.Ln(2)

	b.style("B", 11, 6)
	b.text("", fmt.Sprintf("Exercises: %d", len(records)))
	b.text("", fmt.Sprintf("Total duration: %d min", total))
	b.pdf.Ln(4)
}

func (b *builder) exercise(n int, e domain.Exercise) {
	name := e.Name
	if strings.TrimSpace(name) == "" {
		name = "Untitled exercise"
	}
	title := fmt.Sprintf("%d. %s", n, name)
	if d := e.DurationOrZero(); d > 0 {
		title += fmt.Sprintf(" (%d min)", d)
	}
	b.style("B", 13, 7)
	b.text("", title)

	b.style("I", 9, 5)
	b.text("", joinNonEmpty(" | ", e.Phase, e.Subtopic, e.Intensity))

	b.style("", 10, 5)
	b.text("Objective: ", e.Objective)
	b.text("Logistics: ", logistics(e))
	b.text("Description: ", e.Description)
	b.text("Coaching points: ", e.CoachingPoints)
	b.text("Video: ", e.VideoURL)
}

func (b *builder) separator() {
	b.pdf.Ln(3)
	y := b.pdf.GetY()
	b.pdf.SetDrawColor(180, 180, 180)
	b.pdf.Line(pageMargin, y, pageMargin+b.width, y)
	b.pdf.SetDrawColor(0, 0, 0)
	b.pdf.Ln(4)
}

func (b *builder) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render session plan pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func logistics(e domain.Exercise) string {
	var players string
	switch {
	case e.MinPlayers > 0 && e.MaxPlayers > 0:
		players = fmt.Sprintf("%d-%d players", e.MinPlayers, e.MaxPlayers)
	case e.MinPlayers > 0:
		players = fmt.Sprintf("%d+ players", e.MinPlayers)
	case e.MaxPlayers > 0:
		players = fmt.Sprintf("up to %d players", e.MaxPlayers)
	}
	return joinNonEmpty(" | ", e.Space, players)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
