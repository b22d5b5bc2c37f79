package layout

import "github.com/wudi/docflow/document"

// Line is one packed line of inline runs. XOffset/YOffset shift the
// line relative to the cursor at emission time; list markers use them
// to hang to the left of their owning line.
type Line struct {
	MaxWidth  float64
	Alignment string

	Inlines      []*document.Inline
	InlineWidths float64
	LeadingCut   float64
	TrailingCut  float64

	XOffset float64
	YOffset float64

	LastLineInParagraph bool

	// Page the line ended up on, set by the writer. Page references
	// (table of contents entries) resolve through it.
	PageNumber int
}

// NewLine returns an empty line constrained to maxWidth.
func NewLine(maxWidth float64) *Line {
	return &Line{MaxWidth: maxWidth, PageNumber: -1}
}

// HasEnoughWidth reports whether inline fits on the line. next is the
// run that would follow; when inline is glued to it (NoNewLine), the
// pair must fit together so the break lands before the pair instead
// of between them.
func (l *Line) HasEnoughWidth(inline, next *document.Inline) bool {
	if len(l.Inlines) == 0 {
		return true
	}
	width := l.InlineWidths + inline.Width - l.LeadingCut - inline.TrailingCut
	if inline.NoNewLine && next != nil {
		width += next.Width - next.TrailingCut + inline.TrailingCut
	}
	return width <= l.MaxWidth
}

// AvailableWidth returns the width still open for the next run.
func (l *Line) AvailableWidth() float64 {
	return l.MaxWidth - (l.InlineWidths - l.LeadingCut)
}

// AddInline appends a run to the line.
func (l *Line) AddInline(inline *document.Inline) {
	if len(l.Inlines) == 0 {
		l.LeadingCut = inline.LeadingCut
	}
	l.TrailingCut = inline.TrailingCut
	// Offset within the line, shifted left by the leading cut so the
	// first visible glyph sits on the line origin.
	inline.X = l.InlineWidths - l.LeadingCut
	l.Inlines = append(l.Inlines, inline)
	l.InlineWidths += inline.Width
}

// Width is the visible width of the line, leading and trailing space
// trimmed.
func (l *Line) Width() float64 {
	return l.InlineWidths - l.LeadingCut - l.TrailingCut
}

// Height is the tallest inline's height.
func (l *Line) Height() float64 {
	h := 0.0
	for _, in := range l.Inlines {
		if in.Height > h {
			h = in.Height
		}
	}
	return h
}

// Ascender is the tallest inline's ascender.
func (l *Line) Ascender() float64 {
	a := 0.0
	for _, in := range l.Inlines {
		if in.Ascender > a {
			a = in.Ascender
		}
	}
	return a
}
