package layout

import (
	"math"

	"github.com/wudi/docflow/document"
)

// WatermarkSpec declares the page-wide watermark text. A zero FontSize
// means the size is searched so the text spans 80% of the page
// diagonal.
type WatermarkSpec struct {
	Text     string
	Font     string
	FontSize float64
	Color    string
	Opacity  float64
	Bold     bool
	Italics  bool
}

// applyWatermark attaches the sized watermark descriptor to every page.
func (b *Builder) applyWatermark() {
	if b.watermark == nil || b.watermark.Text == "" {
		return
	}
	wm := b.buildWatermark(b.watermark)
	for _, page := range b.ctx.Pages {
		page.Watermark = wm
	}
}

func (b *Builder) buildWatermark(spec *WatermarkSpec) *Watermark {
	font := spec.Font
	if font == "" {
		font = b.styles.Font()
	}
	size := spec.FontSize
	if size <= 0 {
		size = b.watermarkFontSize(spec.Text, font)
	}
	width := b.metrics.WidthOf(spec.Text, font, size, 0)
	height, _, _ := b.metrics.LineMetrics(font, size)
	opacity := spec.Opacity
	if opacity <= 0 {
		opacity = 0.6
	}
	color := spec.Color
	if color == "" {
		color = "black"
	}
	return &Watermark{
		Text:     spec.Text,
		Font:     font,
		FontSize: size,
		Color:    color,
		Opacity:  opacity,
		Bold:     spec.Bold,
		Italics:  spec.Italics,
		Width:    width,
		Height:   height,
	}
}

// watermarkFontSize binary-searches a font size in [0, 1000] so the
// text's measured width approaches 80% of the page diagonal. The
// search stops once the interval narrows below one point.
func (b *Builder) watermarkFontSize(text, font string) float64 {
	targetWidth := 0.8 * math.Sqrt(b.pageSize.Width*b.pageSize.Width+b.pageSize.Height*b.pageSize.Height)

	lo, hi := 0.0, 1000.0
	c := (lo + hi) / 2
	for math.Abs(lo-hi) > 1 {
		b.styles.Push(&document.Style{FontSize: c})
		width := b.metrics.WidthOf(text, font, b.styles.FontSize(), b.styles.CharacterSpacing())
		b.styles.Pop(1)
		switch {
		case width > targetWidth:
			hi = c
		case width < targetWidth:
			lo = c
		default:
			return c
		}
		c = (lo + hi) / 2
	}
	return c
}
