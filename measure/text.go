package measure

import (
	"strings"

	"github.com/wudi/docflow/document"
	"golang.org/x/text/unicode/norm"
)

// measureText builds the leaf's inline runs: the text is normalized to
// NFC and split into word-level runs that keep their trailing spaces,
// with the space widths recorded as cuts so lines can trim their
// edges. A noWrap leaf becomes a single unsplittable run.
func (m *Measurer) measureText(node *document.Node, styles *document.StyleStack) {
	text := norm.NFC.String(node.Text)
	font := styles.Font()
	size := styles.FontSize()
	spacing := styles.CharacterSpacing()
	lineHeight := styles.LineHeight()
	color := styles.Color()
	background := styles.Background()
	noWrap := styles.NoWrap()

	fontHeight, ascender, _ := m.metrics.LineMetrics(font, size)
	height := fontHeight * lineHeight

	node.Alignment = styles.Alignment()
	node.Inlines = nil
	node.MinWidth = 0
	node.MaxWidth = 0
	if node.TOCItem != "" {
		m.tocItems[node.TOCItem] = append(m.tocItems[node.TOCItem], tocEntry{title: text, node: node})
	}
	if text == "" {
		node.Height = height
		return
	}

	var words []string
	if noWrap {
		words = []string{text}
	} else {
		words = splitWords(text)
	}

	for _, word := range words {
		in := &document.Inline{
			Text:             word,
			Font:             font,
			FontSize:         size,
			CharacterSpacing: spacing,
			Color:            color,
			Background:       background,
			Height:           height,
			Ascender:         ascender,
			NoWrap:           noWrap,
		}
		in.Width = m.metrics.WidthOf(word, font, size, spacing)

		if lead := word[:len(word)-len(strings.TrimLeft(word, " "))]; lead != "" {
			in.LeadingCut = m.metrics.WidthOf(lead, font, size, spacing)
		}
		if trail := word[len(strings.TrimRight(word, " ")):]; trail != "" && trail != word {
			in.TrailingCut = m.metrics.WidthOf(trail, font, size, spacing)
		}

		node.Inlines = append(node.Inlines, in)
		node.MaxWidth += in.Width
		if w := in.Width - in.LeadingCut - in.TrailingCut; w > node.MinWidth {
			node.MinWidth = w
		}
	}
	node.Height = height
}

// splitWords breaks text into runs, each keeping the spaces that
// follow it.
func splitWords(text string) []string {
	var words []string
	start := 0
	inSpaces := false
	for i, r := range text {
		if r == ' ' {
			inSpaces = true
			continue
		}
		if inSpaces {
			words = append(words, text[start:i])
			start = i
			inSpaces = false
		}
	}
	words = append(words, text[start:])
	return words
}

// buildInline measures a standalone run outside any leaf, used for
// list markers.
func (m *Measurer) buildInline(text string, styles *document.StyleStack) *document.Inline {
	font := styles.Font()
	size := styles.FontSize()
	spacing := styles.CharacterSpacing()
	fontHeight, ascender, _ := m.metrics.LineMetrics(font, size)
	return &document.Inline{
		Text:             text,
		Font:             font,
		FontSize:         size,
		CharacterSpacing: spacing,
		Color:            styles.MarkerColor(),
		Width:            m.metrics.WidthOf(text, font, size, spacing),
		Height:           fontHeight * styles.LineHeight(),
		Ascender:         ascender,
		NoWrap:           true,
	}
}
