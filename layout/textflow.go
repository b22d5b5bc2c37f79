package layout

import "github.com/wudi/docflow/document"

// TextFlow packs measured inline runs into lines and writes them out.
type TextFlow struct {
	metrics Metrics
}

// Metrics is the measurement surface the packer needs when a hard wrap
// forces a run to be re-measured after splitting.
type Metrics interface {
	WidthOf(text, fontName string, size, characterSpacing float64) float64
	LineMetrics(fontName string, size float64) (height, ascender, descender float64)
}

// NewTextFlow builds a packer over the given metrics.
func NewTextFlow(metrics Metrics) *TextFlow {
	return &TextFlow{metrics: metrics}
}

// BuildNextLine pops runs off the front of queue into a new line of
// the given width. It returns the line, the remaining queue, and false
// when the queue was empty. An accepted run still wider than the line's
// remaining space is hard wrapped: split at the estimated character
// budget, the head placed, the tail requeued.
func (tf *TextFlow) BuildNextLine(queue []*document.Inline, maxWidth float64) (*Line, []*document.Inline, bool) {
	if len(queue) == 0 {
		return nil, queue, false
	}

	line := NewLine(maxWidth)
	isForced := false
	for len(queue) > 0 {
		inline := queue[0]
		var next *document.Inline
		if len(queue) > 1 {
			next = queue[1]
		}
		if !isForced && !line.HasEnoughWidth(inline, next) {
			break
		}
		queue = queue[1:]

		isHardWrap := false
		if !inline.NoWrap {
			if tail := tf.hardWrap(inline, line.AvailableWidth()); tail != nil {
				queue = append([]*document.Inline{tail}, queue...)
				isHardWrap = true
			}
		}
		line.AddInline(inline)
		if inline.LineEnd {
			break
		}
		isForced = inline.NoNewLine && !isHardWrap
	}

	line.LastLineInParagraph = len(queue) == 0
	return line, queue, true
}

// hardWrap splits inline in place when it alone exceeds the available
// width, returning the new tail run or nil when no split applies. The
// character budget is estimated from the run's average glyph width and
// never drops below one character.
func (tf *TextFlow) hardWrap(inline *document.Inline, available float64) *document.Inline {
	runes := []rune(inline.Text)
	if len(runes) <= 1 || inline.Width <= available {
		return nil
	}

	widthPerChar := inline.Width / float64(len(runes))
	maxChars := int(available / widthPerChar)
	if maxChars < 1 {
		maxChars = 1
	}
	if maxChars >= len(runes) {
		return nil
	}

	tail := inline.Clone()
	tail.Text = string(runes[maxChars:])
	inline.Text = string(runes[:maxChars])
	inline.Width = tf.metrics.WidthOf(inline.Text, inline.Font, inline.FontSize, inline.CharacterSpacing)
	tail.Width = tf.metrics.WidthOf(tail.Text, tail.Font, tail.FontSize, tail.CharacterSpacing)
	inline.TrailingCut = 0
	tail.LeadingCut = 0
	return tail
}

// ProcessLeaf lays out a text leaf: lines are packed from a cloned
// queue (the node's measured runs survive convergence re-runs) and
// written until the queue drains or the node's maxHeight is exhausted.
// The positions of emitted lines are appended to the node.
func (tf *TextFlow) ProcessLeaf(node *document.Node, writer *PageElementWriter) {
	queue := make([]*document.Inline, len(node.Inlines))
	for i, in := range node.Inlines {
		queue[i] = in.Clone()
	}

	maxHeight := node.MaxHeight
	currentHeight := 0.0
	for {
		if maxHeight > 0 && currentHeight >= maxHeight {
			break
		}
		line, rest, ok := tf.BuildNextLine(queue, writer.Context().AvailableWidth)
		if !ok {
			break
		}
		queue = rest
		line.Alignment = node.Alignment
		pos := writer.AddLine(line)
		if pos != nil {
			node.Positions = append(node.Positions, pos)
		}
		currentHeight += line.Height()
	}
}
