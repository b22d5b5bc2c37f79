package layout

import "github.com/wudi/docflow/document"

// processList lays out list items inside a left gutter sized for the
// markers. Marker placement is deferred: the first line produced
// anywhere during an item's subtree receives the pending marker,
// whichever nesting level it came from.
func (b *Builder) processList(ordered bool, node *document.Node) error {
	ctx := b.writer.Context()
	ctx.AddMargin(node.ListGap, 0)

	ew := b.writer.Writer()
	var nextMarker *document.Marker
	prevHandler := ew.LineHandler
	ew.LineHandler = func(line *Line) {
		if prevHandler != nil {
			prevHandler(line)
		}
		if nextMarker == nil {
			return
		}
		marker := nextMarker
		nextMarker = nil
		b.attachMarker(marker, line, ew)
	}

	var err error
	for _, item := range node.Items {
		nextMarker = item.Marker
		if err = b.processNode(item); err != nil {
			break
		}
		node.Positions = append(node.Positions, item.Positions...)
	}

	ew.LineHandler = prevHandler
	b.writer.Context().AddMargin(-node.ListGap, 0)
	return err
}

// attachMarker hangs a list marker off the left edge of its owning
// line: vectors at the line's top, inline markers baseline-aligned.
func (b *Builder) attachMarker(marker *document.Marker, line *Line, ew *ElementWriter) {
	switch {
	case marker.Vector != nil:
		// Cloned so convergence re-runs start from unshifted geometry.
		v := marker.Vector.Clone()
		v.Offset(-marker.MinWidth, 0)
		ew.AddVector(v, false, false)
	case marker.Inline != nil:
		markerLine := NewLine(b.pageSize.Width)
		markerLine.AddInline(marker.Inline.Clone())
		markerLine.XOffset = -marker.MinWidth
		markerLine.YOffset = line.Ascender() - markerLine.Ascender()
		ew.AddLine(markerLine, true, true)
	}
}
