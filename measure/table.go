package measure

import "github.com/wudi/docflow/document"

// measureTable marks span placeholders into the body grid, measures
// every real cell and aggregates per-column min/max bounds. Resolving
// final column widths is deferred to layout, where the available width
// is known.
func (m *Measurer) measureTable(node *document.Node, styles *document.StyleStack) error {
	t := node.Table
	if t == nil || len(t.Body) == 0 {
		return nil
	}
	markSpans(t.Body)

	cols := len(t.Body[0])
	t.ColMin = make([]float64, cols)
	t.ColMax = make([]float64, cols)

	for _, row := range t.Body {
		for c, cell := range row {
			if cell.Kind == document.KindColumnSpan {
				continue
			}
			if err := m.measureNode(cell, styles); err != nil {
				return err
			}
			span := cell.ColSpan
			if span < 1 {
				span = 1
			}
			// A spanning cell spreads its demands evenly over the
			// columns it covers.
			minShare := cell.MinWidth / float64(span)
			maxShare := cell.MaxWidth / float64(span)
			for j := 0; j < span && c+j < cols; j++ {
				if minShare > t.ColMin[c+j] {
					t.ColMin[c+j] = minShare
				}
				if maxShare > t.ColMax[c+j] {
					t.ColMax[c+j] = maxShare
				}
			}
		}
	}

	node.MinWidth = 0
	node.MaxWidth = 0
	for c := 0; c < cols; c++ {
		node.MinWidth += t.ColMin[c]
		node.MaxWidth += t.ColMax[c]
	}
	return nil
}

// markSpans replaces the cells covered by a col/row span with
// placeholder nodes. Same-row placeholders inherit the spanning cell's
// RowSpan so the vertical pass covers the full rectangle; placeholders
// in later rows stay plain — the one at the span's last row and column
// receives the column-ending capture during layout.
func markSpans(body [][]*document.Node) {
	for _, row := range body {
		for c, cell := range row {
			if cell.Kind == document.KindColumnSpan {
				continue
			}
			if cell.ColSpan > 1 {
				for j := 1; j < cell.ColSpan && c+j < len(row); j++ {
					row[c+j] = &document.Node{Kind: document.KindColumnSpan, RowSpan: cell.RowSpan}
				}
			}
		}
	}
	for r, row := range body {
		for c, cell := range row {
			if cell.RowSpan > 1 {
				for i := 1; i < cell.RowSpan && r+i < len(body); i++ {
					body[r+i][c] = &document.Node{Kind: document.KindColumnSpan}
				}
				if cell.Kind == document.KindColumnSpan {
					// vertical pass done for this placeholder
					cell.RowSpan = 0
				}
			}
		}
	}
}
