package layout

import (
	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/measure"
)

// processColumns resolves column widths against the available width,
// computes each column's offset from the group origin and lays the
// columns out as one row.
func (b *Builder) processColumns(node *document.Node) error {
	columns := node.Columns
	if len(columns) == 0 {
		return nil
	}
	availableWidth := b.writer.Context().AvailableWidth
	gap := node.Gap
	if gap > 0 && len(columns) > 1 {
		availableWidth -= gap * float64(len(columns)-1)
	}
	measure.DistributeColumnWidths(columns, availableWidth)

	widths := make([]float64, len(columns))
	offsets := make([]float64, len(columns))
	x := 0.0
	for i, col := range columns {
		widths[i] = col.Width
		offsets[i] = x
		x += col.Width + gap
	}

	_, positions, err := b.processRow(columns, widths, offsets, nil, 0, 0)
	node.Positions = append(node.Positions, positions...)
	return err
}

// processRow lays out one row of sibling cells at their column
// offsets. Page breaks occurring anywhere in the row are merged per
// previous-page index (max trailing y, min leading y) so a broken row
// reports one descriptor per page transition. tableBody is non-nil for
// table rows only and enables row-span placeholder resolution.
func (b *Builder) processRow(columns []*document.Node, widths, offsets []float64, tableBody [][]*document.Node, rowIndex int, height float64) ([]*document.PageBreakInfo, []*document.Position, error) {
	ctx := b.writer.Context()
	var pageBreaks []*document.PageBreakInfo
	var positions []*document.Position

	prevHandler := ctx.PageChanged
	ctx.PageChanged = func(info document.PageBreakInfo) {
		if prevHandler != nil {
			prevHandler(info)
		}
		for _, pb := range pageBreaks {
			if pb.PrevPage == info.PrevPage {
				if info.PrevY > pb.PrevY {
					pb.PrevY = info.PrevY
				}
				if info.Y < pb.Y {
					pb.Y = info.Y
				}
				return
			}
		}
		rec := info
		pageBreaks = append(pageBreaks, &rec)
	}
	defer func() { ctx.PageChanged = prevHandler }()

	ctx.BeginColumnGroup()
	for i := 0; i < len(columns); i++ {
		col := columns[i]
		offset := offsets[i]
		width := widths[i]
		if col.ColSpan > 1 {
			end := i + col.ColSpan - 1
			if end >= len(columns) {
				end = len(columns) - 1
			}
			width = offsets[end] + widths[end] - offset
			i = end
		}

		endingCell, err := spanEndingCell(col, i, tableBody, rowIndex)
		if err != nil {
			ctx.CompleteColumnGroup(height)
			return pageBreaks, positions, err
		}

		ctx.BeginColumn(width, offset, endingCell)
		if col.Kind != document.KindColumnSpan {
			if err := b.processNode(col); err != nil {
				ctx.CompleteColumnGroup(height)
				return pageBreaks, positions, err
			}
			positions = append(positions, col.Positions...)
		} else if col.ColumnEnding != nil {
			// Terminating placeholder of a row span: restore the
			// spanning cell's true ending as this column's ending.
			ctx.MarkEnding(col)
		}
	}
	ctx.CompleteColumnGroup(height)
	return pageBreaks, positions, nil
}

// spanEndingCell resolves the placeholder that terminates a row span:
// the cell at tableBody[row+rowSpan-1][col]. A span reaching past the
// table body is a configuration error.
func spanEndingCell(col *document.Node, colIndex int, tableBody [][]*document.Node, rowIndex int) (*document.Node, error) {
	if col.RowSpan <= 1 || tableBody == nil {
		return nil, nil
	}
	endRow := rowIndex + col.RowSpan - 1
	if endRow >= len(tableBody) {
		return nil, &ConfigurationError{Column: colIndex, Reason: "row span exceeds row count"}
	}
	return tableBody[endRow][colIndex], nil
}
