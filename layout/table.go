package layout

import (
	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/measure"
)

// DefaultTableLayout holds the decoration defaults: 1pt black grid
// lines, 4pt horizontal and 2pt vertical cell padding, no fill.
var DefaultTableLayout = document.TableLayout{
	HLineWidth:    func(i, rowCount int) float64 { return 1 },
	VLineWidth:    func(i, colCount int) float64 { return 1 },
	HLineColor:    func(i int) string { return "black" },
	VLineColor:    func(i int) string { return "black" },
	FillColor:     func(row, col int) string { return "" },
	PaddingLeft:   func(col int) float64 { return 4 },
	PaddingRight:  func(col int) float64 { return 4 },
	PaddingTop:    func(row int) float64 { return 2 },
	PaddingBottom: func(row int) float64 { return 2 },
}

// resolvedLayout is a table layout with every nil function replaced by
// its default.
type resolvedLayout struct {
	document.TableLayout
}

func resolveLayout(l *document.TableLayout) resolvedLayout {
	r := resolvedLayout{DefaultTableLayout}
	if l == nil {
		return r
	}
	if l.HLineWidth != nil {
		r.HLineWidth = l.HLineWidth
	}
	if l.VLineWidth != nil {
		r.VLineWidth = l.VLineWidth
	}
	if l.HLineColor != nil {
		r.HLineColor = l.HLineColor
	}
	if l.VLineColor != nil {
		r.VLineColor = l.VLineColor
	}
	if l.FillColor != nil {
		r.FillColor = l.FillColor
	}
	if l.PaddingLeft != nil {
		r.PaddingLeft = l.PaddingLeft
	}
	if l.PaddingRight != nil {
		r.PaddingRight = l.PaddingRight
	}
	if l.PaddingTop != nil {
		r.PaddingTop = l.PaddingTop
	}
	if l.PaddingBottom != nil {
		r.PaddingBottom = l.PaddingBottom
	}
	return r
}

// processTable iterates the table body row by row, delegating border,
// fill and header-repetition bookkeeping to the table processor.
func (b *Builder) processTable(node *document.Node) error {
	if node.Table == nil || len(node.Table.Body) == 0 {
		return nil
	}
	proc := newTableProcessor(b, node)
	proc.beginTable()
	body := node.Table.Body
	for i := range body {
		proc.beginRow(i)
		height := node.Table.Heights.For(i)
		breaks, positions, err := b.processRow(body[i], proc.widths, proc.offsets, body, i, height)
		if err != nil {
			return err
		}
		node.Positions = append(node.Positions, positions...)
		proc.endRow(i, breaks)
	}
	proc.endTable()
	return nil
}

// tableProcessor decorates one table while its rows flow through the
// row processor: grid lines and fills as vectors, repeated header rows
// as a repeatable fragment.
type tableProcessor struct {
	b      *Builder
	node   *document.Node
	table  *document.Table
	layout resolvedLayout

	colCount int
	rowCount int

	widths  []float64 // cell content widths, passed to the row processor
	offsets []float64 // content x offsets from the table's left edge

	lineXs    []float64 // x of vertical line i's left edge, i in [0, colCount]
	cellLeft  []float64 // left edge of cell box i (right of its vertical line)
	cellRight []float64 // right edge of cell box i

	// spanLeft counts the rows an open row span still covers, per
	// column; the bottom border is interrupted where it is positive.
	spanLeft []int

	rowTopY          float64
	rowStartPage     int
	rowStartX        float64
	topLineWidth     float64
	bottomLineWidth  float64
	rowPaddingTop    float64
	rowPaddingBottom float64
	reservedAtBottom float64

	// first item index per page touched by the current row, where the
	// row's fill rectangles are spliced in beneath the content
	fillMarks       map[int]int
	prevPageChanged func(document.PageBreakInfo)

	headerRepeatable *Repeatable
}

func newTableProcessor(b *Builder, node *document.Node) *tableProcessor {
	t := node.Table
	return &tableProcessor{
		b:        b,
		node:     node,
		table:    t,
		layout:   resolveLayout(t.Layout),
		colCount: len(t.Body[0]),
		rowCount: len(t.Body),
		spanLeft: make([]int, len(t.Body[0])),
	}
}

// beginTable resolves column geometry against the available width and,
// when header rows are declared, opens the unbreakable block they are
// captured from.
func (p *tableProcessor) beginTable() {
	ctx := p.b.writer.Context()

	specs := p.table.WidthSpecs
	if len(specs) == 0 {
		specs = make([]string, p.colCount)
		for i := range specs {
			specs[i] = "*"
		}
	}

	// Chrome: vertical line widths and horizontal paddings around each
	// column's content.
	chrome := p.layout.VLineWidth(p.colCount, p.colCount)
	for i := 0; i < p.colCount; i++ {
		chrome += p.layout.VLineWidth(i, p.colCount) + p.layout.PaddingLeft(i) + p.layout.PaddingRight(i)
	}

	p.widths = measure.DistributeWidths(specs, p.table.ColMin, p.table.ColMax, ctx.AvailableWidth-chrome)
	p.table.Widths = p.widths

	p.offsets = make([]float64, p.colCount)
	p.lineXs = make([]float64, p.colCount+1)
	p.cellLeft = make([]float64, p.colCount)
	p.cellRight = make([]float64, p.colCount)
	x := 0.0
	for i := 0; i < p.colCount; i++ {
		p.lineXs[i] = x
		vw := p.layout.VLineWidth(i, p.colCount)
		p.cellLeft[i] = x + vw
		p.offsets[i] = p.cellLeft[i] + p.layout.PaddingLeft(i)
		x = p.offsets[i] + p.widths[i] + p.layout.PaddingRight(i)
		p.cellRight[i] = x
	}
	p.lineXs[p.colCount] = x
	p.table.Offsets = p.offsets

	if p.table.HeaderRows > 0 {
		p.b.writer.BeginUnbreakableBlock(0, 0)
	}
}

func (p *tableProcessor) beginRow(rowIndex int) {
	ctx := p.b.writer.Context()
	p.topLineWidth = p.layout.HLineWidth(rowIndex, p.rowCount)
	p.bottomLineWidth = p.layout.HLineWidth(rowIndex+1, p.rowCount)
	p.rowPaddingTop = p.layout.PaddingTop(rowIndex)
	p.rowPaddingBottom = p.layout.PaddingBottom(rowIndex)
	p.reservedAtBottom = p.rowPaddingBottom + p.bottomLineWidth

	p.rowStartX = ctx.X
	p.rowStartPage = ctx.PageIndex()
	p.rowTopY = ctx.Y
	p.fillMarks = map[int]int{ctx.PageIndex(): len(ctx.CurrentPage().Items)}

	p.prevPageChanged = ctx.PageChanged
	ctx.PageChanged = func(info document.PageBreakInfo) {
		if p.prevPageChanged != nil {
			p.prevPageChanged(info)
		}
		// Content resumes below the top padding on the new page, and
		// the bottom reserve applies there too.
		page := ctx.PageIndex()
		if _, ok := p.fillMarks[page]; !ok {
			p.fillMarks[page] = len(ctx.CurrentPage().Items)
		}
		ctx.MoveDown(p.rowPaddingTop)
		ctx.AvailableHeight -= p.reservedAtBottom
	}

	ctx.AvailableHeight -= p.reservedAtBottom
	ctx.MoveDown(p.topLineWidth)
	ctx.MoveDown(p.rowPaddingTop)
}

// rowSegment is the portion of a row rendered on one page.
type rowSegment struct {
	page   int
	y0, y1 float64
}

func (p *tableProcessor) endRow(rowIndex int, breaks []*document.PageBreakInfo) {
	ctx := p.b.writer.Context()
	ctx.PageChanged = p.prevPageChanged

	ctx.MoveDown(p.rowPaddingBottom)
	ctx.AvailableHeight += p.reservedAtBottom
	endingPage, endingY := ctx.PageIndex(), ctx.Y

	segs := []rowSegment{{page: p.rowStartPage, y0: p.rowTopY}}
	for _, pb := range breaks {
		segs[len(segs)-1].y1 = pb.PrevY
		segs = append(segs, rowSegment{page: pb.PrevPage + 1, y0: pb.Y})
	}
	segs[len(segs)-1].y1 = endingY

	// Open or extend row spans declared by this row before deciding
	// where the bottom border may be drawn.
	row := p.table.Body[rowIndex]
	for c := 0; c < p.colCount && c < len(row); c++ {
		if row[c].RowSpan > 1 && row[c].Kind != document.KindColumnSpan {
			span := row[c].ColSpan
			if span < 1 {
				span = 1
			}
			for j := 0; j < span && c+j < p.colCount; j++ {
				p.spanLeft[c+j] = row[c].RowSpan
			}
		}
	}
	for c := range p.spanLeft {
		if p.spanLeft[c] > 0 {
			p.spanLeft[c]--
		}
	}

	for si, seg := range segs {
		ctx.page = seg.page
		first := si == 0
		last := si == len(segs)-1

		p.drawFills(rowIndex, seg)
		p.drawVerticalLines(rowIndex, seg)
		if first {
			if rowIndex == 0 && p.topLineWidth > 0 {
				p.drawHorizontalLine(rowIndex, seg.y0, seg.page, false)
			}
		} else if p.topLineWidth > 0 {
			// reopening edge of a row broken across pages
			p.drawHorizontalLine(rowIndex, seg.y0, seg.page, false)
		}
		if p.bottomLineWidth > 0 {
			// The final bottom border respects open row spans; a
			// mid-break closing edge is drawn across the full width.
			p.drawHorizontalLine(rowIndex+1, seg.y1, seg.page, last)
		}
	}
	ctx.page = endingPage
	ctx.Y = endingY

	if p.table.HeaderRows > 0 && rowIndex == p.table.HeaderRows-1 {
		p.headerRepeatable = p.b.writer.CurrentBlockToRepeatable()
		p.b.writer.CommitUnbreakableBlock()
		p.b.writer.PushRepeatable(p.headerRepeatable)
	}
}

func (p *tableProcessor) endTable() {
	if p.headerRepeatable != nil {
		p.b.writer.PopRepeatable()
	}
	p.b.writer.Context().MoveDown(p.layout.HLineWidth(p.rowCount, p.rowCount))
}

func (p *tableProcessor) drawFills(rowIndex int, seg rowSegment) {
	ew := p.b.writer.Writer()
	mark := p.fillMarks[seg.page]
	for c := 0; c < p.colCount; c++ {
		color := p.layout.FillColor(rowIndex, c)
		if color == "" {
			continue
		}
		ew.InsertVector(&document.Vector{
			Kind:  document.VectorRect,
			X:     p.rowStartX + p.cellLeft[c],
			Y:     seg.y0,
			W:     p.cellRight[c] - p.cellLeft[c],
			H:     seg.y1 - seg.y0,
			Color: color,
		}, mark)
		mark++
	}
}

func (p *tableProcessor) drawVerticalLines(rowIndex int, seg rowSegment) {
	ew := p.b.writer.Writer()
	row := p.table.Body[rowIndex]
	for j := 0; j <= p.colCount; j++ {
		width := p.layout.VLineWidth(j, p.colCount)
		if width <= 0 {
			continue
		}
		if j > 0 && j < p.colCount && colSpanCrosses(row, j) {
			continue
		}
		x := p.rowStartX + p.lineXs[j] + width/2
		ew.AddVector(&document.Vector{
			Kind:      document.VectorLine,
			X1:        x,
			Y1:        seg.y0,
			X2:        x,
			Y2:        seg.y1,
			LineWidth: width,
			LineColor: p.layout.VLineColor(j),
		}, true, true)
	}
}

// drawHorizontalLine draws grid line lineIndex at y. When spanAware is
// set, segments under still-open row spans are skipped.
func (p *tableProcessor) drawHorizontalLine(lineIndex int, y float64, page int, spanAware bool) {
	ew := p.b.writer.Writer()
	width := p.layout.HLineWidth(lineIndex, p.rowCount)
	if width <= 0 {
		return
	}
	color := p.layout.HLineColor(lineIndex)
	yMid := y + width/2

	segStart := -1
	flush := func(end int) {
		if segStart < 0 {
			return
		}
		ew.AddVector(&document.Vector{
			Kind:      document.VectorLine,
			X1:        p.rowStartX + p.lineXs[segStart],
			Y1:        yMid,
			X2:        p.rowStartX + p.lineXs[end],
			Y2:        yMid,
			LineWidth: width,
			LineColor: color,
		}, true, true)
		segStart = -1
	}
	for c := 0; c < p.colCount; c++ {
		if spanAware && p.spanLeft[c] > 0 {
			flush(c)
			continue
		}
		if segStart < 0 {
			segStart = c
		}
	}
	flush(p.colCount)
}

// colSpanCrosses reports whether boundary j lies inside a cell of the
// row that spans multiple columns.
func colSpanCrosses(row []*document.Node, j int) bool {
	for c := 0; c < len(row) && c < j; c++ {
		span := row[c].ColSpan
		if span > 1 && c+span > j {
			return true
		}
	}
	return false
}
