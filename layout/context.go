package layout

import "github.com/wudi/docflow/document"

// DocumentContext owns the page list and the cursor during one layout
// attempt. Exactly one traversal writes through it at a time.
type DocumentContext struct {
	Pages []*Page

	pageSize    PageSize // base size for newly created pages
	pageMargins Margins

	X, Y            float64
	AvailableWidth  float64
	AvailableHeight float64

	page int // current page index, -1 before the first page exists

	// PageChanged is invoked whenever the active page advances while
	// it is set. The row processor installs it for the duration of a
	// row to aggregate mid-row page breaks.
	PageChanged func(document.PageBreakInfo)

	snapshots  []*columnSnapshot
	endingCell *document.Node

	// unbounded marks a transaction context used for unbreakable
	// blocks: a single oversized page that never advances.
	unbounded bool
}

type columnSnapshot struct {
	x, y            float64
	availableWidth  float64
	availableHeight float64
	page            int

	bottomMostPage int
	bottomMostY    float64
}

// NewDocumentContext creates a context with one empty page.
func NewDocumentContext(pageSize PageSize, margins Margins) *DocumentContext {
	c := &DocumentContext{pageSize: pageSize, pageMargins: margins, page: -1}
	c.addPage(pageSize)
	return c
}

// newTransactionContext creates the detached context an unbreakable
// block is laid out in: origin at (0,0), a given width and effectively
// unlimited height.
func newTransactionContext(width, height float64) *DocumentContext {
	if height <= 0 {
		height = unboundedHeight
	}
	c := &DocumentContext{
		pageSize:  PageSize{Width: width, Height: height},
		page:      -1,
		unbounded: true,
	}
	c.addPage(c.pageSize)
	return c
}

const unboundedHeight = 1e9

func (c *DocumentContext) addPage(size PageSize) *Page {
	page := &Page{Size: size}
	c.Pages = append(c.Pages, page)
	c.page = len(c.Pages) - 1
	c.X = c.pageMargins.Left
	c.Y = c.pageMargins.Top
	c.AvailableWidth = size.Width - c.pageMargins.Left - c.pageMargins.Right
	c.AvailableHeight = size.Height - c.pageMargins.Top - c.pageMargins.Bottom
	return page
}

// CurrentPage returns the page the cursor is on.
func (c *DocumentContext) CurrentPage() *Page {
	if c.page < 0 || c.page >= len(c.Pages) {
		return nil
	}
	return c.Pages[c.page]
}

// PageIndex returns the current 0-based page index.
func (c *DocumentContext) PageIndex() int { return c.page }

// SetPageIndex moves the cursor to the top of an existing page. Used
// by the repeatable compositor to revisit pages.
func (c *DocumentContext) SetPageIndex(i int) {
	c.page = i
	size := c.Pages[i].Size
	c.X = c.pageMargins.Left
	c.Y = c.pageMargins.Top
	c.AvailableWidth = size.Width - c.pageMargins.Left - c.pageMargins.Right
	c.AvailableHeight = size.Height - c.pageMargins.Top - c.pageMargins.Bottom
}

// MoveDown advances the vertical cursor.
func (c *DocumentContext) MoveDown(offset float64) {
	c.Y += offset
	c.AvailableHeight -= offset
}

// AddMargin shifts the horizontal cursor and shrinks the available
// width. Negative values undo an earlier call.
func (c *DocumentContext) AddMargin(left, right float64) {
	c.X += left
	c.AvailableWidth -= left + right
}

// MoveTo places the cursor at an absolute position on the current
// page, recomputing the available extent from the page edges.
func (c *DocumentContext) MoveTo(x, y float64) {
	c.X = x
	c.Y = y
	size := c.CurrentPage().Size
	c.AvailableWidth = size.Width - x
	c.AvailableHeight = size.Height - y
}

// BeginDetachedBlock saves the cursor for a geometrically detached
// (absolutely or relatively positioned) region.
func (c *DocumentContext) BeginDetachedBlock() {
	c.snapshots = append(c.snapshots, &columnSnapshot{
		x:               c.X,
		y:               c.Y,
		availableWidth:  c.AvailableWidth,
		availableHeight: c.AvailableHeight,
		page:            c.page,
	})
}

// EndDetachedBlock restores the cursor saved by BeginDetachedBlock; a
// detached region never advances normal flow.
func (c *DocumentContext) EndDetachedBlock() {
	s := c.snapshots[len(c.snapshots)-1]
	c.snapshots = c.snapshots[:len(c.snapshots)-1]
	c.X, c.Y = s.x, s.y
	c.AvailableWidth, c.AvailableHeight = s.availableWidth, s.availableHeight
	c.page = s.page
}

// BeginColumnGroup opens a row of columns sharing the current origin.
func (c *DocumentContext) BeginColumnGroup() {
	c.snapshots = append(c.snapshots, &columnSnapshot{
		x:               c.X,
		y:               c.Y,
		availableWidth:  c.AvailableWidth,
		availableHeight: c.AvailableHeight,
		page:            c.page,
		bottomMostPage:  c.page,
		bottomMostY:     c.Y,
	})
}

// BeginColumn positions the cursor for the next column of the open
// group. endingCell, when non-nil, receives the cursor state at the
// end of this column so a row-span's terminating placeholder can
// recover it rows later.
func (c *DocumentContext) BeginColumn(width, offset float64, endingCell *document.Node) {
	c.saveEndOfColumn()
	s := c.snapshots[len(c.snapshots)-1]
	c.endingCell = endingCell
	c.page = s.page
	c.X = s.x + offset
	c.Y = s.y
	c.AvailableWidth = width
	c.AvailableHeight = s.availableHeight
}

// saveEndOfColumn folds the finished column's ending into the group's
// bottom-most tracking and, for spanning cells, into the ending cell.
func (c *DocumentContext) saveEndOfColumn() {
	if len(c.snapshots) == 0 {
		return
	}
	s := c.snapshots[len(c.snapshots)-1]
	if c.endingCell != nil {
		c.endingCell.ColumnEnding = &document.ColumnEnding{
			Page:            c.page,
			X:               c.X,
			Y:               c.Y,
			AvailableWidth:  c.AvailableWidth,
			AvailableHeight: c.AvailableHeight,
		}
		c.endingCell = nil
		return
	}
	if c.page > s.bottomMostPage || (c.page == s.bottomMostPage && c.Y > s.bottomMostY) {
		s.bottomMostPage = c.page
		s.bottomMostY = c.Y
	}
}

// MarkEnding folds a previously captured span ending back into the
// open group, as if the spanning cell had just finished in this row.
func (c *DocumentContext) MarkEnding(cell *document.Node) {
	if cell.ColumnEnding == nil {
		return
	}
	c.endingCell = nil
	c.page = cell.ColumnEnding.Page
	c.X = cell.ColumnEnding.X
	c.Y = cell.ColumnEnding.Y
	c.AvailableWidth = cell.ColumnEnding.AvailableWidth
	c.AvailableHeight = cell.ColumnEnding.AvailableHeight
	cell.ColumnEnding = nil
}

// CompleteColumnGroup closes the group, leaving the cursor under the
// bottom-most column ending. A non-zero height enforces a minimum row
// height measured from the group's origin.
func (c *DocumentContext) CompleteColumnGroup(height float64) {
	c.saveEndOfColumn()
	s := c.snapshots[len(c.snapshots)-1]
	c.snapshots = c.snapshots[:len(c.snapshots)-1]

	c.X = s.x
	c.AvailableWidth = s.availableWidth
	c.page = s.bottomMostPage
	y := s.bottomMostY
	if height > 0 && s.page == s.bottomMostPage && s.y+height > y {
		y = s.y + height
	}
	c.Y = y
	c.AvailableHeight = c.contentBottom() - y
}

// contentBottom is the lowest y content may reach on the current page.
func (c *DocumentContext) contentBottom() float64 {
	return c.CurrentPage().Size.Height - c.pageMargins.Bottom
}

// MoveToNextPage advances to the next page, creating it if needed, and
// returns the position left behind. Notifying PageChanged is the page
// writer's job: it fires only after any repeatable fragments have been
// replayed, so the reported y is where content actually resumes. The
// optional orientation applies to a newly created page only.
func (c *DocumentContext) MoveToNextPage(orientation document.Orientation) (prevPage int, prevY float64, created bool) {
	if c.unbounded {
		return c.page, c.Y, false
	}
	prevPage = c.page
	prevY = c.Y

	// The horizontal cursor and available width survive a page change
	// so a column continues at its own offset on the new page.
	if c.page+1 < len(c.Pages) {
		c.page++
	} else {
		size := c.pageSize.Orient(orientation)
		c.Pages = append(c.Pages, &Page{Size: size})
		c.page = len(c.Pages) - 1
		created = true
	}
	c.Y = c.pageMargins.Top
	c.AvailableHeight = c.CurrentPage().Size.Height - c.pageMargins.Top - c.pageMargins.Bottom
	return prevPage, prevY, created
}
