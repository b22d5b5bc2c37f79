package layout

import "github.com/wudi/docflow/document"

// ElementWriter emits primitives into a document context. It performs
// the fit check against the available height; retrying on the next
// page is the PageElementWriter's concern.
type ElementWriter struct {
	ctx *DocumentContext

	// LineHandler, when set, observes every successfully placed line.
	// The list processor installs it for the duration of an item's
	// subtree so the item's marker can attach to the first line.
	LineHandler func(*Line)
}

// NewElementWriter wraps a context.
func NewElementWriter(ctx *DocumentContext) *ElementWriter {
	return &ElementWriter{ctx: ctx}
}

// Context returns the context currently written into.
func (w *ElementWriter) Context() *DocumentContext { return w.ctx }

// SetContext switches the target context (unbreakable transactions).
func (w *ElementWriter) SetContext(ctx *DocumentContext) { w.ctx = ctx }

// AddLine places a line at the cursor. It reports false without side
// effects when the line does not fit, unless ignoreFit is set. When
// dontUpdateContext is set, the cursor is left untouched (markers).
func (w *ElementWriter) AddLine(line *Line, dontUpdateContext, ignoreFit bool) (*document.Position, bool) {
	height := line.Height()
	ctx := w.ctx
	page := ctx.CurrentPage()
	if page == nil || (!ignoreFit && height > ctx.AvailableHeight) {
		return nil, false
	}

	x := ctx.X + line.XOffset + w.alignOffset(line)
	y := ctx.Y + line.YOffset
	line.PageNumber = ctx.page
	page.Items = append(page.Items, Item{Type: ItemLine, Line: line, X: x, Y: y})

	pos := w.position(x, y)
	// The handler runs before the cursor advances so anything it emits
	// (a list marker) aligns with the line's top edge.
	if w.LineHandler != nil {
		w.LineHandler(line)
	}
	if !dontUpdateContext {
		ctx.MoveDown(height)
	}
	return pos, true
}

func (w *ElementWriter) alignOffset(line *Line) float64 {
	free := w.ctx.AvailableWidth - line.Width()
	if free <= 0 {
		return 0
	}
	switch line.Alignment {
	case "right":
		return free
	case "center":
		return free / 2
	default:
		return 0
	}
}

// AddImage places an image node at the cursor and advances past it.
func (w *ElementWriter) AddImage(node *document.Node) (*document.Position, bool) {
	ctx := w.ctx
	if ctx.CurrentPage() == nil || node.Height > ctx.AvailableHeight {
		return nil, false
	}
	x := ctx.X + w.alignBoxOffset(node)
	y := ctx.Y
	ctx.CurrentPage().Items = append(ctx.CurrentPage().Items, Item{Type: ItemImage, Node: node, X: x, Y: y})
	pos := w.position(x, y)
	ctx.MoveDown(node.Height)
	return pos, true
}

// AddQR places a QR block at the cursor and advances past it.
func (w *ElementWriter) AddQR(node *document.Node) (*document.Position, bool) {
	ctx := w.ctx
	if ctx.CurrentPage() == nil || node.Height > ctx.AvailableHeight {
		return nil, false
	}
	x := ctx.X + w.alignBoxOffset(node)
	y := ctx.Y
	ctx.CurrentPage().Items = append(ctx.CurrentPage().Items, Item{Type: ItemQR, Node: node, X: x, Y: y})
	pos := w.position(x, y)
	ctx.MoveDown(node.Height)
	return pos, true
}

func (w *ElementWriter) alignBoxOffset(node *document.Node) float64 {
	free := w.ctx.AvailableWidth - node.Width
	if free <= 0 {
		return 0
	}
	switch node.Alignment {
	case "right":
		return free
	case "center":
		return free / 2
	default:
		return 0
	}
}

// AddVector offsets a vector by the cursor (unless told to ignore an
// axis) and records it. Vectors never advance the cursor and never
// fail the fit check.
func (w *ElementWriter) AddVector(vector *document.Vector, ignoreContextX, ignoreContextY bool) *document.Position {
	ctx := w.ctx
	dx, dy := ctx.X, ctx.Y
	if ignoreContextX {
		dx = 0
	}
	if ignoreContextY {
		dy = 0
	}
	vector.Offset(dx, dy)
	ctx.CurrentPage().Items = append(ctx.CurrentPage().Items, Item{Type: ItemVector, Vector: vector, X: dx, Y: dy})
	return w.position(dx, dy)
}

// InsertVector behaves like AddVector but splices the vector at the
// given item index so fills render beneath the content above them.
func (w *ElementWriter) InsertVector(vector *document.Vector, index int) *document.Position {
	ctx := w.ctx
	page := ctx.CurrentPage()
	if index < 0 || index > len(page.Items) {
		index = len(page.Items)
	}
	item := Item{Type: ItemVector, Vector: vector}
	page.Items = append(page.Items, Item{})
	copy(page.Items[index+1:], page.Items[index:])
	page.Items[index] = item
	return w.position(vector.X, vector.Y)
}

// AddFragment pastes a block of already laid-out items at the cursor
// and advances past its height. It reports false when the fragment
// does not fit, unless ignoreFit is set.
func (w *ElementWriter) AddFragment(items []Item, height float64, ignoreFit bool) (float64, float64, bool) {
	ctx := w.ctx
	if !ignoreFit && height > ctx.AvailableHeight {
		return 0, 0, false
	}
	x, y := ctx.X, ctx.Y
	w.pasteFragment(items, x, y, false)
	ctx.MoveDown(height)
	return x, y, true
}

// PasteFragmentAt places a block at a fixed page offset without
// touching the cursor. Background fragments are prepended so they
// render beneath the page's content.
func (w *ElementWriter) PasteFragmentAt(items []Item, x, y float64, prepend bool) {
	w.pasteFragment(items, x, y, prepend)
}

func (w *ElementWriter) pasteFragment(items []Item, x, y float64, prepend bool) {
	page := w.ctx.CurrentPage()
	moved := make([]Item, len(items))
	for i, item := range items {
		item.X += x
		item.Y += y
		if item.Vector != nil {
			item.Vector.Offset(x, y)
		}
		if item.Line != nil {
			item.Line.PageNumber = w.ctx.page
		}
		moved[i] = item
	}
	if prepend {
		page.Items = append(moved, page.Items...)
	} else {
		page.Items = append(page.Items, moved...)
	}
}

func (w *ElementWriter) position(x, y float64) *document.Position {
	return &document.Position{
		PageNumber:      w.ctx.page,
		PageOrientation: w.ctx.CurrentPage().Size.Orientation,
		X:               x,
		Y:               y,
	}
}
