package layout

import "github.com/wudi/docflow/document"

// Repeatable is a laid-out fragment re-emitted at the top of every
// page opened while it is registered (repeated table headers).
// XOffset pins the fragment to the x it was captured at, regardless of
// the cursor's column offset when the page turns.
type Repeatable struct {
	Items   []Item
	Height  float64
	XOffset float64
}

// PageElementWriter wraps an ElementWriter with page-advance retry,
// unbreakable-block transactions and header repetition.
type PageElementWriter struct {
	writer *ElementWriter
	base   *DocumentContext

	transaction      *DocumentContext
	transactionLevel int
	// positions recorded while a transaction is open; remapped onto
	// the final page coordinates when the block commits.
	pending []*document.Position

	repeatables []*Repeatable
}

// NewPageElementWriter builds a writer over the given context.
func NewPageElementWriter(ctx *DocumentContext) *PageElementWriter {
	return &PageElementWriter{writer: NewElementWriter(ctx), base: ctx}
}

// Writer exposes the inner element writer for callers that must not
// trigger a page advance (list markers).
func (pw *PageElementWriter) Writer() *ElementWriter { return pw.writer }

// Context returns the context currently written into.
func (pw *PageElementWriter) Context() *DocumentContext { return pw.writer.Context() }

// BaseContext returns the real page context regardless of any open
// transaction.
func (pw *PageElementWriter) BaseContext() *DocumentContext { return pw.base }

func (pw *PageElementWriter) inTransaction() bool { return pw.transactionLevel > 0 }

// AddLine emits a line, moving to the next page once if it does not
// fit. A line taller than a whole page is placed anyway rather than
// dropped.
func (pw *PageElementWriter) AddLine(line *Line) *document.Position {
	pos, ok := pw.writer.AddLine(line, false, false)
	if !ok {
		pw.MoveToNextPage("")
		pos, ok = pw.writer.AddLine(line, false, false)
		if !ok {
			pos, _ = pw.writer.AddLine(line, false, true)
		}
	}
	pw.track(pos)
	return pos
}

// AddImage emits an image node with the same retry rule as AddLine.
func (pw *PageElementWriter) AddImage(node *document.Node) *document.Position {
	pos, ok := pw.writer.AddImage(node)
	if !ok {
		pw.MoveToNextPage("")
		pos, _ = pw.writer.AddImage(node)
	}
	pw.track(pos)
	return pos
}

// AddQR emits a QR block with the same retry rule as AddLine.
func (pw *PageElementWriter) AddQR(node *document.Node) *document.Position {
	pos, ok := pw.writer.AddQR(node)
	if !ok {
		pw.MoveToNextPage("")
		pos, _ = pw.writer.AddQR(node)
	}
	pw.track(pos)
	return pos
}

// AddVector emits a vector at the cursor.
func (pw *PageElementWriter) AddVector(vector *document.Vector, ignoreContextX, ignoreContextY bool) *document.Position {
	pos := pw.writer.AddVector(vector, ignoreContextX, ignoreContextY)
	pw.track(pos)
	return pos
}

func (pw *PageElementWriter) track(pos *document.Position) {
	if pos != nil && pw.inTransaction() {
		pw.pending = append(pw.pending, pos)
	}
}

// MoveToNextPage advances the real context, replays any registered
// repeatables at the top of the new page and only then reports the
// transition through PageChanged, so the recorded resume-y sits below
// the repeated fragments. Inside a transaction the oversized page
// never advances.
func (pw *PageElementWriter) MoveToNextPage(orientation document.Orientation) {
	if pw.inTransaction() {
		return
	}
	prevPage, prevY, created := pw.base.MoveToNextPage(orientation)
	for _, rep := range pw.repeatables {
		if created {
			pw.writer.PasteFragmentAt(cloneItems(rep.Items), rep.XOffset, pw.base.Y, false)
		}
		pw.base.MoveDown(rep.Height)
	}
	if pw.base.PageChanged != nil {
		pw.base.PageChanged(document.PageBreakInfo{PrevPage: prevPage, PrevY: prevY, Y: pw.base.Y})
	}
}

// BeginUnbreakableBlock redirects writing into a transaction context:
// a single page of the given width (0 means the current available
// width) and effectively unlimited height. Nested calls share the
// outermost transaction.
func (pw *PageElementWriter) BeginUnbreakableBlock(width, height float64) {
	if pw.transactionLevel == 0 {
		if width <= 0 {
			width = pw.base.AvailableWidth
		}
		pw.transaction = newTransactionContext(width, height)
		pw.pending = nil
		pw.writer.SetContext(pw.transaction)
	}
	pw.transactionLevel++
}

// CommitUnbreakableBlock closes the transaction and pastes its page
// onto the real context as one unbreakable fragment, advancing to the
// next page first when it does not fit. Pending positions are remapped
// onto the final page coordinates.
func (pw *PageElementWriter) CommitUnbreakableBlock() {
	items, height := pw.endTransaction()
	if len(items) == 0 {
		return
	}
	if height > pw.base.AvailableHeight {
		pw.MoveToNextPage("")
	}
	x, y, ok := pw.writer.AddFragment(items, height, false)
	if !ok {
		// Taller than a whole page: still assigned a single page.
		x, y, _ = pw.writer.AddFragment(items, height, true)
	}
	pw.remapPending(x, y)
}

// CommitConstrainedBlock closes the transaction and pastes its page at
// a fixed offset on the current page without advancing the cursor.
// Backgrounds are prepended so they render beneath the page content.
func (pw *PageElementWriter) CommitConstrainedBlock(x, y float64, prepend bool) {
	items, _ := pw.endTransaction()
	if len(items) == 0 {
		return
	}
	pw.writer.PasteFragmentAt(items, x, y, prepend)
	pw.remapPending(x, y)
}

func (pw *PageElementWriter) endTransaction() ([]Item, float64) {
	pw.transactionLevel--
	if pw.transactionLevel > 0 {
		return nil, 0
	}
	tc := pw.transaction
	pw.transaction = nil
	pw.writer.SetContext(pw.base)
	if tc == nil || len(tc.Pages) == 0 {
		return nil, 0
	}
	return tc.Pages[0].Items, tc.Y
}

func (pw *PageElementWriter) remapPending(x, y float64) {
	for _, pos := range pw.pending {
		pos.PageNumber = pw.base.page
		pos.PageOrientation = pw.base.CurrentPage().Size.Orientation
		pos.X += x
		pos.Y += y
	}
	pw.pending = nil
}

// CurrentBlockToRepeatable snapshots the open transaction as a
// repeatable fragment (the table header rows laid out so far).
func (pw *PageElementWriter) CurrentBlockToRepeatable() *Repeatable {
	if pw.transaction == nil || len(pw.transaction.Pages) == 0 {
		return nil
	}
	return &Repeatable{
		Items:   cloneItems(pw.transaction.Pages[0].Items),
		Height:  pw.transaction.Y,
		XOffset: pw.base.X,
	}
}

// PushRepeatable registers a fragment for replay on every new page;
// PopRepeatable removes the most recent one.
func (pw *PageElementWriter) PushRepeatable(rep *Repeatable) {
	if rep != nil {
		pw.repeatables = append(pw.repeatables, rep)
	}
}

func (pw *PageElementWriter) PopRepeatable() {
	if len(pw.repeatables) > 0 {
		pw.repeatables = pw.repeatables[:len(pw.repeatables)-1]
	}
}

// cloneItems deep-copies items so replayed fragments do not share
// mutable vectors or lines with the originals.
func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		if item.Vector != nil {
			item.Vector = item.Vector.Clone()
		}
		if item.Line != nil {
			line := *item.Line
			item.Line = &line
		}
		out[i] = item
	}
	return out
}
