// Package document defines the node model consumed by the layout engine:
// a tagged tree of content nodes, the measured inline runs text leaves
// carry, and the positions the engine records while placing primitives.
package document

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	KindStack Kind = iota
	KindColumns
	KindOrderedList
	KindUnorderedList
	KindTable
	KindText
	KindTOC
	KindImage
	KindCanvas
	KindQR
	// KindColumnSpan marks a placeholder cell generated for the extra
	// rows/columns a spanning table cell occupies. Placeholders are
	// resolved by the row processor, never dispatched on their own.
	KindColumnSpan
)

func (k Kind) String() string {
	switch k {
	case KindStack:
		return "stack"
	case KindColumns:
		return "columns"
	case KindOrderedList:
		return "ol"
	case KindUnorderedList:
		return "ul"
	case KindTable:
		return "table"
	case KindText:
		return "text"
	case KindTOC:
		return "toc"
	case KindImage:
		return "image"
	case KindCanvas:
		return "canvas"
	case KindQR:
		return "qr"
	case KindColumnSpan:
		return "span"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PageBreak controls forced page advances around a node.
type PageBreak int

const (
	BreakNone PageBreak = iota
	BreakBefore
	BreakAfter
)

// Orientation of a page. The empty value inherits the current one.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Point is a coordinate pair used for absolute/relative placement.
type Point struct {
	X, Y float64
}

// Position records where a single emitted primitive landed.
type Position struct {
	PageNumber      int // 0-based page index
	PageOrientation Orientation
	X, Y            float64
}

// PageBreakInfo describes one page transition observed while laying out
// a row. Records from different columns breaking on the same previous
// page are merged into a single descriptor.
type PageBreakInfo struct {
	PrevPage int
	PrevY    float64
	Y        float64
}

// ColumnEnding captures the cursor state at the bottom of a spanning
// cell so the placeholder in the span's last row can report the cell's
// true extent.
type ColumnEnding struct {
	Page            int
	X, Y            float64
	AvailableWidth  float64
	AvailableHeight float64
}

// Inline is a single measured text run. Runs are produced by the
// measurement pass and are only mutated by the line packer when a hard
// wrap splits one run into two.
type Inline struct {
	Text             string
	Font             string
	FontSize         float64
	CharacterSpacing float64
	Color            string
	Background       string

	Width       float64
	Height      float64
	Ascender    float64
	LeadingCut  float64
	TrailingCut float64
	X           float64 // offset within the owning line, set when packed

	NoWrap    bool
	NoNewLine bool
	LineEnd   bool

	// PageRef, when set, means Text is a page-number placeholder that
	// resolves to the page of the referenced node after layout.
	PageRef *Node
}

// Clone returns a copy of the inline. Used to build the packer's
// working queue so convergence re-runs see pristine runs.
func (in *Inline) Clone() *Inline {
	c := *in
	return &c
}

// Marker is a list item's bullet or number, attached to the item's
// first produced line, offset left by MinWidth.
type Marker struct {
	Vector   *Vector
	Inline   *Inline
	MinWidth float64
}

// RowHeights resolves the height constraint of a table row. The zero
// value means "auto" (unconstrained) for every row.
type RowHeights struct {
	Constant float64
	Values   []float64
	Fn       func(row int) float64
}

// For returns the fixed height for a row, or 0 when unconstrained.
func (h RowHeights) For(row int) float64 {
	switch {
	case h.Fn != nil:
		return h.Fn(row)
	case row < len(h.Values):
		return h.Values[row]
	default:
		return h.Constant
	}
}

// Table holds a table node's body and measured geometry.
type Table struct {
	Body       [][]*Node
	HeaderRows int

	// WidthSpecs holds declared column widths: "auto", "*" or a fixed
	// number rendered as a string. Empty means one "*" per column.
	WidthSpecs []string
	Heights    RowHeights

	// Per-column intrinsic bounds, filled by the measurement pass.
	ColMin []float64
	ColMax []float64

	// Resolved geometry, filled when the table is laid out.
	Widths  []float64 // content width of each column
	Offsets []float64 // content x offset of each column from the table's left edge
	Layout  *TableLayout
}

// TableLayout configures table decoration. Nil functions fall back to
// the package defaults.
type TableLayout struct {
	HLineWidth    func(i, rowCount int) float64
	VLineWidth    func(i, colCount int) float64
	HLineColor    func(i int) string
	VLineColor    func(i int) string
	FillColor     func(row, col int) string
	PaddingLeft   func(col int) float64
	PaddingRight  func(col int) float64
	PaddingTop    func(row int) float64
	PaddingBottom func(row int) float64
}

// TOC describes a table-of-contents node: an optional title followed by
// a table generated from the registered entries.
type TOC struct {
	ID    string
	Title *Node
	Table *Node
}

// QRSpec declares a QR block. The engine sizes and positions the block;
// producing the module matrix is the rendering backend's concern.
type QRSpec struct {
	Text       string
	ECCLevel   string  // L, M, Q or H; defaults to L
	Fit        float64 // target edge length; 0 sizes from the module count
	Foreground string
	Background string

	// Measured geometry.
	Version     int
	ModuleCount int
}

// Node is one vertex of the document tree. Exactly the fields implied
// by Kind are meaningful; the rest stay at their zero values.
type Node struct {
	Kind Kind
	ID   string

	// Styling. Style names resolve against the style dictionary,
	// outermost first; Props overrides them inline.
	Style []string
	Props *Style

	Margin          [4]float64 // left, top, right, bottom
	PageBreak       PageBreak
	PageOrientation Orientation
	Unbreakable     bool
	AbsolutePosition *Point
	RelativePosition *Point

	// Variant payloads.
	Children []*Node // Stack
	Columns  []*Node // Columns
	Gap      float64 // Columns: space between adjacent columns
	Items    []*Node // lists
	Table    *Table
	Text     string
	TOC      *TOC
	Image    string
	Canvas   []*Vector
	QR       *QRSpec

	// Declared sizing.
	WidthSpec string  // "auto", "*", "" or fixed number as string
	HeightSpec float64
	MaxHeight float64
	ColSpan   int
	RowSpan   int
	TOCItem   string // register this leaf into the TOC with that id

	// Measurement outputs.
	Width     float64
	Height    float64
	MinWidth  float64
	MaxWidth  float64
	Inlines   []*Inline // Text: measured runs, preserved across layout attempts
	Alignment string
	Marker    *Marker // list items
	ListGap   float64 // lists: marker gutter width

	// Layout state, reset at the start of every traversal attempt.
	Positions       []*Position
	X, Y            float64
	ColumnEnding    *ColumnEnding
	BreakEvaluated  bool // page-break predicate already consulted

	origSaved bool
	origX     float64
	origY     float64
}

// SaveOrigin captures the node's (and any owned vector's) pre-layout
// coordinates the first time it is called. Later calls are no-ops so a
// node visited on several attempts keeps its original geometry.
func (n *Node) SaveOrigin() {
	if !n.origSaved {
		n.origSaved = true
		n.origX, n.origY = n.X, n.Y
	}
	for _, v := range n.Canvas {
		v.SaveOrigin()
	}
}

// ResetXY restores the coordinates captured by SaveOrigin and clears
// per-attempt layout state, so a re-run starts from a state
// indistinguishable from the initial one.
func (n *Node) ResetXY() {
	if n.origSaved {
		n.X, n.Y = n.origX, n.origY
	}
	for _, v := range n.Canvas {
		v.ResetXY()
	}
	n.Positions = nil
	n.ColumnEnding = nil
}

// PageNumbers returns the distinct, ordered page indexes the node's
// positions touch.
func (n *Node) PageNumbers() []int {
	var pages []int
	seen := map[int]bool{}
	for _, p := range n.Positions {
		if !seen[p.PageNumber] {
			seen[p.PageNumber] = true
			pages = append(pages, p.PageNumber)
		}
	}
	return pages
}

// Snapshot renders a compact description of the node for error
// messages.
func (n *Node) Snapshot() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "{kind: %s", n.Kind)
	if n.ID != "" {
		fmt.Fprintf(&b, ", id: %q", n.ID)
	}
	if n.Text != "" {
		text := n.Text
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		fmt.Fprintf(&b, ", text: %q", text)
	}
	switch {
	case len(n.Children) > 0:
		fmt.Fprintf(&b, ", children: %d", len(n.Children))
	case len(n.Columns) > 0:
		fmt.Fprintf(&b, ", columns: %d", len(n.Columns))
	case len(n.Items) > 0:
		fmt.Fprintf(&b, ", items: %d", len(n.Items))
	case n.Table != nil:
		fmt.Fprintf(&b, ", rows: %d", len(n.Table.Body))
	}
	b.WriteString("}")
	return b.String()
}
