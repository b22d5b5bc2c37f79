package layout

import "github.com/wudi/docflow/document"

// PageSize is a page's extent in points plus its orientation.
type PageSize struct {
	Width       float64
	Height      float64
	Orientation document.Orientation
}

// Orient returns the size flipped, if needed, to match the requested
// orientation.
func (p PageSize) Orient(o document.Orientation) PageSize {
	if o == "" || o == p.Orientation {
		return p
	}
	return PageSize{Width: p.Height, Height: p.Width, Orientation: o}
}

// Margins are the page content margins in points.
type Margins struct {
	Left, Top, Right, Bottom float64
}

// ItemType tags a positioned primitive.
type ItemType int

const (
	ItemLine ItemType = iota
	ItemVector
	ItemImage
	ItemQR
)

// Item is one positioned primitive on a page, in emission order.
type Item struct {
	Type   ItemType
	Line   *Line
	Vector *document.Vector
	Node   *document.Node // image and QR items
	X, Y   float64
}

// Watermark is the page-wide diagonal text applied to every page.
type Watermark struct {
	Text     string
	Font     string
	FontSize float64
	Color    string
	Opacity  float64
	Bold     bool
	Italics  bool

	// Measured extent at FontSize.
	Width  float64
	Height float64
}

// Page is one laid-out page: its size and the primitives placed on it.
type Page struct {
	Size      PageSize
	Items     []Item
	Watermark *Watermark
}
