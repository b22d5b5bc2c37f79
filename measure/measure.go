// Package measure annotates a document tree with the intrinsic
// geometry the layout engine consumes: inline text runs with measured
// widths, min/max node widths, table column bounds, list markers and
// image sizes. It also resolves declared column widths against an
// available width.
package measure

import (
	"fmt"
	"strconv"

	"github.com/wudi/docflow/document"
)

// Metrics is the text measurement contract. fonts.Store implements it.
type Metrics interface {
	WidthOf(text, fontName string, size, characterSpacing float64) float64
	LineMetrics(fontName string, size float64) (height, ascender, descender float64)
}

// tocEntry is a leaf registered into a table of contents.
type tocEntry struct {
	title string
	node  *document.Node
}

// Measurer runs the measurement pass. One Measurer may be reused
// sequentially; it is not safe for concurrent use.
type Measurer struct {
	metrics Metrics

	// Images resolves an image reference to its binary content. The
	// default reads data URIs and local files.
	Images ImageResolver

	tocNodes []*document.Node
	tocItems map[string][]tocEntry
}

// NewMeasurer builds a measurer over the given metrics.
func NewMeasurer(metrics Metrics) *Measurer {
	return &Measurer{metrics: metrics, Images: DefaultImageResolver}
}

// Measure annotates root and its subtree in place. The tree must have
// been preprocessed.
func (m *Measurer) Measure(root *document.Node, styleDict map[string]*document.Style, defaults *document.Style) error {
	m.tocNodes = m.tocNodes[:0]
	m.tocItems = make(map[string][]tocEntry)
	styles := document.NewStyleStack(styleDict, defaults)
	if err := m.measureNode(root, styles); err != nil {
		return err
	}
	return m.buildTOCs(styles)
}

func (m *Measurer) measureNode(node *document.Node, styles *document.StyleStack) error {
	pushed := styles.AutoPush(node)
	defer styles.Pop(pushed)

	var err error
	switch node.Kind {
	case document.KindText:
		m.measureText(node, styles)
	case document.KindStack:
		err = m.measureStack(node, styles)
	case document.KindColumns:
		err = m.measureColumns(node, styles)
	case document.KindOrderedList:
		err = m.measureList(true, node, styles)
	case document.KindUnorderedList:
		err = m.measureList(false, node, styles)
	case document.KindTable:
		err = m.measureTable(node, styles)
	case document.KindTOC:
		err = m.measureTOC(node, styles)
	case document.KindImage:
		err = m.measureImage(node, styles)
	case document.KindCanvas:
		m.measureCanvas(node)
	case document.KindQR:
		err = m.measureQR(node, styles)
	case document.KindColumnSpan:
		// placeholders have no intrinsic extent
	default:
		err = fmt.Errorf("measure: unrecognized node: %s", node.Snapshot())
	}
	if err != nil {
		return err
	}

	// Margins widen the node's horizontal demands.
	if node.Margin != [4]float64{} {
		extra := node.Margin[0] + node.Margin[2]
		node.MinWidth += extra
		node.MaxWidth += extra
	}
	return nil
}

func (m *Measurer) measureStack(node *document.Node, styles *document.StyleStack) error {
	for _, child := range node.Children {
		if err := m.measureNode(child, styles); err != nil {
			return err
		}
		if child.MinWidth > node.MinWidth {
			node.MinWidth = child.MinWidth
		}
		if child.MaxWidth > node.MaxWidth {
			node.MaxWidth = child.MaxWidth
		}
	}
	return nil
}

func (m *Measurer) measureColumns(node *document.Node, styles *document.StyleStack) error {
	gaps := node.Gap * float64(max(len(node.Columns)-1, 0))
	node.MinWidth = gaps
	node.MaxWidth = gaps
	for _, col := range node.Columns {
		if err := m.measureNode(col, styles); err != nil {
			return err
		}
		node.MinWidth += col.MinWidth
		node.MaxWidth += col.MaxWidth
	}
	return nil
}

func (m *Measurer) measureTOC(node *document.Node, styles *document.StyleStack) error {
	t := node.TOC
	if t == nil {
		return nil
	}
	if t.Title != nil {
		if err := m.measureNode(t.Title, styles); err != nil {
			return err
		}
	}
	// The entry table is generated and measured after the whole tree
	// has been walked, once all entries are registered.
	m.tocNodes = append(m.tocNodes, node)
	return nil
}

// buildTOCs generates and measures the entry table of every table of
// contents encountered during the walk.
func (m *Measurer) buildTOCs(styles *document.StyleStack) error {
	for _, node := range m.tocNodes {
		t := node.TOC
		entries := m.tocItems[t.ID]
		body := make([][]*document.Node, 0, len(entries))
		refCells := make([]*document.Node, 0, len(entries))
		for _, e := range entries {
			titleCell := &document.Node{Kind: document.KindText, Text: e.title}
			refCell := &document.Node{
				Kind:  document.KindText,
				Text:  "00",
				Props: &document.Style{Alignment: "right"},
			}
			refCells = append(refCells, refCell)
			body = append(body, []*document.Node{titleCell, refCell})
		}
		noLines := func(i, n int) float64 { return 0 }
		t.Table = &document.Node{
			Kind: document.KindTable,
			Table: &document.Table{
				Body:       body,
				WidthSpecs: []string{"*", "auto"},
				Layout: &document.TableLayout{
					HLineWidth:    noLines,
					VLineWidth:    noLines,
					PaddingLeft:   func(int) float64 { return 0 },
					PaddingRight:  func(int) float64 { return 0 },
					PaddingTop:    func(int) float64 { return 0 },
					PaddingBottom: func(int) float64 { return 0 },
				},
			},
		}
		if err := m.measureNode(t.Table, styles); err != nil {
			return err
		}
		// Wire the page references after measuring so the placeholder
		// width is already on the inline.
		for i, refCell := range refCells {
			if len(refCell.Inlines) > 0 {
				refCell.Inlines[0].PageRef = entries[i].node
			}
		}
	}
	return nil
}

func parseFixedWidth(spec string) (float64, bool) {
	if spec == "" || spec == "*" || spec == "auto" {
		return 0, false
	}
	v, err := strconv.ParseFloat(spec, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
