package measure

import (
	"fmt"

	"github.com/wudi/docflow/document"
)

// measureList measures every item and builds its marker: a disc vector
// for unordered lists, a formatted "n." run for ordered ones. The
// list's gutter width is the widest marker.
func (m *Measurer) measureList(ordered bool, node *document.Node, styles *document.StyleStack) error {
	node.ListGap = 0
	for i, item := range node.Items {
		pushed := styles.AutoPush(item)
		var marker *document.Marker
		if ordered {
			marker = m.orderedMarker(i+1, styles)
		} else {
			marker = m.unorderedMarker(styles)
		}
		styles.Pop(pushed)

		item.Marker = marker
		if err := m.measureNode(item, styles); err != nil {
			return err
		}
		if marker.MinWidth > node.ListGap {
			node.ListGap = marker.MinWidth
		}
		if item.MinWidth > node.MinWidth {
			node.MinWidth = item.MinWidth
		}
		if item.MaxWidth > node.MaxWidth {
			node.MaxWidth = item.MaxWidth
		}
	}
	node.MinWidth += node.ListGap
	node.MaxWidth += node.ListGap
	return nil
}

// unorderedMarker is a filled disc scaled to the item's font size,
// vertically centered on the first line's x-height.
func (m *Measurer) unorderedMarker(styles *document.StyleStack) *document.Marker {
	size := styles.FontSize()
	radius := size / 6
	return &document.Marker{
		Vector: &document.Vector{
			Kind:  document.VectorEllipse,
			X:     radius,
			Y:     size * 0.55,
			R1:    radius,
			R2:    radius,
			Color: styles.MarkerColor(),
		},
		MinWidth: size / 1.5,
	}
}

func (m *Measurer) orderedMarker(number int, styles *document.StyleStack) *document.Marker {
	in := m.buildInline(fmt.Sprintf("%d. ", number), styles)
	return &document.Marker{Inline: in, MinWidth: in.Width}
}
