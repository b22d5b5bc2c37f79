package layout

import (
	"fmt"

	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/measure"
)

// Static wraps a fixed tree as a NodeSource. Every page receives an
// independent clone so one page's layout cannot leak into the next.
func Static(node *document.Node) NodeSource {
	return func(pageNumber, pageCount int, pageSize PageSize) *document.Node {
		return node.Clone()
	}
}

// addRepeatables composites background, header and footer onto every
// page after the main flow has converged. Each runs as an isolated
// sub-traversal inside an unbreakable block pasted at a fixed offset;
// backgrounds are prepended so they render beneath the page content.
func (b *Builder) addRepeatables() error {
	if b.background == nil && b.header == nil && b.footer == nil {
		return nil
	}
	pageCount := len(b.ctx.Pages)
	for i := 0; i < pageCount; i++ {
		size := b.ctx.Pages[i].Size
		if b.background != nil {
			if err := b.addRepeatable(b.background, i, pageCount, 0, 0, size.Width, size.Height, true); err != nil {
				return fmt.Errorf("background page %d: %w", i+1, err)
			}
		}
		if b.header != nil {
			if err := b.addRepeatable(b.header, i, pageCount, 0, 0, size.Width, b.margins.Top, false); err != nil {
				return fmt.Errorf("header page %d: %w", i+1, err)
			}
		}
		if b.footer != nil {
			if err := b.addRepeatable(b.footer, i, pageCount, 0, size.Height-b.margins.Bottom, size.Width, b.margins.Bottom, false); err != nil {
				return fmt.Errorf("footer page %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// addRepeatable lays out one page's worth of repeatable content in a
// detached unbreakable region and pastes it at (x, y) on page index i.
func (b *Builder) addRepeatable(source NodeSource, pageIndex, pageCount int, x, y, width, height float64, prepend bool) error {
	page := b.ctx.Pages[pageIndex]
	node := source(pageIndex+1, pageCount, page.Size)
	if node == nil {
		return nil
	}
	node = measure.Preprocess(node)
	if err := b.measurer.Measure(node, b.styleDict, b.defaults); err != nil {
		return err
	}

	b.ctx.SetPageIndex(pageIndex)
	b.writer.BeginUnbreakableBlock(width, height)
	err := b.processNode(node)
	b.writer.CommitConstrainedBlock(x, y, prepend)
	return err
}
