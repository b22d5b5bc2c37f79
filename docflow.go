// Package docflow turns declarative document descriptions into
// positioned pages. A document is a tree of nodes (text, stacks,
// columns, lists, tables, images, vector canvases); docflow measures
// it against registered fonts and flows it onto pages, handling page
// breaks, repeated table headers, per-page headers and footers,
// watermarks and tables of contents.
package docflow

import (
	"fmt"

	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/fonts"
	"github.com/wudi/docflow/layout"
	"github.com/wudi/docflow/measure"
)

// Document bundles content, styles and fonts for one layout run.
type Document struct {
	// Content is the root node of the document body.
	Content *document.Node

	// Styles maps style names referenced by nodes to their definitions.
	Styles map[string]*document.Style

	// Defaults overrides the built-in default style for the whole
	// document.
	Defaults *document.Style

	// Images resolves image references to binary content. Nil selects
	// the default resolver (data URIs and local files).
	Images measure.ImageResolver

	fonts *fonts.Store
	opts  []layout.Option
}

// New creates a document that will lay out against the given font
// store. Layout options (page size, margins, headers, footers,
// watermark, page break predicate, logger) are forwarded to the
// builder.
func New(store *fonts.Store, opts ...layout.Option) *Document {
	return &Document{fonts: store, opts: opts}
}

// FromValue sets the content from a loosely typed value, as decoded
// from JSON or returned by a script.
func (d *Document) FromValue(v interface{}) error {
	node, err := measure.FromValue(v)
	if err != nil {
		return err
	}
	d.Content = node
	return nil
}

// FromJSONValue converts a decoded JSON value into a node tree.
func FromJSONValue(v interface{}) (*document.Node, error) {
	return measure.FromValue(v)
}

// Layout measures the content and flows it onto pages. The returned
// pages hold positioned lines and vectors ready for a rendering
// backend.
func (d *Document) Layout() ([]*layout.Page, error) {
	if d.Content == nil {
		return nil, fmt.Errorf("docflow: document has no content")
	}
	root := measure.Preprocess(d.Content)

	measurer := measure.NewMeasurer(d.fonts)
	if d.Images != nil {
		measurer.Images = d.Images
	}
	if err := measurer.Measure(root, d.Styles, d.Defaults); err != nil {
		return nil, err
	}

	builder := layout.NewBuilder(d.fonts, d.opts...)
	return builder.LayoutDocument(root, d.Styles, d.Defaults)
}
