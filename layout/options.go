package layout

import (
	"github.com/wudi/docflow/measure"
	"github.com/wudi/docflow/observability"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger layout passes are reported through.
func WithLogger(l observability.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithPageSize sets the base page size for new pages.
func WithPageSize(size PageSize) Option {
	return func(b *Builder) { b.pageSize = size }
}

// WithPageMargins sets the page content margins.
func WithPageMargins(m Margins) Option {
	return func(b *Builder) { b.margins = m }
}

// WithPageBreakPredicate enables the page-break convergence loop.
func WithPageBreakPredicate(p PageBreakPredicate) Option {
	return func(b *Builder) { b.predicate = p }
}

// WithBackground sets the per-page background content, rendered
// beneath everything else on the page.
func WithBackground(s NodeSource) Option {
	return func(b *Builder) { b.background = s }
}

// WithHeader sets the per-page header content, laid out inside the top
// margin band.
func WithHeader(s NodeSource) Option {
	return func(b *Builder) { b.header = s }
}

// WithFooter sets the per-page footer content, laid out inside the
// bottom margin band.
func WithFooter(s NodeSource) Option {
	return func(b *Builder) { b.footer = s }
}

// WithImageResolver sets the resolver used when measuring images in
// dynamic headers, footers and backgrounds.
func WithImageResolver(r measure.ImageResolver) Option {
	return func(b *Builder) {
		if r != nil {
			b.measurer.Images = r
		}
	}
}

// WithWatermark attaches a watermark descriptor to every page.
func WithWatermark(w *WatermarkSpec) Option {
	return func(b *Builder) { b.watermark = w }
}
