// Package layout turns a preprocessed, measured document tree into a
// sequence of pages of absolutely positioned primitives. Coordinates
// are top-left based with y growing downward. The Builder walks the
// tree depth-first, writing lines, images, vectors and QR blocks
// through a page-aware writer, then re-runs the whole traversal when a
// page-break predicate asks for a forced break.
package layout

import (
	"strconv"

	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/measure"
	"github.com/wudi/docflow/observability"
)

// NodeSummary is the read-only view of a laid-out node handed to the
// page-break predicate.
type NodeSummary struct {
	Kind document.Kind
	ID   string
	Text string

	StartPosition *document.Position
	PageNumbers   []int
	Pages         int // total page count at evaluation time
	Stack         bool
}

// PageBreakPredicate decides whether a page break must be forced
// before a node, given its summary and the summaries of its neighbors
// on the same and the following page. It must be side-effect free: it
// is re-evaluated on every convergence attempt.
type PageBreakPredicate func(current *NodeSummary, followingNodesOnPage, nodesOnNextPage, previousNodesOnPage []*NodeSummary) bool

// NodeSource produces the content for one page of a repeatable region
// (background, header, footer). pageNumber is 1-based.
type NodeSource func(pageNumber, pageCount int, pageSize PageSize) *document.Node

// Builder lays out documents. One Builder may be reused sequentially;
// it is not safe for concurrent use.
type Builder struct {
	metrics  Metrics
	measurer *measure.Measurer
	flow     *TextFlow
	logger   observability.Logger

	pageSize PageSize
	margins  Margins

	predicate  PageBreakPredicate
	background NodeSource
	header     NodeSource
	footer     NodeSource
	watermark  *WatermarkSpec

	// per-layout state
	ctx            *DocumentContext
	writer         *PageElementWriter
	styles         *document.StyleStack
	styleDict      map[string]*document.Style
	defaults       *document.Style
	linearNodeList []*document.Node
	lineCount      int
}

// NewBuilder creates a Builder over the given metrics. The default
// page is A4 portrait with 40pt margins.
func NewBuilder(metrics Metrics, opts ...Option) *Builder {
	b := &Builder{
		metrics:  metrics,
		measurer: measure.NewMeasurer(metrics),
		flow:     NewTextFlow(metrics),
		logger:   observability.NopLogger{},
		pageSize: PageSize{Width: 595.28, Height: 841.89, Orientation: document.OrientationPortrait},
		margins:  Margins{Left: 40, Top: 40, Right: 40, Bottom: 40},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LayoutDocument lays out a preprocessed, measured tree and returns
// the page list. The tree is mutated (positions, coordinates) and must
// not be reused across calls without re-measuring.
func (b *Builder) LayoutDocument(root *document.Node, styleDict map[string]*document.Style, defaults *document.Style) ([]*Page, error) {
	b.styleDict = styleDict
	b.defaults = defaults
	b.styles = document.NewStyleStack(styleDict, defaults)
	b.lineCount = 0

	pages, err := b.tryLayout(root)
	if err != nil {
		return nil, err
	}
	passes := 1
	for b.addPageBreaksIfNecessary() {
		b.resetXYs()
		passes++
		b.logger.Debug("page break forced, laying out again",
			observability.Int("pass", passes))
		if pages, err = b.tryLayout(root); err != nil {
			return nil, err
		}
	}

	if err := b.addRepeatables(); err != nil {
		return nil, err
	}
	b.applyWatermark()
	b.resolvePageRefs()

	b.logger.Info("layout complete",
		observability.Int(observability.MetricLayoutPasses, passes),
		observability.Int(observability.MetricPageCount, len(pages)),
		observability.Int(observability.MetricLineCount, b.lineCount),
		observability.Int(observability.MetricBreakRetries, passes-1))
	return pages, nil
}

// tryLayout runs one complete traversal attempt from a fresh context.
func (b *Builder) tryLayout(root *document.Node) ([]*Page, error) {
	b.linearNodeList = b.linearNodeList[:0]
	b.ctx = NewDocumentContext(b.pageSize, b.margins)
	b.writer = NewPageElementWriter(b.ctx)
	if err := b.processNode(root); err != nil {
		return nil, err
	}
	return b.ctx.Pages, nil
}

// processNode visits one node and its subtree. Wrapper behaviors nest
// around the kind dispatch: page break before, margins, unbreakable
// block, detached positioning; undone in reverse order after.
func (b *Builder) processNode(node *document.Node) error {
	b.linearNodeList = append(b.linearNodeList, node)
	node.SaveOrigin()

	if node.PageBreak == document.BreakBefore {
		b.writer.MoveToNextPage(node.PageOrientation)
	}
	margin := node.Margin
	hasMargin := margin != [4]float64{}
	if hasMargin {
		b.writer.Context().MoveDown(margin[1])
		b.writer.Context().AddMargin(margin[0], margin[2])
	}
	if node.Unbreakable {
		b.writer.BeginUnbreakableBlock(0, 0)
	}
	detached := false
	if p := node.AbsolutePosition; p != nil {
		b.writer.Context().BeginDetachedBlock()
		b.writer.Context().MoveTo(p.X, p.Y)
		detached = true
	} else if p := node.RelativePosition; p != nil {
		ctx := b.writer.Context()
		ctx.BeginDetachedBlock()
		ctx.MoveTo(ctx.X+p.X, ctx.Y+p.Y)
		detached = true
	}

	err := b.dispatch(node)

	if detached {
		b.writer.Context().EndDetachedBlock()
	}
	if node.Unbreakable {
		b.writer.CommitUnbreakableBlock()
	}
	if hasMargin {
		b.writer.Context().AddMargin(-margin[0], -margin[2])
		b.writer.Context().MoveDown(margin[3])
	}
	if err != nil {
		return err
	}
	if node.PageBreak == document.BreakAfter {
		b.writer.MoveToNextPage(node.PageOrientation)
	}
	return nil
}

func (b *Builder) dispatch(node *document.Node) error {
	switch node.Kind {
	case document.KindStack:
		return b.processVerticalContainer(node)
	case document.KindColumns:
		return b.processColumns(node)
	case document.KindOrderedList:
		return b.processList(true, node)
	case document.KindUnorderedList:
		return b.processList(false, node)
	case document.KindTable:
		return b.processTable(node)
	case document.KindText:
		b.processLeaf(node)
		return nil
	case document.KindTOC:
		return b.processTOC(node)
	case document.KindImage:
		b.processImage(node)
		return nil
	case document.KindCanvas:
		b.processCanvas(node)
		return nil
	case document.KindQR:
		b.processQR(node)
		return nil
	case document.KindColumnSpan:
		// Placeholder cells are resolved by the row processor.
		return nil
	default:
		return &StructuralError{Node: node}
	}
}

func (b *Builder) processVerticalContainer(node *document.Node) error {
	for _, child := range node.Children {
		if err := b.processNode(child); err != nil {
			return err
		}
		node.Positions = append(node.Positions, child.Positions...)
	}
	return nil
}

func (b *Builder) processLeaf(node *document.Node) {
	before := len(node.Positions)
	b.flow.ProcessLeaf(node, b.writer)
	b.lineCount += len(node.Positions) - before
}

func (b *Builder) processTOC(node *document.Node) error {
	t := node.TOC
	if t == nil {
		return nil
	}
	if t.Title != nil {
		if err := b.processNode(t.Title); err != nil {
			return err
		}
		node.Positions = append(node.Positions, t.Title.Positions...)
	}
	if t.Table != nil {
		if err := b.processNode(t.Table); err != nil {
			return err
		}
		node.Positions = append(node.Positions, t.Table.Positions...)
	}
	return nil
}

func (b *Builder) processImage(node *document.Node) {
	if pos := b.writer.AddImage(node); pos != nil {
		node.Positions = append(node.Positions, pos)
	}
}

func (b *Builder) processQR(node *document.Node) {
	if pos := b.writer.AddQR(node); pos != nil {
		node.Positions = append(node.Positions, pos)
	}
}

func (b *Builder) processCanvas(node *document.Node) {
	height := node.Height
	ctx := b.writer.Context()
	if node.AbsolutePosition == nil && height > ctx.AvailableHeight {
		b.writer.MoveToNextPage("")
		ctx = b.writer.Context()
	}
	for _, vector := range node.Canvas {
		if pos := b.writer.AddVector(vector, false, false); pos != nil {
			node.Positions = append(node.Positions, pos)
		}
	}
	ctx.MoveDown(height)
}

// addPageBreaksIfNecessary evaluates the page-break predicate over the
// last attempt's node list. It reports true when a break was forced,
// which requires a full re-layout.
func (b *Builder) addPageBreaksIfNecessary() bool {
	if b.predicate == nil {
		return false
	}
	var nodes []*document.Node
	for _, n := range b.linearNodeList {
		if len(n.Positions) > 0 {
			nodes = append(nodes, n)
		}
	}
	pageCount := len(b.ctx.Pages)
	summaries := make([]*NodeSummary, len(nodes))
	for i, n := range nodes {
		summaries[i] = &NodeSummary{
			Kind:          n.Kind,
			ID:            n.ID,
			Text:          n.Text,
			StartPosition: n.Positions[0],
			PageNumbers:   n.PageNumbers(),
			Pages:         pageCount,
			Stack:         n.Kind == document.KindStack,
		}
	}

	for i, n := range nodes {
		if n.PageBreak == document.BreakBefore || n.BreakEvaluated {
			continue
		}
		n.BreakEvaluated = true
		page := summaries[i].PageNumbers[0]

		var following, onNextPage, previous []*NodeSummary
		for j := i + 1; j < len(nodes); j++ {
			if containsPage(summaries[j].PageNumbers, page) {
				following = append(following, summaries[j])
			}
			if containsPage(summaries[j].PageNumbers, page+1) {
				onNextPage = append(onNextPage, summaries[j])
			}
		}
		for j := 0; j < i; j++ {
			if containsPage(summaries[j].PageNumbers, page) {
				previous = append(previous, summaries[j])
			}
		}
		if b.predicate(summaries[i], following, onNextPage, previous) {
			n.PageBreak = document.BreakBefore
			return true
		}
	}
	return false
}

func containsPage(pages []int, page int) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}

func (b *Builder) resetXYs() {
	for _, n := range b.linearNodeList {
		n.ResetXY()
	}
}

// resolvePageRefs replaces page-reference placeholder runs (table of
// contents entries) with the 1-based page number of their target.
func (b *Builder) resolvePageRefs() {
	for _, page := range b.ctx.Pages {
		for _, item := range page.Items {
			if item.Line == nil {
				continue
			}
			for _, in := range item.Line.Inlines {
				if in.PageRef == nil || len(in.PageRef.Positions) == 0 {
					continue
				}
				in.Text = strconv.Itoa(in.PageRef.Positions[0].PageNumber + 1)
				in.Width = b.metrics.WidthOf(in.Text, in.Font, in.FontSize, in.CharacterSpacing)
			}
		}
	}
}
