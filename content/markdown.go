// Package content converts external document formats (Markdown, HTML)
// into node trees for the layout engine.
package content

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/docflow/document"
)

var headingSizes = map[int]float64{1: 24, 2: 18, 3: 15, 4: 13, 5: 12, 6: 11}

// Markdown parses a GFM document into a node tree. Inline emphasis is
// flattened to plain text; block structure (headings, paragraphs,
// lists, tables, code blocks, thematic breaks) is preserved.
func Markdown(source []byte) (*document.Node, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	root := &document.Node{Kind: document.KindStack}
	walkMarkdown(doc, source, root)
	return root, nil
}

func walkMarkdown(node ast.Node, source []byte, out *document.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			out.Children = append(out.Children, markdownHeading(n, source))
		case *ast.Paragraph:
			out.Children = append(out.Children, &document.Node{
				Kind:   document.KindText,
				Text:   blockText(n, source),
				Margin: [4]float64{0, 0, 0, 6},
			})
		case *ast.List:
			out.Children = append(out.Children, markdownList(n, source))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out.Children = append(out.Children, markdownCode(child, source))
		case *ast.ThematicBreak:
			out.Children = append(out.Children, horizontalRule())
		case *extast.Table:
			out.Children = append(out.Children, markdownTable(n, source))
		case *ast.Blockquote:
			quote := &document.Node{Kind: document.KindStack, Margin: [4]float64{20, 0, 0, 6}}
			walkMarkdown(n, source, quote)
			out.Children = append(out.Children, quote)
		}
	}
}

func markdownHeading(n *ast.Heading, source []byte) *document.Node {
	size, ok := headingSizes[n.Level]
	if !ok {
		size = 12
	}
	bold := true
	return &document.Node{
		Kind:   document.KindText,
		Text:   blockText(n, source),
		Props:  &document.Style{FontSize: size, Bold: &bold},
		Margin: [4]float64{0, 8, 0, 4},
	}
}

func markdownList(n *ast.List, source []byte) *document.Node {
	kind := document.KindUnorderedList
	if n.IsOrdered() {
		kind = document.KindOrderedList
	}
	list := &document.Node{Kind: kind}
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		itemNode := &document.Node{Kind: document.KindStack}
		walkMarkdownListItem(item, source, itemNode)
		list.Items = append(list.Items, itemNode)
	}
	return list
}

// walkMarkdownListItem flattens an item's leading paragraph into text
// and recurses into nested blocks.
func walkMarkdownListItem(item ast.Node, source []byte, out *document.Node) {
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			out.Children = append(out.Children, &document.Node{
				Kind: document.KindText,
				Text: blockText(n, source),
			})
		case *ast.List:
			out.Children = append(out.Children, markdownList(n, source))
		}
	}
}

func markdownCode(n ast.Node, source []byte) *document.Node {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return &document.Node{
		Kind:   document.KindText,
		Text:   strings.TrimRight(sb.String(), "\n"),
		Style:  []string{"code"},
		Margin: [4]float64{10, 4, 10, 8},
	}
}

func markdownTable(n *extast.Table, source []byte) *document.Node {
	table := &document.Table{}
	bold := true
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []*document.Node
		header := false
		if _, ok := row.(*extast.TableHeader); ok {
			header = true
		}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			node := &document.Node{Kind: document.KindText, Text: blockText(cell, source)}
			if header {
				node.Props = &document.Style{Bold: &bold}
			}
			cells = append(cells, node)
		}
		table.Body = append(table.Body, cells)
		if header {
			table.HeaderRows = len(table.Body)
		}
	}
	return &document.Node{Kind: document.KindTable, Table: table, Margin: [4]float64{0, 4, 0, 8}}
}

func horizontalRule() *document.Node {
	return &document.Node{
		Kind: document.KindCanvas,
		Canvas: []*document.Vector{{
			Kind:      document.VectorLine,
			X1:        0,
			Y1:        2,
			X2:        500,
			Y2:        2,
			LineWidth: 0.5,
			LineColor: "gray",
		}},
		Margin: [4]float64{0, 6, 0, 6},
	}
}

// blockText concatenates the plain text of a block's inline children,
// joining soft line breaks with spaces.
func blockText(node ast.Node, source []byte) string {
	var sb strings.Builder
	collectText(node, source, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(node ast.Node, source []byte, sb *strings.Builder) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			collectText(child, source, sb)
		}
	}
}
