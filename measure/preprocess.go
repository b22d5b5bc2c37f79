package measure

import (
	"strings"

	"github.com/wudi/docflow/document"
)

// Preprocess normalizes shorthand forms ahead of measurement: text
// containing newlines becomes a stack of single-line leaves, nil table
// cells become empty leaves and ragged table rows are padded. The
// returned node may replace the input.
func Preprocess(node *document.Node) *document.Node {
	if node == nil {
		return &document.Node{Kind: document.KindText}
	}
	switch node.Kind {
	case document.KindText:
		if strings.Contains(node.Text, "\n") {
			return splitTextLines(node)
		}
	case document.KindStack:
		for i, child := range node.Children {
			node.Children[i] = Preprocess(child)
		}
	case document.KindColumns:
		for i, col := range node.Columns {
			node.Columns[i] = Preprocess(col)
		}
	case document.KindOrderedList, document.KindUnorderedList:
		for i, item := range node.Items {
			node.Items[i] = Preprocess(item)
		}
	case document.KindTable:
		preprocessTable(node)
	case document.KindTOC:
		if node.TOC != nil && node.TOC.Title != nil {
			node.TOC.Title = Preprocess(node.TOC.Title)
		}
	}
	return node
}

// splitTextLines turns a multi-line leaf into a stack of single-line
// leaves carrying the original node's common attributes.
func splitTextLines(node *document.Node) *document.Node {
	stack := *node
	stack.Kind = document.KindStack
	stack.Text = ""
	for _, line := range strings.Split(node.Text, "\n") {
		stack.Children = append(stack.Children, &document.Node{Kind: document.KindText, Text: line})
	}
	return &stack
}

func preprocessTable(node *document.Node) {
	t := node.Table
	if t == nil || len(t.Body) == 0 {
		return
	}
	cols := 0
	for _, row := range t.Body {
		if len(row) > cols {
			cols = len(row)
		}
	}
	for r, row := range t.Body {
		for c, cell := range row {
			row[c] = Preprocess(cell)
		}
		for len(row) < cols {
			row = append(row, &document.Node{Kind: document.KindText})
		}
		t.Body[r] = row
	}
}
