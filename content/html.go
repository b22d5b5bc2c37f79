package content

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wudi/docflow/document"
)

// HTML parses an HTML fragment or page into a node tree. Block
// elements map to their node equivalents; inline markup is flattened
// to plain text with <br> becoming newlines.
func HTML(source string) (*document.Node, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	root := &document.Node{Kind: document.KindStack}
	body := findElement(doc, atom.Body)
	if body == nil {
		body = doc
	}
	walkHTML(body, root)
	return root, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

var htmlHeadingSizes = map[atom.Atom]float64{
	atom.H1: 24, atom.H2: 18, atom.H3: 15, atom.H4: 13, atom.H5: 12, atom.H6: 11,
}

func walkHTML(n *html.Node, out *document.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if text := strings.TrimSpace(c.Data); text != "" {
				out.Children = append(out.Children, &document.Node{Kind: document.KindText, Text: text})
			}
		case html.ElementNode:
			switch c.DataAtom {
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				bold := true
				out.Children = append(out.Children, &document.Node{
					Kind:   document.KindText,
					Text:   inlineText(c),
					Props:  &document.Style{FontSize: htmlHeadingSizes[c.DataAtom], Bold: &bold},
					Margin: [4]float64{0, 8, 0, 4},
				})
			case atom.P:
				out.Children = append(out.Children, &document.Node{
					Kind:   document.KindText,
					Text:   inlineText(c),
					Margin: [4]float64{0, 0, 0, 6},
				})
			case atom.Ul, atom.Ol:
				out.Children = append(out.Children, htmlList(c))
			case atom.Table:
				out.Children = append(out.Children, htmlTable(c))
			case atom.Img:
				if src := attr(c, "src"); src != "" {
					out.Children = append(out.Children, &document.Node{Kind: document.KindImage, Image: src})
				}
			case atom.Blockquote:
				quote := &document.Node{Kind: document.KindStack, Margin: [4]float64{20, 0, 0, 6}}
				walkHTML(c, quote)
				out.Children = append(out.Children, quote)
			case atom.Pre:
				out.Children = append(out.Children, &document.Node{
					Kind:   document.KindText,
					Text:   strings.TrimRight(rawText(c), "\n"),
					Style:  []string{"code"},
					Margin: [4]float64{10, 4, 10, 8},
				})
			case atom.Hr:
				out.Children = append(out.Children, horizontalRule())
			case atom.Div, atom.Section, atom.Article, atom.Main, atom.Header, atom.Footer:
				walkHTML(c, out)
			}
		}
	}
}

func htmlList(n *html.Node) *document.Node {
	kind := document.KindUnorderedList
	if n.DataAtom == atom.Ol {
		kind = document.KindOrderedList
	}
	list := &document.Node{Kind: kind}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		if nested := findElement(c, atom.Ul); nested != nil || findElement(c, atom.Ol) != nil {
			item := &document.Node{Kind: document.KindStack}
			walkHTMLListItem(c, item)
			list.Items = append(list.Items, item)
			continue
		}
		list.Items = append(list.Items, &document.Node{Kind: document.KindText, Text: inlineText(c)})
	}
	return list
}

func walkHTMLListItem(li *html.Node, out *document.Node) {
	var text strings.Builder
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
			if t := strings.TrimSpace(text.String()); t != "" {
				out.Children = append(out.Children, &document.Node{Kind: document.KindText, Text: t})
				text.Reset()
			}
			out.Children = append(out.Children, htmlList(c))
			continue
		}
		collectInlineText(c, &text)
	}
	if t := strings.TrimSpace(text.String()); t != "" {
		out.Children = append(out.Children, &document.Node{Kind: document.KindText, Text: t})
	}
}

func htmlTable(n *html.Node) *document.Node {
	table := &document.Table{}
	bold := true
	var collectRows func(*html.Node, bool)
	collectRows = func(parent *html.Node, header bool) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead:
				collectRows(c, true)
			case atom.Tbody, atom.Tfoot:
				collectRows(c, false)
			case atom.Tr:
				var cells []*document.Node
				rowIsHeader := header
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode {
						continue
					}
					switch cell.DataAtom {
					case atom.Th:
						rowIsHeader = true
						cells = append(cells, &document.Node{
							Kind:  document.KindText,
							Text:  inlineText(cell),
							Props: &document.Style{Bold: &bold},
						})
					case atom.Td:
						cells = append(cells, &document.Node{Kind: document.KindText, Text: inlineText(cell)})
					}
				}
				if cells == nil {
					continue
				}
				table.Body = append(table.Body, cells)
				if rowIsHeader && table.HeaderRows == len(table.Body)-1 {
					table.HeaderRows = len(table.Body)
				}
			}
		}
	}
	collectRows(n, false)
	return &document.Node{Kind: document.KindTable, Table: table, Margin: [4]float64{0, 4, 0, 8}}
}

// inlineText flattens an element's inline content to a single string.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectInlineText(c, &sb)
	}
	return strings.TrimSpace(collapseSpace(sb.String()))
}

func collectInlineText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			sb.WriteByte('\n')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectInlineText(c, sb)
		}
	}
}

// rawText extracts text verbatim, preserving whitespace. Used for
// preformatted blocks.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseSpace folds runs of whitespace into single spaces, keeping
// newlines produced by <br>.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch {
		case r == '\n':
			sb.WriteRune(r)
			space = false
		case r == ' ' || r == '\t' || r == '\r':
			space = true
		default:
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
