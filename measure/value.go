package measure

import (
	"fmt"
	"strconv"

	"github.com/wudi/docflow/document"
)

// FromValue converts a loosely typed value, as produced by the
// scripting engine or decoded JSON, into a document node. Strings
// become text leaves, slices become stacks, and maps are inspected for
// the variant key ("text", "stack", "columns", "ul", "ol", "table",
// "image", "qr") plus common attributes.
func FromValue(v interface{}) (*document.Node, error) {
	switch t := v.(type) {
	case nil:
		return &document.Node{Kind: document.KindText}, nil
	case string:
		return &document.Node{Kind: document.KindText, Text: t}, nil
	case float64, int, int64:
		return &document.Node{Kind: document.KindText, Text: fmt.Sprint(t)}, nil
	case []interface{}:
		node := &document.Node{Kind: document.KindStack}
		for _, item := range t {
			child, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
		return node, nil
	case map[string]interface{}:
		return fromMap(t)
	default:
		return nil, fmt.Errorf("measure: cannot build a node from %T", v)
	}
}

func fromMap(m map[string]interface{}) (*document.Node, error) {
	node := &document.Node{}
	switch {
	case m["stack"] != nil:
		node.Kind = document.KindStack
		if err := appendChildren(&node.Children, m["stack"]); err != nil {
			return nil, err
		}
	case m["columns"] != nil:
		node.Kind = document.KindColumns
		if err := appendChildren(&node.Columns, m["columns"]); err != nil {
			return nil, err
		}
		node.Gap = floatValue(m["columnGap"])
	case m["ul"] != nil:
		node.Kind = document.KindUnorderedList
		if err := appendChildren(&node.Items, m["ul"]); err != nil {
			return nil, err
		}
	case m["ol"] != nil:
		node.Kind = document.KindOrderedList
		if err := appendChildren(&node.Items, m["ol"]); err != nil {
			return nil, err
		}
	case m["table"] != nil:
		table, err := tableFromValue(m["table"])
		if err != nil {
			return nil, err
		}
		node.Kind = document.KindTable
		node.Table = table
	case m["image"] != nil:
		node.Kind = document.KindImage
		node.Image = stringValue(m["image"])
	case m["qr"] != nil:
		node.Kind = document.KindQR
		node.QR = &document.QRSpec{
			Text:     stringValue(m["qr"]),
			ECCLevel: stringValue(m["eccLevel"]),
			Fit:      floatValue(m["fit"]),
		}
	case m["text"] != nil:
		node.Kind = document.KindText
		node.Text = stringValue(m["text"])
	default:
		return nil, fmt.Errorf("measure: map has no recognized content key")
	}

	if s := stringValue(m["style"]); s != "" {
		node.Style = []string{s}
	}
	props := &document.Style{
		FontSize:  floatValue(m["fontSize"]),
		Alignment: stringValue(m["alignment"]),
		Color:     stringValue(m["color"]),
		Font:      stringValue(m["font"]),
	}
	if b, ok := m["bold"].(bool); ok {
		props.Bold = &b
	}
	if i, ok := m["italics"].(bool); ok {
		props.Italics = &i
	}
	if *props != (document.Style{}) {
		node.Props = props
	}

	if w := m["width"]; w != nil {
		switch t := w.(type) {
		case string:
			node.WidthSpec = t
		default:
			node.WidthSpec = strconv.FormatFloat(floatValue(w), 'f', -1, 64)
		}
	}
	node.HeightSpec = floatValue(m["height"])
	node.ColSpan = int(floatValue(m["colSpan"]))
	node.RowSpan = int(floatValue(m["rowSpan"]))
	switch stringValue(m["pageBreak"]) {
	case "before":
		node.PageBreak = document.BreakBefore
	case "after":
		node.PageBreak = document.BreakAfter
	}
	if margin, ok := m["margin"].([]interface{}); ok && len(margin) == 4 {
		for i := 0; i < 4; i++ {
			node.Margin[i] = floatValue(margin[i])
		}
	}
	return node, nil
}

func tableFromValue(v interface{}) (*document.Table, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("measure: table must be a map, got %T", v)
	}
	table := &document.Table{HeaderRows: int(floatValue(m["headerRows"]))}
	body, ok := m["body"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("measure: table body must be a list")
	}
	for _, rowValue := range body {
		cells, ok := rowValue.([]interface{})
		if !ok {
			return nil, fmt.Errorf("measure: table row must be a list")
		}
		var row []*document.Node
		for _, cell := range cells {
			n, err := FromValue(cell)
			if err != nil {
				return nil, err
			}
			row = append(row, n)
		}
		table.Body = append(table.Body, row)
	}
	if widths, ok := m["widths"].([]interface{}); ok {
		for _, w := range widths {
			switch t := w.(type) {
			case string:
				table.WidthSpecs = append(table.WidthSpecs, t)
			default:
				table.WidthSpecs = append(table.WidthSpecs, strconv.FormatFloat(floatValue(w), 'f', -1, 64))
			}
		}
	}
	return table, nil
}

func appendChildren(dst *[]*document.Node, v interface{}) error {
	items, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("measure: expected a list, got %T", v)
	}
	for _, item := range items {
		child, err := FromValue(item)
		if err != nil {
			return err
		}
		*dst = append(*dst, child)
	}
	return nil
}

func floatValue(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	}
	return 0
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
