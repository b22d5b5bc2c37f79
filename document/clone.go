package document

// Clone returns a structural deep copy of the node tree with all
// layout state cleared. Static repeatable content is cloned once per
// page so mutation during one page's layout cannot leak into another.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n

	c.Positions = nil
	c.ColumnEnding = nil
	c.BreakEvaluated = false
	c.origSaved = false
	c.origX, c.origY = 0, 0

	c.Style = append([]string(nil), n.Style...)
	if n.Props != nil {
		props := *n.Props
		c.Props = &props
	}
	if n.AbsolutePosition != nil {
		p := *n.AbsolutePosition
		c.AbsolutePosition = &p
	}
	if n.RelativePosition != nil {
		p := *n.RelativePosition
		c.RelativePosition = &p
	}

	c.Children = cloneNodes(n.Children)
	c.Columns = cloneNodes(n.Columns)
	c.Items = cloneNodes(n.Items)

	if n.Table != nil {
		t := *n.Table
		t.Body = make([][]*Node, len(n.Table.Body))
		for i, row := range n.Table.Body {
			t.Body[i] = cloneNodes(row)
		}
		t.WidthSpecs = append([]string(nil), n.Table.WidthSpecs...)
		t.Widths = append([]float64(nil), n.Table.Widths...)
		t.Offsets = append([]float64(nil), n.Table.Offsets...)
		t.Heights.Values = append([]float64(nil), n.Table.Heights.Values...)
		c.Table = &t
	}

	if n.TOC != nil {
		toc := *n.TOC
		toc.Title = n.TOC.Title.Clone()
		toc.Table = n.TOC.Table.Clone()
		c.TOC = &toc
	}

	if n.QR != nil {
		qr := *n.QR
		c.QR = &qr
	}

	if len(n.Canvas) > 0 {
		c.Canvas = make([]*Vector, len(n.Canvas))
		for i, v := range n.Canvas {
			c.Canvas[i] = v.Clone()
		}
	}

	if len(n.Inlines) > 0 {
		c.Inlines = make([]*Inline, len(n.Inlines))
		for i, in := range n.Inlines {
			c.Inlines[i] = in.Clone()
		}
	}

	if n.Marker != nil {
		m := *n.Marker
		if n.Marker.Vector != nil {
			m.Vector = n.Marker.Vector.Clone()
		}
		if n.Marker.Inline != nil {
			m.Inline = n.Marker.Inline.Clone()
		}
		c.Marker = &m
	}

	return &c
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
