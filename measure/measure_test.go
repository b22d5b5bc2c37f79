package measure

import (
	"strings"
	"testing"

	"github.com/wudi/docflow/document"
)

type fakeMetrics struct{}

func (fakeMetrics) WidthOf(text, _ string, _, _ float64) float64 {
	return float64(len([]rune(text))) * 10
}

func (fakeMetrics) LineMetrics(_ string, size float64) (height, ascender, descender float64) {
	return size, size * 0.8, -size * 0.2
}

func measureTree(t *testing.T, node *document.Node) *document.Node {
	t.Helper()
	node = Preprocess(node)
	if err := NewMeasurer(fakeMetrics{}).Measure(node, nil, nil); err != nil {
		t.Fatalf("measure: %v", err)
	}
	return node
}

func TestPreprocess_SplitsNewlines(t *testing.T) {
	n := Preprocess(&document.Node{Kind: document.KindText, Text: "one\ntwo\nthree", Margin: [4]float64{5, 0, 0, 0}})
	if n.Kind != document.KindStack {
		t.Fatalf("kind = %v, want a stack", n.Kind)
	}
	if len(n.Children) != 3 {
		t.Fatalf("children = %d", len(n.Children))
	}
	if n.Children[1].Text != "two" {
		t.Fatalf("children[1] = %q", n.Children[1].Text)
	}
	if n.Margin[0] != 5 {
		t.Fatal("the stack must keep the leaf's attributes")
	}
}

func TestPreprocess_PadsRaggedTableRows(t *testing.T) {
	n := Preprocess(&document.Node{
		Kind: document.KindTable,
		Table: &document.Table{Body: [][]*document.Node{
			{{Kind: document.KindText, Text: "a"}, {Kind: document.KindText, Text: "b"}},
			{{Kind: document.KindText, Text: "c"}},
			{nil, nil},
		}},
	})
	for r, row := range n.Table.Body {
		if len(row) != 2 {
			t.Fatalf("row %d has %d cells", r, len(row))
		}
		for c, cell := range row {
			if cell == nil {
				t.Fatalf("cell (%d,%d) still nil", r, c)
			}
		}
	}
}

func TestMeasureText_RunsAndCuts(t *testing.T) {
	n := measureTree(t, &document.Node{Kind: document.KindText, Text: "foo bar"})
	if len(n.Inlines) != 2 {
		t.Fatalf("inlines = %d", len(n.Inlines))
	}
	first := n.Inlines[0]
	if first.Text != "foo " || first.Width != 40 || first.TrailingCut != 10 {
		t.Fatalf("first run = %+v", first)
	}
	second := n.Inlines[1]
	if second.Text != "bar" || second.Width != 30 || second.TrailingCut != 0 {
		t.Fatalf("second run = %+v", second)
	}
	if n.MaxWidth != 70 {
		t.Fatalf("MaxWidth = %v", n.MaxWidth)
	}
	// The widest trimmed run.
	if n.MinWidth != 30 {
		t.Fatalf("MinWidth = %v", n.MinWidth)
	}
	if n.Height != 12 {
		t.Fatalf("Height = %v", n.Height)
	}
}

func TestMeasureText_NoWrapSingleRun(t *testing.T) {
	noWrap := true
	n := measureTree(t, &document.Node{
		Kind:  document.KindText,
		Text:  "keep this together",
		Props: &document.Style{NoWrap: &noWrap},
	})
	if len(n.Inlines) != 1 {
		t.Fatalf("inlines = %d", len(n.Inlines))
	}
	if !n.Inlines[0].NoWrap {
		t.Fatal("run must be marked unsplittable")
	}
}

func TestMeasureText_LineHeightScalesHeight(t *testing.T) {
	n := measureTree(t, &document.Node{
		Kind:  document.KindText,
		Text:  "x",
		Props: &document.Style{LineHeight: 1.5},
	})
	if n.Height != 18 {
		t.Fatalf("Height = %v, want 12 * 1.5", n.Height)
	}
}

func TestMeasureStack_TakesWidestChild(t *testing.T) {
	n := measureTree(t, &document.Node{Kind: document.KindStack, Children: []*document.Node{
		{Kind: document.KindText, Text: "aa"},
		{Kind: document.KindText, Text: "aaaa"},
	}})
	if n.MinWidth != 40 || n.MaxWidth != 40 {
		t.Fatalf("min/max = %v/%v", n.MinWidth, n.MaxWidth)
	}
}

func TestMeasure_MarginsWidenBounds(t *testing.T) {
	n := measureTree(t, &document.Node{
		Kind:   document.KindText,
		Text:   "ab",
		Margin: [4]float64{5, 0, 7, 0},
	})
	if n.MinWidth != 32 || n.MaxWidth != 32 {
		t.Fatalf("min/max = %v/%v, want horizontal margins included", n.MinWidth, n.MaxWidth)
	}
}

func TestMeasureList_MarkersAndGutter(t *testing.T) {
	ul := measureTree(t, &document.Node{Kind: document.KindUnorderedList, Items: []*document.Node{
		{Kind: document.KindText, Text: "a"},
	}})
	item := ul.Items[0]
	if item.Marker == nil || item.Marker.Vector == nil {
		t.Fatal("unordered item needs a bullet vector")
	}
	if item.Marker.Vector.Kind != document.VectorEllipse {
		t.Fatalf("bullet kind = %v", item.Marker.Vector.Kind)
	}
	if ul.ListGap != 8 {
		t.Fatalf("ListGap = %v, want fontSize/1.5", ul.ListGap)
	}

	ol := measureTree(t, &document.Node{Kind: document.KindOrderedList, Items: []*document.Node{
		{Kind: document.KindText, Text: "a"},
		{Kind: document.KindText, Text: "b"},
	}})
	if ol.Items[1].Marker == nil || ol.Items[1].Marker.Inline == nil {
		t.Fatal("ordered item needs a numbered run")
	}
	if got := ol.Items[1].Marker.Inline.Text; got != "2. " {
		t.Fatalf("second marker = %q", got)
	}
	if ol.ListGap != 30 {
		t.Fatalf("ListGap = %v, want the widest marker", ol.ListGap)
	}
}

func TestMarkSpans(t *testing.T) {
	cell := func(s string) *document.Node { return &document.Node{Kind: document.KindText, Text: s} }
	spanning := cell("big")
	spanning.ColSpan = 2
	spanning.RowSpan = 2
	body := [][]*document.Node{
		{spanning, cell("x"), cell("r0")},
		{cell("y"), cell("z"), cell("r1")},
		{cell("a"), cell("b"), cell("r2")},
	}
	markSpans(body)

	// Same-row neighbor becomes a placeholder carrying the row span.
	if body[0][1].Kind != document.KindColumnSpan {
		t.Fatalf("body[0][1] = %v", body[0][1].Kind)
	}
	// Cells under the spanned rectangle become plain placeholders.
	if body[1][0].Kind != document.KindColumnSpan || body[1][1].Kind != document.KindColumnSpan {
		t.Fatal("row 1 not covered by the span")
	}
	if body[1][1].RowSpan != 0 {
		t.Fatal("vertically processed placeholder must not re-trigger the vertical pass")
	}
	// Outside the rectangle everything survives.
	if body[0][2].Text != "r0" || body[1][2].Text != "r1" || body[2][0].Text != "a" {
		t.Fatal("cells outside the span were clobbered")
	}
}

func TestMeasureTable_ColumnBounds(t *testing.T) {
	n := measureTree(t, &document.Node{
		Kind: document.KindTable,
		Table: &document.Table{Body: [][]*document.Node{
			{{Kind: document.KindText, Text: "aaaa"}, {Kind: document.KindText, Text: "bb"}},
			{{Kind: document.KindText, Text: "c"}, {Kind: document.KindText, Text: "dddddd"}},
		}},
	})
	tb := n.Table
	if tb.ColMin[0] != 40 || tb.ColMax[0] != 40 {
		t.Fatalf("col 0 bounds = %v/%v", tb.ColMin[0], tb.ColMax[0])
	}
	if tb.ColMin[1] != 60 || tb.ColMax[1] != 60 {
		t.Fatalf("col 1 bounds = %v/%v", tb.ColMin[1], tb.ColMax[1])
	}
	if n.MinWidth != 100 {
		t.Fatalf("table MinWidth = %v", n.MinWidth)
	}
}

func TestDistributeWidths(t *testing.T) {
	cases := []struct {
		name  string
		specs []string
		mins  []float64
		maxs  []float64
		avail float64
		want  []float64
	}{
		{
			name:  "fixed and stars",
			specs: []string{"100", "*", "*"},
			mins:  []float64{0, 10, 10},
			maxs:  []float64{0, 50, 50},
			avail: 300,
			want:  []float64{100, 100, 100},
		},
		{
			name:  "percent",
			specs: []string{"50%", "*"},
			mins:  []float64{0, 0},
			maxs:  []float64{0, 0},
			avail: 200,
			want:  []float64{100, 100},
		},
		{
			name:  "auto gets its max when space allows",
			specs: []string{"auto", "*"},
			mins:  []float64{30, 0},
			maxs:  []float64{50, 0},
			avail: 200,
			want:  []float64{50, 150},
		},
		{
			name:  "over-constrained collapses to minimums",
			specs: []string{"auto", "*"},
			mins:  []float64{30, 20},
			maxs:  []float64{90, 20},
			avail: 40,
			want:  []float64{30, 20},
		},
		{
			name:  "autos scale proportionally when tight",
			specs: []string{"auto", "auto"},
			mins:  []float64{10, 30},
			maxs:  []float64{30, 90},
			avail: 80,
			want:  []float64{20, 60},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistributeWidths(tc.specs, tc.mins, tc.maxs, tc.avail)
			for i := range tc.want {
				if diff := got[i] - tc.want[i]; diff > 1e-9 || diff < -1e-9 {
					t.Fatalf("widths = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestMeasureQR_VersionSelection(t *testing.T) {
	n := measureTree(t, &document.Node{
		Kind: document.KindQR,
		QR:   &document.QRSpec{Text: strings.Repeat("x", 20)},
	})
	if n.QR.Version != 2 {
		t.Fatalf("version = %d, want 2 for 20 bytes at level L", n.QR.Version)
	}
	if n.QR.ModuleCount != 25 {
		t.Fatalf("modules = %d", n.QR.ModuleCount)
	}
	if n.Width != 100 {
		t.Fatalf("edge = %v, want 4pt per module", n.Width)
	}
}

func TestMeasureQR_UnknownECCLevel(t *testing.T) {
	node := Preprocess(&document.Node{Kind: document.KindQR, QR: &document.QRSpec{Text: "x", ECCLevel: "Z"}})
	if err := NewMeasurer(fakeMetrics{}).Measure(node, nil, nil); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestFromValue(t *testing.T) {
	v := map[string]interface{}{
		"stack": []interface{}{
			"plain string",
			map[string]interface{}{
				"text":      "styled",
				"style":     "header",
				"fontSize":  18.0,
				"bold":      true,
				"margin":    []interface{}{1.0, 2.0, 3.0, 4.0},
				"pageBreak": "before",
			},
			map[string]interface{}{
				"table": map[string]interface{}{
					"headerRows": 1.0,
					"widths":     []interface{}{"auto", "*", 80.0},
					"body": []interface{}{
						[]interface{}{"a", "b", "c"},
					},
				},
			},
		},
	}
	n, err := FromValue(v)
	if err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if n.Kind != document.KindStack || len(n.Children) != 3 {
		t.Fatalf("root = %v with %d children", n.Kind, len(n.Children))
	}
	if n.Children[0].Text != "plain string" {
		t.Fatalf("child 0 = %+v", n.Children[0])
	}

	styled := n.Children[1]
	if styled.Style[0] != "header" || styled.Props.FontSize != 18 || styled.Props.Bold == nil || !*styled.Props.Bold {
		t.Fatalf("styled = %+v", styled)
	}
	if styled.Margin != [4]float64{1, 2, 3, 4} {
		t.Fatalf("margin = %v", styled.Margin)
	}
	if styled.PageBreak != document.BreakBefore {
		t.Fatalf("pageBreak = %v", styled.PageBreak)
	}

	table := n.Children[2]
	if table.Kind != document.KindTable || table.Table.HeaderRows != 1 {
		t.Fatalf("table = %+v", table)
	}
	if got := table.Table.WidthSpecs; len(got) != 3 || got[0] != "auto" || got[2] != "80" {
		t.Fatalf("widths = %v", got)
	}
}

func TestFromValue_Unrecognized(t *testing.T) {
	if _, err := FromValue(map[string]interface{}{"bogus": 1}); err == nil {
		t.Fatal("expected an error for a map without a content key")
	}
	if _, err := FromValue(struct{}{}); err == nil {
		t.Fatal("expected an error for an unsupported type")
	}
}

func TestMeasureTOC_BuildsReferenceTable(t *testing.T) {
	toc := &document.Node{Kind: document.KindTOC, TOC: &document.TOC{ID: "main"}}
	chapter := &document.Node{Kind: document.KindText, Text: "Intro", TOCItem: "main"}
	measureTree(t, &document.Node{Kind: document.KindStack, Children: []*document.Node{toc, chapter}})

	table := toc.TOC.Table
	if table == nil || len(table.Table.Body) != 1 {
		t.Fatalf("toc table = %+v", table)
	}
	row := table.Table.Body[0]
	if row[0].Text != "Intro" {
		t.Fatalf("title cell = %q", row[0].Text)
	}
	ref := row[1]
	if len(ref.Inlines) == 0 || ref.Inlines[0].PageRef != chapter {
		t.Fatal("reference run must point at the registered leaf")
	}
}
