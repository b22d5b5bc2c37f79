package layout

import (
	"testing"

	"github.com/wudi/docflow/document"
)

// fakeMetrics measures every rune as 10pt wide, making expected widths
// trivial to compute by hand.
type fakeMetrics struct{}

func (fakeMetrics) WidthOf(text, _ string, _, _ float64) float64 {
	return float64(len([]rune(text))) * 10
}

func (fakeMetrics) LineMetrics(_ string, size float64) (height, ascender, descender float64) {
	return size, size * 0.8, -size * 0.2
}

func run(text string) *document.Inline {
	return &document.Inline{Text: text, Width: float64(len([]rune(text))) * 10, Height: 12, FontSize: 12}
}

func TestBuildNextLine_EmptyQueue(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	line, rest, ok := tf.BuildNextLine(nil, 100)
	if ok || line != nil || len(rest) != 0 {
		t.Fatalf("empty queue should yield no line, got %v %v %v", line, rest, ok)
	}
}

func TestBuildNextLine_PacksGreedily(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	queue := []*document.Inline{run("aaaaa"), run("bbbbb"), run("ccccc")}

	line, rest, ok := tf.BuildNextLine(queue, 120)
	if !ok {
		t.Fatal("expected a line")
	}
	if len(line.Inlines) != 2 {
		t.Fatalf("line took %d runs, want 2", len(line.Inlines))
	}
	if line.LastLineInParagraph {
		t.Fatal("runs remain, must not be the last line")
	}
	if len(rest) != 1 || rest[0].Text != "ccccc" {
		t.Fatalf("queue after first line: %v", rest)
	}

	line, rest, ok = tf.BuildNextLine(rest, 120)
	if !ok || len(line.Inlines) != 1 {
		t.Fatalf("second line: %v %v", line, ok)
	}
	if !line.LastLineInParagraph {
		t.Fatal("drained queue must mark the last line")
	}
	if len(rest) != 0 {
		t.Fatalf("queue should be empty, got %v", rest)
	}
}

func TestBuildNextLine_HardWrapSplitsOversizedRun(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	word := "abcdefghijklmnopqrstuvwxyz0123" // 30 runes, 300pt
	queue := []*document.Inline{run(word)}

	line, rest, ok := tf.BuildNextLine(queue, 100)
	if !ok || len(line.Inlines) != 1 {
		t.Fatalf("line: %v %v", line, ok)
	}
	head := line.Inlines[0]
	if head.Text != word[:10] {
		t.Fatalf("head = %q, want first 10 runes", head.Text)
	}
	if head.Width != 100 {
		t.Fatalf("head must be re-measured after the split, width = %v", head.Width)
	}
	if len(rest) != 1 || rest[0].Text != word[10:] {
		t.Fatalf("tail = %v", rest)
	}
	if rest[0].Width != 200 {
		t.Fatalf("tail must be re-measured, width = %v", rest[0].Width)
	}
	if rest[0].LeadingCut != 0 || head.TrailingCut != 0 {
		t.Fatal("split edges must carry no space cuts")
	}
}

func TestBuildNextLine_HardWrapAgainstPartialLine(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	// The long run does not fit the remaining 50pt but would not fit a
	// fresh line either, so it wraps rather than moving down whole.
	queue := []*document.Inline{run("aaaaa"), run("bbbbbbbbbbbbbbbbbbbb")}

	line, rest, _ := tf.BuildNextLine(queue, 100)
	if len(line.Inlines) != 1 || line.Inlines[0].Text != "aaaaa" {
		t.Fatalf("first line = %v", line.Inlines)
	}
	// Fresh line: 10 runes fit.
	line, rest, _ = tf.BuildNextLine(rest, 100)
	if len(line.Inlines) != 1 || len([]rune(line.Inlines[0].Text)) != 10 {
		t.Fatalf("second line = %v", line.Inlines)
	}
	if len(rest) != 1 || len([]rune(rest[0].Text)) != 10 {
		t.Fatalf("remaining = %v", rest)
	}
}

func TestBuildNextLine_NoWrapRunIsNeverSplit(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	in := run("unbreakable-run-of-text")
	in.NoWrap = true
	line, rest, _ := tf.BuildNextLine([]*document.Inline{in}, 50)
	if len(line.Inlines) != 1 || line.Inlines[0].Text != "unbreakable-run-of-text" {
		t.Fatalf("line = %v", line.Inlines)
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %v", rest)
	}
}

func TestBuildNextLine_SingleRuneIsNeverSplit(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	in := run("W")
	in.Width = 300
	line, _, _ := tf.BuildNextLine([]*document.Inline{in}, 100)
	if len(line.Inlines) != 1 || line.Inlines[0].Text != "W" {
		t.Fatalf("line = %v", line.Inlines)
	}
}

func TestBuildNextLine_NoNewLinePairStaysTogether(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	glued := run("aaa")
	glued.NoNewLine = true
	queue := []*document.Inline{run("ccccc"), glued, run("bbb")}

	// 50 + 30 + 30 exceeds 100, so the break lands before the glued
	// pair, not between its halves.
	line, rest, _ := tf.BuildNextLine(queue, 100)
	if len(line.Inlines) != 1 || line.Inlines[0].Text != "ccccc" {
		t.Fatalf("first line = %v", line.Inlines)
	}
	line, rest, _ = tf.BuildNextLine(rest, 100)
	if len(line.Inlines) != 2 {
		t.Fatalf("glued pair split: %v", line.Inlines)
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %v", rest)
	}
}

func TestBuildNextLine_LineEndForcesBreak(t *testing.T) {
	tf := NewTextFlow(fakeMetrics{})
	first := run("aa")
	first.LineEnd = true
	line, rest, _ := tf.BuildNextLine([]*document.Inline{first, run("bb")}, 1000)
	if len(line.Inlines) != 1 {
		t.Fatalf("line end ignored: %v", line.Inlines)
	}
	if len(rest) != 1 {
		t.Fatalf("rest = %v", rest)
	}
}

func TestLine_CutsAndWidth(t *testing.T) {
	l := NewLine(200)
	lead := run(" abc ")
	lead.LeadingCut = 10
	lead.TrailingCut = 10
	l.AddInline(lead)
	trail := run("de ")
	trail.TrailingCut = 10
	l.AddInline(trail)

	if l.LeadingCut != 10 {
		t.Fatalf("LeadingCut = %v", l.LeadingCut)
	}
	if l.TrailingCut != 10 {
		t.Fatalf("TrailingCut must follow the last run, got %v", l.TrailingCut)
	}
	// 50 + 30 total, minus leading and trailing space.
	if got := l.Width(); got != 60 {
		t.Fatalf("Width() = %v, want 60", got)
	}
	if got := l.AvailableWidth(); got != 200-(80-10) {
		t.Fatalf("AvailableWidth() = %v", got)
	}
	// Runs shift left by the leading cut so the first visible glyph
	// sits on the line origin.
	if lead.X != -10 {
		t.Fatalf("first run's offset in line = %v, want -10", lead.X)
	}
	if trail.X != 40 {
		t.Fatalf("second run's offset in line = %v, want 40", trail.X)
	}
}
