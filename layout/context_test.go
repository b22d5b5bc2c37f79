package layout

import (
	"testing"

	"github.com/wudi/docflow/document"
)

func testContext() *DocumentContext {
	return NewDocumentContext(
		PageSize{Width: 200, Height: 300, Orientation: document.OrientationPortrait},
		Margins{Left: 10, Top: 10, Right: 10, Bottom: 10},
	)
}

func TestColumnGroup_BottomMostWins(t *testing.T) {
	ctx := testContext()
	ctx.BeginColumnGroup()
	ctx.BeginColumn(80, 0, nil)
	ctx.MoveDown(50)
	ctx.BeginColumn(80, 100, nil)
	ctx.MoveDown(80)
	ctx.CompleteColumnGroup(0)

	if ctx.X != 10 {
		t.Fatalf("X = %v, want group origin 10", ctx.X)
	}
	if ctx.Y != 90 {
		t.Fatalf("Y = %v, want 90 (deepest column)", ctx.Y)
	}
	if ctx.AvailableHeight != 290-90 {
		t.Fatalf("AvailableHeight = %v", ctx.AvailableHeight)
	}
}

func TestColumnGroup_MinimumHeight(t *testing.T) {
	ctx := testContext()
	ctx.BeginColumnGroup()
	ctx.BeginColumn(80, 0, nil)
	ctx.MoveDown(20)
	ctx.CompleteColumnGroup(120)

	if ctx.Y != 130 {
		t.Fatalf("Y = %v, want origin + declared height", ctx.Y)
	}
}

func TestColumnGroup_ColumnOffsetsAreAbsolute(t *testing.T) {
	ctx := testContext()
	ctx.BeginColumnGroup()
	ctx.BeginColumn(50, 0, nil)
	ctx.MoveDown(30)
	ctx.BeginColumn(50, 70, nil)
	if ctx.X != 80 {
		t.Fatalf("X = %v, want group origin + offset", ctx.X)
	}
	if ctx.Y != 10 {
		t.Fatalf("each column starts at the group's y, got %v", ctx.Y)
	}
	if ctx.AvailableWidth != 50 {
		t.Fatalf("AvailableWidth = %v", ctx.AvailableWidth)
	}
}

func TestColumnGroup_SpanEndingCapture(t *testing.T) {
	ctx := testContext()
	cell := &document.Node{Kind: document.KindColumnSpan}

	ctx.BeginColumnGroup()
	ctx.BeginColumn(80, 0, cell)
	ctx.MoveDown(40)
	ctx.BeginColumn(80, 100, nil)

	if cell.ColumnEnding == nil {
		t.Fatal("ending cell must capture the spanning column's cursor")
	}
	if cell.ColumnEnding.Y != 50 {
		t.Fatalf("captured Y = %v, want 50", cell.ColumnEnding.Y)
	}
	// The spanning column's depth must not drag the whole row down.
	ctx.MoveDown(5)
	ctx.CompleteColumnGroup(0)
	if ctx.Y != 15 {
		t.Fatalf("row bottom = %v, want 15", ctx.Y)
	}

	// Rows later, the placeholder folds the ending back in.
	ctx.BeginColumnGroup()
	ctx.BeginColumn(80, 100, nil)
	ctx.MarkEnding(cell)
	ctx.CompleteColumnGroup(0)
	if ctx.Y != 50 {
		t.Fatalf("row bottom after MarkEnding = %v, want 50", ctx.Y)
	}
	if cell.ColumnEnding != nil {
		t.Fatal("consumed ending must be cleared")
	}
}

func TestMoveToNextPage_PreservesColumnCursor(t *testing.T) {
	ctx := testContext()
	ctx.AddMargin(20, 0)

	prevPage, prevY, created := ctx.MoveToNextPage("")
	if prevPage != 0 || prevY != 10 {
		t.Fatalf("prev = (%d, %v)", prevPage, prevY)
	}
	if !created {
		t.Fatal("a new page should have been created")
	}
	if ctx.PageIndex() != 1 {
		t.Fatalf("page = %d", ctx.PageIndex())
	}
	if ctx.X != 30 {
		t.Fatalf("X = %v, must survive the page change", ctx.X)
	}
	if ctx.AvailableWidth != 160 {
		t.Fatalf("AvailableWidth = %v, must survive the page change", ctx.AvailableWidth)
	}
	if ctx.Y != 10 {
		t.Fatalf("Y = %v, want top margin", ctx.Y)
	}
}

func TestMoveToNextPage_ReusesExistingPage(t *testing.T) {
	ctx := testContext()
	ctx.MoveToNextPage("")
	ctx.SetPageIndex(0)

	_, _, created := ctx.MoveToNextPage("")
	if created {
		t.Fatal("must reuse the already existing page")
	}
	if len(ctx.Pages) != 2 {
		t.Fatalf("pages = %d", len(ctx.Pages))
	}
}

func TestTransactionContext_NeverAdvances(t *testing.T) {
	ctx := newTransactionContext(100, 0)
	ctx.MoveDown(5000)
	_, _, created := ctx.MoveToNextPage("")
	if created || len(ctx.Pages) != 1 {
		t.Fatal("transaction context must stay on its single page")
	}
	if ctx.AvailableHeight <= 0 {
		t.Fatal("transaction page must be effectively unbounded")
	}
}

func TestMoveToNextPage_Orientation(t *testing.T) {
	ctx := testContext()
	ctx.MoveToNextPage(document.OrientationLandscape)
	size := ctx.CurrentPage().Size
	if size.Width != 300 || size.Height != 200 {
		t.Fatalf("landscape page = %vx%v", size.Width, size.Height)
	}
}
