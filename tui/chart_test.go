package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"theater-booking-cli/model"
	"theater-booking-cli/viewport"
)

func testLayout() model.Layout {
	return model.Layout{
		VenueID: "v1",
		Sections: []model.Section{
			{Name: "VIP", StartRow: 1, Rows: 2, SeatsPerRow: 12, UnitPrice: 150000},
			{Name: "Main", StartRow: 3, Rows: 4, SeatsPerRow: 16, UnitPrice: 100000},
		},
	}
}

func TestChartGeom_SeatAtInvertsSeatOrigin(t *testing.T) {
	scales := []float64{0.5, 1, 1.5, 2.4}
	pans := []viewport.Viewport{
		{Scale: 1},
		{Scale: 1, X: 7, Y: 3},
		{Scale: 1, X: -4, Y: -2},
	}

	for _, scale := range scales {
		for _, vp := range pans {
			vp.Scale = scale
			g := newChartGeom(testLayout(), vp, 7)

			for _, key := range []model.SeatKey{{Row: 1, Seat: 1}, {Row: 2, Seat: 12}, {Row: 3, Seat: 1}, {Row: 6, Seat: 16}} {
				x, y := g.seatOrigin(key)
				got, ok := g.seatAt(x, y)
				if !ok {
					t.Fatalf("scale %v pan (%v,%v): no seat at origin of %s", scale, vp.X, vp.Y, key)
				}
				if got != key {
					t.Fatalf("scale %v pan (%v,%v): expected %s, got %s", scale, vp.X, vp.Y, key, got)
				}

				// The whole rendered cell hits the same seat.
				got, ok = g.seatAt(x+g.cellWidth()-1, y)
				if !ok || got != key {
					t.Fatalf("scale %v: right edge of %s missed, got %v ok=%v", scale, key, got, ok)
				}
			}
		}
	}
}

func TestChartGeom_GapsBetweenSeatsMiss(t *testing.T) {
	g := newChartGeom(testLayout(), viewport.New(), 7)

	x, y := g.seatOrigin(model.SeatKey{Row: 1, Seat: 1})
	if _, ok := g.seatAt(x+g.cellWidth(), y); ok {
		t.Fatal("the gap after a seat cell must not hit")
	}
	if _, ok := g.seatAt(x-1, y); ok {
		t.Fatal("the row label gutter must not hit")
	}
}

func TestChartGeom_HeaderAndBlankLinesMiss(t *testing.T) {
	g := newChartGeom(testLayout(), viewport.New(), 7)

	// Virtual line 0 is the first section header.
	if _, ok := g.seatAt(rowLabelWidth+1, g.top); ok {
		t.Fatal("section header line must not hit")
	}

	// The blank separator sits between the VIP rows and the Main header.
	_, vipY := g.seatOrigin(model.SeatKey{Row: 2, Seat: 1})
	if _, ok := g.seatAt(rowLabelWidth+1, vipY+1); ok {
		t.Fatal("blank separator line must not hit")
	}

	if _, ok := g.seatAt(rowLabelWidth+1, g.top-1); ok {
		t.Fatal("positions above the chart must not hit")
	}
}

func TestChartGeom_SeatBeyondRowMisses(t *testing.T) {
	g := newChartGeom(testLayout(), viewport.New(), 7)

	x, y := g.seatOrigin(model.SeatKey{Row: 1, Seat: 12})
	if _, ok := g.seatAt(x+g.stride(), y); ok {
		t.Fatal("a position past the last seat of the row must not hit")
	}
}

func TestChartGeom_CellWidthGrowsWithScale(t *testing.T) {
	widths := map[float64]int{0.5: 1, 1: 2, 1.5: 3, 2.5: 4}
	for scale, want := range widths {
		g := newChartGeom(testLayout(), viewport.Viewport{Scale: scale}, 0)
		if got := g.cellWidth(); got != want {
			t.Fatalf("scale %v: expected cell width %d, got %d", scale, want, got)
		}
	}
}

func TestRenderChart_ShowsSectionHeadersAndRows(t *testing.T) {
	g := newChartGeom(testLayout(), viewport.New(), 0)
	out := renderChart(g, nil, model.SeatKey{}, false, 100, len(g.rows))

	if !strings.Contains(out, "VIP") || !strings.Contains(out, "Main") {
		t.Fatalf("expected section headers in output:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != len(g.rows) {
		t.Fatalf("expected %d lines, got %d", len(g.rows), len(lines))
	}
	// Row 1 renders with its letter label.
	if !strings.Contains(lines[1], "A") {
		t.Fatalf("expected row label A on the first seat row, got %q", lines[1])
	}
}

func TestRenderChart_ClipsToViewportHeight(t *testing.T) {
	g := newChartGeom(testLayout(), viewport.New(), 0)
	out := renderChart(g, nil, model.SeatKey{}, false, 100, 3)
	if got := len(strings.Split(out, "\n")); got != 3 {
		t.Fatalf("expected 3 lines, got %d", got)
	}
}

func TestClipLine_KeepsVisiblePart(t *testing.T) {
	plain := lipgloss.NewStyle()

	if got := clipLine("VIP hall", plain, -4, 80); got != "hall" {
		t.Fatalf("expected left-clipped text, got %q", got)
	}
	if got := clipLine("VIP", plain, 78, 80); got != strings.Repeat(" ", 78)+"VI" {
		t.Fatalf("expected right-clipped text, got %q", got)
	}
	if got := clipLine("VIP", plain, -10, 80); got != "" {
		t.Fatalf("expected fully off-screen text dropped, got %q", got)
	}
	if got := clipLine("VIP", plain, 80, 80); got != "" {
		t.Fatalf("expected text past the right edge dropped, got %q", got)
	}
	// Multibyte runes clip without splitting.
	if got := clipLine("A · B", plain, -2, 80); got != "· B" {
		t.Fatalf("expected rune-safe clipping, got %q", got)
	}
}

func TestRenderChart_PannedHeaderIsClippedNotDropped(t *testing.T) {
	vp := viewport.Viewport{Scale: 1, X: -2}
	g := newChartGeom(testLayout(), vp, 0)
	out := renderChart(g, nil, model.SeatKey{}, false, 100, len(g.rows))

	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "rows") {
		t.Fatalf("expected the visible part of the header to survive panning, got %q", lines[0])
	}
	if strings.Contains(lines[0], "VIP") {
		t.Fatalf("expected the panned-off prefix to be clipped, got %q", lines[0])
	}
}

func TestSeatToken_Symbols(t *testing.T) {
	checks := map[model.SeatStatus]string{
		model.StatusAvailable:      "[]",
		model.StatusSelected:       "()",
		model.StatusPurchased:      "XX",
		model.StatusPendingPayment: "~~",
		model.StatusBlocked:        "##",
	}
	for status, want := range checks {
		if got := seatToken(status, 2, 1, false); got != want {
			t.Fatalf("status %s: expected %q, got %q", status, want, got)
		}
	}
	if got := seatToken(model.StatusAvailable, 1, 1, false); got != "[" {
		t.Fatalf("expected single-char token at width 1, got %q", got)
	}
	if got := seatToken(model.StatusAvailable, 3, 7, true); strings.TrimSpace(got) != "7" {
		t.Fatalf("expected seat number, got %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	checks := map[int64]string{
		0:       "0 T",
		950:     "950 T",
		150000:  "150,000 T",
		1250000: "1,250,000 T",
		-45000:  "-45,000 T",
	}
	for amount, want := range checks {
		if got := formatAmount(amount); got != want {
			t.Fatalf("%d: expected %q, got %q", amount, want, got)
		}
	}
}

func TestPadCell(t *testing.T) {
	if got := padCell("x", 3); got != " x " {
		t.Fatalf("expected centered pad, got %q", got)
	}
	if got := padCell("abcd", 2); got != "ab" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if got := padCell("", 2); got != "  " {
		t.Fatalf("expected spaces, got %q", got)
	}
}

func TestStageBarBlock_CentersLabel(t *testing.T) {
	block := stageBarBlock(20, "STAGE")
	if len(block.top) == 0 || len(block.bot) == 0 {
		t.Fatal("expected border lines")
	}
	if !strings.Contains(block.mid, "STAGE") {
		t.Fatalf("expected label in mid line, got %q", block.mid)
	}
}
