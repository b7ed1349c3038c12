package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"theater-booking-cli/model"
	"theater-booking-cli/selection"
	"theater-booking-cli/viewport"
)

const (
	rowLabelWidth = 3
	cellGap       = 1
)

// chartRowKind tags one virtual line of the seating chart.
type chartRowKind int

const (
	rowSectionHeader chartRowKind = iota
	rowSeats
	rowBlank
)

type chartRow struct {
	kind    chartRowKind
	section model.Section
	row     int
}

// chartGeom maps between seat keys and screen cells for one layout and
// viewport state. The renderer and the mouse hit-test share it so taps land
// on the seat the user sees, at any zoom.
type chartGeom struct {
	layout model.Layout
	vp     viewport.Viewport
	top    int
	rows   []chartRow
	lineOf map[int]int
}

func newChartGeom(layout model.Layout, vp viewport.Viewport, top int) chartGeom {
	g := chartGeom{layout: layout, vp: vp, top: top, lineOf: map[int]int{}}
	for i, section := range layout.Sections {
		if i > 0 {
			g.rows = append(g.rows, chartRow{kind: rowBlank})
		}
		g.rows = append(g.rows, chartRow{kind: rowSectionHeader, section: section})
		for row := section.StartRow; row <= section.EndRow(); row++ {
			g.lineOf[row] = len(g.rows)
			g.rows = append(g.rows, chartRow{kind: rowSeats, section: section, row: row})
		}
	}
	return g
}

// cellWidth maps the zoom scale to the character width of one seat cell.
func (g chartGeom) cellWidth() int {
	switch {
	case g.vp.Scale < 0.75:
		return 1
	case g.vp.Scale < 1.25:
		return 2
	case g.vp.Scale < 2:
		return 3
	default:
		return 4
	}
}

func (g chartGeom) stride() int {
	return g.cellWidth() + cellGap
}

// seatOrigin returns the screen cell of the seat's left edge.
func (g chartGeom) seatOrigin(key model.SeatKey) (x, y int) {
	x = rowLabelWidth + 1 + (key.Seat-1)*g.stride() + int(g.vp.X)
	y = g.top + g.lineOf[key.Row] + int(g.vp.Y)
	return x, y
}

// seatAt inverts seatOrigin: the seat whose rendered cell covers the screen
// position, if any. Gaps between cells miss.
func (g chartGeom) seatAt(x, y int) (model.SeatKey, bool) {
	vline := y - g.top - int(g.vp.Y)
	if vline < 0 || vline >= len(g.rows) {
		return model.SeatKey{}, false
	}
	row := g.rows[vline]
	if row.kind != rowSeats {
		return model.SeatKey{}, false
	}

	offset := x - rowLabelWidth - 1 - int(g.vp.X)
	if offset < 0 {
		return model.SeatKey{}, false
	}
	seat := offset/g.stride() + 1
	if offset%g.stride() >= g.cellWidth() {
		return model.SeatKey{}, false
	}
	if seat < 1 || seat > row.section.SeatsPerRow {
		return model.SeatKey{}, false
	}
	return model.SeatKey{Row: row.row, Seat: seat}, true
}

var (
	styleAvailable = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	stylePurchased = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePending   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleBlocked   = lipgloss.NewStyle().Faint(true)
	styleCursor    = lipgloss.NewStyle().Reverse(true)
	styleSection   = lipgloss.NewStyle().Bold(true).Faint(true)
)

func seatToken(status model.SeatStatus, width int, seat int, showNumbers bool) string {
	if showNumbers && width >= 3 && status != model.StatusBlocked {
		return padCell(strconv.Itoa(seat), width)
	}
	var token string
	switch status {
	case model.StatusAvailable:
		token = "[]"
	case model.StatusSelected:
		token = "()"
	case model.StatusPurchased:
		token = "XX"
	case model.StatusPendingPayment:
		token = "~~"
	case model.StatusBlocked:
		token = "##"
	default:
		token = "??"
	}
	if width == 1 {
		token = token[:1]
	}
	return padCell(token, width)
}

func seatStyle(status model.SeatStatus) lipgloss.Style {
	switch status {
	case model.StatusSelected:
		return styleSelected
	case model.StatusPurchased:
		return stylePurchased
	case model.StatusPendingPayment:
		return stylePending
	case model.StatusBlocked:
		return styleBlocked
	default:
		return styleAvailable
	}
}

// renderChart draws the seating chart clipped to width/height, honoring the
// viewport translation. The machine may be nil while the snapshot loads.
func renderChart(g chartGeom, machine *selection.Machine, cursor model.SeatKey, showNumbers bool, width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = len(g.rows)
	}

	ty := int(g.vp.Y)
	tx := int(g.vp.X)
	cellWidth := g.cellWidth()
	stride := g.stride()

	var b strings.Builder
	for screen := 0; screen < height; screen++ {
		vline := screen - ty
		if screen > 0 {
			b.WriteString("\n")
		}
		if vline < 0 || vline >= len(g.rows) {
			continue
		}
		row := g.rows[vline]
		switch row.kind {
		case rowBlank:
			continue
		case rowSectionHeader:
			label := fmt.Sprintf("%s · rows %s-%s · %s/seat",
				row.section.Name,
				model.SeatKey{Row: row.section.StartRow, Seat: 1}.RowLabel(),
				model.SeatKey{Row: row.section.EndRow(), Seat: 1}.RowLabel(),
				formatAmount(row.section.UnitPrice))
			b.WriteString(clipLine(label, styleSection, tx, width))
		case rowSeats:
			b.WriteString(renderSeatRow(row, machine, cursor, cellWidth, stride, tx, width, showNumbers))
		}
	}
	return b.String()
}

func renderSeatRow(row chartRow, machine *selection.Machine, cursor model.SeatKey, cellWidth, stride, tx, width int, showNumbers bool) string {
	var b strings.Builder
	cur := 0

	writeAt := func(target int, text string, visible int) {
		if target < cur || target+visible > width {
			return
		}
		b.WriteString(strings.Repeat(" ", target-cur))
		b.WriteString(text)
		cur = target + visible
	}

	labelKey := model.SeatKey{Row: row.row, Seat: 1}
	label := fmt.Sprintf("%*s", rowLabelWidth, labelKey.RowLabel())
	writeAt(tx, label, rowLabelWidth)

	for seat := 1; seat <= row.section.SeatsPerRow; seat++ {
		key := model.SeatKey{Row: row.row, Seat: seat}
		status := model.StatusAvailable
		if machine != nil {
			if resolved, err := machine.Status(key); err == nil {
				status = resolved
			}
		}
		token := seatToken(status, cellWidth, seat, showNumbers)
		style := seatStyle(status)
		if key == cursor {
			style = styleCursor
		}
		x := rowLabelWidth + 1 + (seat-1)*stride + tx
		writeAt(x, style.Render(token), cellWidth)
	}
	return b.String()
}

// clipLine places text at offset tx, clipping whatever falls outside [0, width)
// before styling, so partially panned-off headers keep their visible part.
func clipLine(text string, style lipgloss.Style, tx, width int) string {
	runes := []rune(text)
	if tx < 0 {
		cut := -tx
		if cut >= len(runes) {
			return ""
		}
		runes = runes[cut:]
		tx = 0
	}
	if tx >= width {
		return ""
	}
	if tx+len(runes) > width {
		runes = runes[:width-tx]
	}
	if len(runes) == 0 {
		return ""
	}
	return strings.Repeat(" ", tx) + style.Render(string(runes))
}

type screenBlock struct {
	top string
	mid string
	bot string
}

// stageBarBlock renders the stage banner box above the chart.
func stageBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

// formatAmount renders integer minor units with thousands separators.
func formatAmount(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out + " T"
}
