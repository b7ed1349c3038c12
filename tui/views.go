package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"theater-booking-cli/model"
	"theater-booking-cli/pricing"
	"theater-booking-cli/selection"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Bold(true)
)

type chartControl int

const (
	controlZoomOut chartControl = iota
	controlZoomIn
	controlReset
)

// Control hotspots on the controls row, by column range.
var controlSpans = []struct {
	control chartControl
	from    int
	to      int
}{
	{controlZoomOut, 0, 2},
	{controlZoomIn, 4, 6},
	{controlReset, 8, 14},
}

func (m appModel) View() string {
	switch m.state {
	case stateLoadingVenues:
		return m.loadingView("loading venues")
	case stateSelectVenue:
		return m.listView(m.venueList)
	case stateLoadingShowtimes:
		return m.loadingView("loading showtimes")
	case stateSelectShowtime:
		return m.listView(m.showtimeList)
	case stateLoadingSeats:
		return m.loadingView("loading seating chart")
	case stateSeatMap:
		return m.seatMapView()
	case stateConfirm:
		return m.confirmView()
	case stateSubmitting:
		return m.loadingView("submitting booking")
	case stateDone:
		return m.doneView()
	case stateError:
		return m.errorView()
	}
	return ""
}

// headerView is always exactly two lines so the chart geometry below it is
// stable.
func (m appModel) headerView() string {
	title := "Theater Booking"
	if m.venue.Name != "" {
		title = fmt.Sprintf("%s • %s", title, m.venue.Name)
	}
	if st := m.activeShowtime(); st.ID != "" {
		title = fmt.Sprintf("%s • %s %s", title, st.StartsAt.Format("Mon 02 Jan 15:04"), st.Title)
	}

	var hints string
	switch m.state {
	case stateSeatMap:
		hints = "arrows move • enter/space toggle • +/- zoom • 0 reset • n numbers • c confirm • esc back • q quit"
	case stateConfirm:
		hints = "enter submit • esc back to seats • q quit"
	case stateDone:
		hints = "enter book again • q quit"
	default:
		hints = "type to filter • enter select • esc back • ctrl+c quit"
	}
	return titleStyle.Render(title) + "\n" + hint(hints)
}

func (m appModel) activeShowtime() model.Showtime {
	if m.flow == nil {
		return model.Showtime{}
	}
	return m.flow.ActiveShowtime()
}

func (m appModel) loadingView(what string) string {
	return fmt.Sprintf("%s\n\n  %s %s...", m.headerView(), m.spinner.View(), what)
}

func (m appModel) listView(l interface{ View() string }) string {
	view := l.View()
	if m.notice != "" {
		view += "\n" + noticeStyle.Render("  "+m.notice)
	}
	return view
}

// chartTop is the screen row of the chart's first virtual line: the two
// header lines, a blank, the controls row and the three stage-bar lines.
func (m appModel) chartTop() int {
	return 2 + 1 + 1 + 3
}

func (m appModel) controlsRow() int {
	return 3
}

func (m appModel) chartGeom() chartGeom {
	return newChartGeom(m.layout, m.vp, m.chartTop())
}

func (m appModel) controlAt(x, y int) (chartControl, bool) {
	if y != m.controlsRow() {
		return 0, false
	}
	for _, span := range controlSpans {
		if x >= span.from && x <= span.to {
			return span.control, true
		}
	}
	return 0, false
}

func (m appModel) seatMapView() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	controls := fmt.Sprintf("[-] [+] [reset]  zoom %.1fx", m.vp.Scale)
	b.WriteString(hint(controls))
	b.WriteString("\n")

	stage := stageBarBlock(min(width, 60), "STAGE")
	b.WriteString(stage.top + "\n" + stage.mid + "\n" + stage.bot + "\n")

	chartHeight := height - m.chartTop() - 3
	if chartHeight < 5 {
		chartHeight = 5
	}
	var machine = m.selectionMachine()
	b.WriteString(renderChart(m.chartGeom(), machine, m.cursor, m.showSeatNumbers, width, chartHeight))
	b.WriteString("\n")

	legend := fmt.Sprintf("%s available  %s selected  %s sold  %s pending  %s blocked",
		styleAvailable.Render("[]"),
		styleSelected.Render("()"),
		stylePurchased.Render("XX"),
		stylePending.Render("~~"),
		styleBlocked.Render("##"))
	if machine != nil {
		selected := map[model.SeatKey]bool{}
		for _, key := range machine.Keys() {
			selected[key] = true
		}
		counts := machine.Inventory().CountByStatus(selected)
		legend += hint(fmt.Sprintf("   %d of %d seats open", counts[model.StatusAvailable], machine.Inventory().Capacity()))
	}
	b.WriteString(legend)
	b.WriteString("\n")
	b.WriteString(m.selectionSummary())
	return b.String()
}

func (m appModel) selectionMachine() *selection.Machine {
	if m.flow == nil {
		return nil
	}
	return m.flow.Selection()
}

func (m appModel) selectionSummary() string {
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}
	machine := m.selectionMachine()
	if machine == nil || machine.Len() == 0 {
		return hint("no seats selected")
	}

	labels := make([]string, 0, machine.Len())
	for _, key := range machine.Keys() {
		labels = append(labels, key.Label())
	}
	total, err := m.flow.Total()
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return fmt.Sprintf("%d/%d seats  %s  %s",
		machine.Len(), maxSeatsPerOrder,
		valueStyle.Render(strings.Join(labels, ", ")),
		valueStyle.Render(formatAmount(total)))
}

func (m appModel) confirmView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Order Summary"))
	b.WriteString("\n\n")

	st := m.activeShowtime()
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "Venue:", m.venue.Name))
	b.WriteString(fmt.Sprintf("  %-10s %s • %s\n", "Showtime:", st.Title, st.StartsAt.Format("Mon 02 Jan 2006 15:04")))

	machine := m.selectionMachine()
	if machine != nil {
		keys := machine.Keys()
		labels := make([]string, len(keys))
		for i, key := range keys {
			labels[i] = key.Label()
		}
		b.WriteString(fmt.Sprintf("  %-10s %s\n", "Seats:", strings.Join(labels, ", ")))

		if breakdown, err := pricing.Breakdown(machine.Inventory(), keys); err == nil {
			b.WriteString("\n")
			for _, entry := range breakdown {
				b.WriteString(fmt.Sprintf("  %-12s %d × %s = %s\n",
					entry.Section.Name,
					entry.Seats,
					formatAmount(entry.Section.UnitPrice),
					formatAmount(entry.Amount)))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\n  %-10s %s\n", "Total:", valueStyle.Render(formatAmount(m.checkout.TotalAmount))))

	if m.identity.Anonymous {
		b.WriteString("\n  " + noticeStyle.Render("not signed in, booking as guest") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("\n  %-10s %s\n", "Holder:", m.identity.DisplayName()))
	}

	b.WriteString("\n  " + hint("enter to confirm and pay • esc to revise seats"))
	return b.String()
}

func (m appModel) doneView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.result.Accepted {
		b.WriteString("  " + okStyle.Render("✓ Booking confirmed") + "\n\n")
		b.WriteString(fmt.Sprintf("  %-10s %s\n", "Booking:", m.result.BookingID))
		if m.ticketPath != "" {
			b.WriteString(fmt.Sprintf("  %-10s %s\n", "Ticket:", m.ticketPath))
		}
	} else {
		b.WriteString("  " + errorStyle.Render("✗ Booking rejected") + "\n\n")
		if m.result.Message != "" {
			b.WriteString("  " + m.result.Message + "\n")
		}
	}
	b.WriteString("\n  " + hint("enter to book again • q to quit"))
	return b.String()
}

func (m appModel) errorView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString("  " + errorStyle.Render("Error") + "\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error() + "\n")
	}
	b.WriteString("\n  " + hint("enter or esc to go back • ctrl+c to quit"))
	return b.String()
}
