package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"theater-booking-cli/auth"
	"theater-booking-cli/booking"
	"theater-booking-cli/inventory"
	"theater-booking-cli/model"
	"theater-booking-cli/selection"
	"theater-booking-cli/service"
	"theater-booking-cli/store"
	"theater-booking-cli/ticket"
	"theater-booking-cli/viewport"
)

type appState int

const (
	stateLoadingVenues appState = iota
	stateSelectVenue
	stateLoadingShowtimes
	stateSelectShowtime
	stateLoadingSeats
	stateSeatMap
	stateConfirm
	stateSubmitting
	stateDone
	stateError
)

const maxSeatsPerOrder = 8

type appModel struct {
	client   *service.Client
	identity auth.Identity

	state     appState
	lastState appState
	err       error

	width  int
	height int

	venues    []model.Venue
	venue     model.Venue
	layout    model.Layout
	showtimes []model.Showtime

	venueList    list.Model
	showtimeList list.Model

	flow            *booking.Flow
	vp              viewport.Viewport
	gestures        viewport.Classifier
	cursor          model.SeatKey
	showSeatNumbers bool
	notice          string

	checkout   model.CheckoutRequest
	result     model.BookingResult
	ticketPath string
	ticketDir  string

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type venuesMsg struct {
	venues []model.Venue
	err    error
}

type venueDataMsg struct {
	venueID   string
	layout    model.Layout
	showtimes []model.Showtime
	err       error
}

type seatSnapshotMsg struct {
	showtimeID string
	inv        *inventory.Inventory
	err        error
}

type bookingMsg struct {
	result     model.BookingResult
	ticketPath string
	err        error
}

func New() tea.Model {
	client := service.NewClient(nil, os.Getenv("THEATER_API_BASE_URL"))

	ticketDir := strings.TrimSpace(os.Getenv("THEATER_TICKET_DIR"))
	if ticketDir == "" {
		ticketDir = "tickets"
	}

	m := appModel{
		client:    client,
		identity:  auth.Current(),
		state:     stateLoadingVenues,
		vp:        viewport.New(),
		ticketDir: ticketDir,
	}

	m.venueList = newList("Select Venue")
	m.showtimeList = newList("Select Showtime")
	m.showSeatNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchVenuesCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
	case tea.MouseMsg:
		if m.state == stateSeatMap {
			return m.handleMouse(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case venuesMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.venues = msg.venues
		m.venueList.SetItems(buildVenueItems(msg.venues))
		m.state = stateSelectVenue
		return m, nil

	case venueDataMsg:
		if msg.venueID != m.venue.ID {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectVenue)
		}
		m.layout = msg.layout
		m.showtimes = msg.showtimes
		m.flow = booking.New(msg.showtimes, booking.WithMaxSeats(maxSeatsPerOrder))
		m.showtimeList.Title = fmt.Sprintf("Showtimes • %s", m.venue.Name)
		m.showtimeList.SetItems(buildShowtimeItems(msg.showtimes))
		m.state = stateSelectShowtime
		return m, nil

	case seatSnapshotMsg:
		if msg.err != nil {
			if m.state == stateLoadingSeats {
				return m, errWithReturnCmd(fmt.Errorf("failed to load seating chart: %w", msg.err), stateSelectShowtime)
			}
			return m, nil
		}
		// The flow discards snapshots for any showtime other than the
		// active one, so a stale response cannot leak into the chart.
		if m.flow == nil || !m.flow.ApplySnapshot(msg.showtimeID, msg.inv) {
			return m, nil
		}
		m.vp.Reset()
		m.gestures.Cancel()
		m.cursor = firstSeat(m.layout)
		m.notice = ""
		m.state = stateSeatMap
		return m, nil

	case bookingMsg:
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateConfirm)
		}
		m.result = msg.result
		m.ticketPath = msg.ticketPath
		m.state = stateDone
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectVenue:
		m.venueList, cmd = m.venueList.Update(msg)
	case stateSelectShowtime:
		m.showtimeList, cmd = m.showtimeList.Update(msg)
	}
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "q":
		if m.state != stateSelectVenue && m.state != stateSelectShowtime {
			return m, tea.Quit, true
		}
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		return m.goBack()
	}

	switch m.state {
	case stateSeatMap:
		return m.handleSeatMapKey(msg)
	case stateConfirm:
		if msg.Type == tea.KeyEnter {
			m.state = stateSubmitting
			return m, tea.Batch(m.submitBookingCmd(), m.spinner.Tick), true
		}
		return m, nil, true
	case stateDone:
		if msg.Type == tea.KeyEnter {
			return m.restartAtShowtimes()
		}
		return m, nil, true
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectVenue:
			item, ok := m.venueList.SelectedItem().(venueItem)
			if !ok {
				return m, nil, true
			}
			m.venue = item.venue
			_ = store.RememberVenue(m.venue)
			m.state = stateLoadingShowtimes
			return m, tea.Batch(m.fetchVenueDataCmd(m.venue.ID), m.spinner.Tick), true
		case stateSelectShowtime:
			item, ok := m.showtimeList.SelectedItem().(showtimeItem)
			if !ok {
				return m, nil, true
			}
			if err := m.flow.SelectShowtime(item.showtime.ID); err != nil {
				if errors.Is(err, booking.ErrShowtimeFull) {
					m.notice = "this showtime is full"
					return m, nil, true
				}
				return m, errCmd(err), true
			}
			m.notice = ""
			m.state = stateLoadingSeats
			return m, tea.Batch(m.fetchSeatSnapshotCmd(item.showtime.ID), m.spinner.Tick), true
		case stateError:
			return m.goBack()
		}
	}
	return m, nil, false
}

func (m appModel) handleSeatMapKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "up":
		m.moveCursor(-1, 0)
		return m, nil, true
	case "down":
		m.moveCursor(1, 0)
		return m, nil, true
	case "left":
		m.moveCursor(0, -1)
		return m, nil, true
	case "right":
		m.moveCursor(0, 1)
		return m, nil, true
	case "enter", " ":
		m.toggleSeat(m.cursor)
		return m, nil, true
	case "+", "=":
		m.vp.ZoomIn()
		return m, nil, true
	case "-", "_":
		m.vp.ZoomOut()
		return m, nil, true
	case "0":
		m.vp.Reset()
		return m, nil, true
	case "n":
		m.showSeatNumbers = !m.showSeatNumbers
		return m, nil, true
	case "c":
		req, err := m.flow.ConfirmSeats()
		switch {
		case errors.Is(err, booking.ErrEmptySelection):
			m.notice = "select at least one seat first"
			return m, nil, true
		case errors.Is(err, booking.ErrSnapshotPending):
			m.notice = "seating chart is still loading"
			return m, nil, true
		case err != nil:
			return m, errCmd(err), true
		}
		m.checkout = req
		m.notice = ""
		m.state = stateConfirm
		return m, nil, true
	}
	return m, nil, true
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		// Wheel zoom never reaches the pan classifier.
		m.vp.ZoomBy(viewport.WheelZoomStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.vp.ZoomBy(-viewport.WheelZoomStep)
		return m, nil
	}

	ev := viewport.PointerEvent{
		X:      float64(msg.X),
		Y:      float64(msg.Y),
		Time:   time.Now(),
		Source: viewport.Mouse,
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		// Zoom controls own their pointer stream from press to release; a
		// control press must never be read as a pan start.
		if action, ok := m.controlAt(msg.X, msg.Y); ok {
			m.gestures.Cancel()
			switch action {
			case controlZoomIn:
				m.vp.ZoomIn()
			case controlZoomOut:
				m.vp.ZoomOut()
			case controlReset:
				m.vp.Reset()
			}
			return m, nil
		}
		m.gestures.Press(ev)
		return m, nil

	case tea.MouseActionMotion:
		intent := m.gestures.Move(ev)
		if intent.Kind == viewport.Pan {
			m.vp.Pan(intent.DX, intent.DY)
		}
		return m, nil

	case tea.MouseActionRelease:
		intent := m.gestures.Release(ev)
		if intent.Kind != viewport.Tap {
			return m, nil
		}
		geom := m.chartGeom()
		if key, ok := geom.seatAt(int(intent.X), int(intent.Y)); ok {
			m.toggleSeat(key)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) toggleSeat(key model.SeatKey) {
	if m.flow == nil {
		return
	}
	err := m.flow.ToggleSeat(key)
	switch {
	case err == nil:
		m.notice = ""
	case errors.Is(err, selection.ErrSelectionLimit):
		m.notice = fmt.Sprintf("cannot select, limit of %d seats reached", maxSeatsPerOrder)
	case errors.Is(err, booking.ErrSnapshotPending):
		m.notice = "seating chart is still loading"
	default:
		// Unknown seat keys from hit-testing would be a geometry bug;
		// surface them instead of swallowing.
		m.notice = err.Error()
	}
}

func (m *appModel) moveCursor(dRow, dSeat int) {
	rows := layoutRows(m.layout)
	if len(rows) == 0 {
		return
	}

	row := m.cursor.Row
	if dRow != 0 {
		idx := indexOfRow(rows, row)
		if idx < 0 {
			idx = 0
		}
		idx += dRow
		if idx < 0 {
			idx = 0
		}
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		row = rows[idx]
	}

	section, ok := sectionForRow(m.layout, row)
	if !ok {
		return
	}
	seat := m.cursor.Seat + dSeat
	if seat < 1 {
		seat = 1
	}
	if seat > section.SeatsPerRow {
		seat = section.SeatsPerRow
	}
	m.cursor = model.SeatKey{Row: row, Seat: seat}
}

func (m appModel) goBack() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateSelectShowtime:
		m.state = stateSelectVenue
	case stateSeatMap:
		if m.flow != nil {
			m.flow.Back()
		}
		m.notice = ""
		m.state = stateSelectShowtime
	case stateLoadingSeats:
		// Abandoning the fetch: the in-flight snapshot becomes stale and
		// the flow will discard it on arrival.
		if m.flow != nil {
			m.flow.Back()
		}
		m.state = stateSelectShowtime
	case stateConfirm:
		if m.flow != nil {
			m.flow.Back()
		}
		m.state = stateSeatMap
	case stateDone:
		return m.restartAtShowtimes()
	case stateError:
		m.state = m.lastState
	default:
		return m, nil, true
	}
	return m, nil, true
}

func (m appModel) restartAtShowtimes() (appModel, tea.Cmd, bool) {
	m.flow = booking.New(m.showtimes, booking.WithMaxSeats(maxSeatsPerOrder))
	m.checkout = model.CheckoutRequest{}
	m.result = model.BookingResult{}
	m.ticketPath = ""
	m.state = stateLoadingShowtimes
	return m, tea.Batch(m.fetchVenueDataCmd(m.venue.ID), m.spinner.Tick), true
}

// --- commands ---

func (m appModel) fetchVenuesCmd() tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadVenueCache(); err == nil && fresh && len(cached) > 0 {
			return venuesMsg{venues: cached}
		}
		ctx := context.Background()
		venues, err := m.client.GetVenues(ctx)
		if err == nil && len(venues) > 0 {
			_ = store.SaveVenueCache(venues)
		}
		return venuesMsg{venues: venues, err: err}
	}
}

func (m appModel) fetchVenueDataCmd(venueID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		layout, fresh, err := store.LoadLayoutCache(venueID)
		if err != nil || !fresh {
			layout, err = m.client.GetLayout(ctx, venueID)
			if err != nil {
				return venueDataMsg{venueID: venueID, err: err}
			}
			_ = store.SaveLayoutCache(layout)
		}

		showtimes, fresh, err := store.LoadShowtimeCache(venueID)
		if err != nil || !fresh || len(showtimes) == 0 {
			showtimes, err = m.client.GetShowtimes(ctx, venueID)
			if err != nil {
				return venueDataMsg{venueID: venueID, err: err}
			}
			if len(showtimes) > 0 {
				_ = store.SaveShowtimeCache(venueID, showtimes)
			}
		}
		if len(showtimes) == 0 {
			return venueDataMsg{venueID: venueID, err: fmt.Errorf("no showtimes scheduled for %s", venueID)}
		}
		return venueDataMsg{venueID: venueID, layout: layout, showtimes: showtimes}
	}
}

func (m appModel) fetchSeatSnapshotCmd(showtimeID string) tea.Cmd {
	layout := m.layout
	return func() tea.Msg {
		ctx := context.Background()
		overrides, err := m.client.GetSeatOverrides(ctx, showtimeID)
		if err != nil {
			return seatSnapshotMsg{showtimeID: showtimeID, err: err}
		}
		inv, err := inventory.New(layout, overrides)
		if err != nil {
			return seatSnapshotMsg{showtimeID: showtimeID, err: err}
		}
		return seatSnapshotMsg{showtimeID: showtimeID, inv: inv}
	}
}

func (m appModel) submitBookingCmd() tea.Cmd {
	req := m.checkout
	req.Reference = ticket.NewReference()
	if !m.identity.Anonymous {
		req.UserID = m.identity.UserID
	}
	venue := m.venue
	showtime := m.flow.ActiveShowtime()
	holder := m.identity.DisplayName()
	ticketDir := m.ticketDir

	return func() tea.Msg {
		ctx := context.Background()
		result, err := m.client.SubmitBooking(ctx, req)
		if err != nil {
			return bookingMsg{err: err}
		}
		if !result.Accepted {
			return bookingMsg{result: result}
		}

		path, err := ticket.Save(ticketDir, ticket.Data{
			BookingID: result.BookingID,
			Reference: req.Reference,
			Venue:     venue,
			Showtime:  showtime,
			SeatKeys:  req.SeatKeys,
			Total:     req.TotalAmount,
			Holder:    holder,
		})
		if err != nil {
			// The booking went through; a failed ticket render must not
			// look like a failed booking.
			return bookingMsg{result: result}
		}
		return bookingMsg{result: result, ticketPath: path}
	}
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingVenues:
		return stateSelectVenue
	case stateLoadingShowtimes:
		return stateSelectVenue
	case stateLoadingSeats:
		return stateSelectShowtime
	case stateSubmitting:
		return stateConfirm
	default:
		return stateSelectVenue
	}
}

// --- list plumbing ---

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectVenue:
		return &m.venueList
	case stateSelectShowtime:
		return &m.showtimeList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingVenues ||
		m.state == stateLoadingShowtimes ||
		m.state == stateLoadingSeats ||
		m.state == stateSubmitting
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.venueList.SetSize(m.width, h)
	m.showtimeList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

// --- list items ---

type venueItem struct {
	venue  model.Venue
	recent bool
}

func (v venueItem) Title() string {
	if v.venue.Hall != "" {
		return fmt.Sprintf("%s • %s", v.venue.Name, v.venue.Hall)
	}
	return v.venue.Name
}

func (v venueItem) Description() string {
	parts := []string{}
	if v.recent {
		parts = append(parts, "Recent")
	}
	if v.venue.City != "" {
		parts = append(parts, v.venue.City)
	}
	if v.venue.Address != "" {
		parts = append(parts, v.venue.Address)
	}
	return strings.Join(parts, " • ")
}

func (v venueItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{v.venue.Name, v.venue.Hall, v.venue.City, v.venue.Address}, " "))
}

func buildVenueItems(venues []model.Venue) []list.Item {
	recents, _ := store.LoadRecentVenues()
	byID := map[string]model.Venue{}
	for _, venue := range venues {
		byID[venue.ID] = venue
	}

	var items []list.Item
	used := map[string]bool{}
	for _, recent := range recents {
		if venue, ok := byID[recent.ID]; ok && !used[venue.ID] {
			items = append(items, venueItem{venue: venue, recent: true})
			used[venue.ID] = true
		}
	}

	remaining := make([]model.Venue, 0, len(venues))
	for _, venue := range venues {
		if !used[venue.ID] {
			remaining = append(remaining, venue)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		return strings.ToLower(remaining[i].Name) < strings.ToLower(remaining[j].Name)
	})
	for _, venue := range remaining {
		items = append(items, venueItem{venue: venue})
	}
	return items
}

type showtimeItem struct {
	showtime model.Showtime
}

func (s showtimeItem) Title() string {
	when := s.showtime.StartsAt.Format("Mon 02 Jan • 15:04")
	if s.showtime.Title != "" {
		return fmt.Sprintf("%s • %s", when, s.showtime.Title)
	}
	return when
}

func (s showtimeItem) Description() string {
	if s.showtime.Full() {
		return "sold out"
	}
	parts := []string{}
	if s.showtime.Remaining > 0 {
		parts = append(parts, fmt.Sprintf("%d seats remaining", s.showtime.Remaining))
	}
	if s.showtime.Status == model.ShowtimeUpcoming && !s.showtime.SalesOpenAt.IsZero() {
		wait := time.Until(s.showtime.SalesOpenAt)
		if wait > 0 {
			parts = append(parts, fmt.Sprintf("sales open in %s", wait.Round(time.Minute)))
		}
	}
	if s.showtime.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", int(s.showtime.Duration.Minutes())))
	}
	return strings.Join(parts, " • ")
}

func (s showtimeItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{
		s.showtime.Title,
		s.showtime.StartsAt.Format("Mon 02 Jan 15:04"),
	}, " "))
}

func buildShowtimeItems(showtimes []model.Showtime) []list.Item {
	sorted := append([]model.Showtime{}, showtimes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartsAt.Before(sorted[j].StartsAt)
	})
	items := make([]list.Item, 0, len(sorted))
	for _, st := range sorted {
		items = append(items, showtimeItem{showtime: st})
	}
	return items
}

// --- layout helpers ---

func layoutRows(layout model.Layout) []int {
	var rows []int
	for _, section := range layout.Sections {
		for row := section.StartRow; row <= section.EndRow(); row++ {
			rows = append(rows, row)
		}
	}
	sort.Ints(rows)
	return rows
}

func indexOfRow(rows []int, row int) int {
	for i, r := range rows {
		if r == row {
			return i
		}
	}
	return -1
}

func sectionForRow(layout model.Layout, row int) (model.Section, bool) {
	for _, section := range layout.Sections {
		if section.ContainsRow(row) {
			return section, true
		}
	}
	return model.Section{}, false
}

func firstSeat(layout model.Layout) model.SeatKey {
	rows := layoutRows(layout)
	if len(rows) == 0 {
		return model.SeatKey{}
	}
	return model.SeatKey{Row: rows[0], Seat: 1}
}
