package model

import "time"

// ShowtimeStatus mirrors the remote showtime availability flag.
type ShowtimeStatus string

const (
	ShowtimeOpen     ShowtimeStatus = "open"
	ShowtimeFull     ShowtimeStatus = "full"
	ShowtimeUpcoming ShowtimeStatus = "upcoming"
)

// Showtime is one scheduled performance instance with its own seat snapshot.
type Showtime struct {
	ID        string         `json:"id"`
	VenueID   string         `json:"venueId"`
	Title     string         `json:"title"`
	StartsAt  time.Time      `json:"startsAt"`
	Duration  time.Duration  `json:"duration"`
	Status    ShowtimeStatus `json:"status"`
	Remaining int            `json:"remaining"`
	// SalesOpenAt is set for showtimes whose sales have not opened yet.
	SalesOpenAt time.Time `json:"salesOpenAt,omitzero"`
}

// Full reports whether the showtime can no longer be selected.
func (s Showtime) Full() bool {
	return s.Status == ShowtimeFull
}

// SeatOverrides is the per-showtime seat-status snapshot from the data source.
// Any key absent from all three lists resolves to available.
type SeatOverrides struct {
	Purchased      []string `json:"purchased"`
	PendingPayment []string `json:"pendingPayment"`
	Blocked        []string `json:"blocked"`
}
