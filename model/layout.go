package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatKey identifies one seat within a venue layout by row and seat-in-row,
// both 1-based. Its wire form is "row-seat", e.g. "1-1".
type SeatKey struct {
	Row  int
	Seat int
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%d-%d", k.Row, k.Seat)
}

// RowLabel returns the display letter for the key's row ("A" for row 1).
// Rows past "Z" fall back to the numeric row.
func (k SeatKey) RowLabel() string {
	if k.Row >= 1 && k.Row <= 26 {
		return string(rune('A' + k.Row - 1))
	}
	return strconv.Itoa(k.Row)
}

// Label returns the human seat label, e.g. "A7" for seat key "1-7".
func (k SeatKey) Label() string {
	return fmt.Sprintf("%s%d", k.RowLabel(), k.Seat)
}

// ParseSeatKey parses the "row-seat" wire form.
func ParseSeatKey(s string) (SeatKey, error) {
	row, seat, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return SeatKey{}, fmt.Errorf("invalid seat key %q", s)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return SeatKey{}, fmt.Errorf("invalid seat key %q", s)
	}
	c, err := strconv.Atoi(seat)
	if err != nil {
		return SeatKey{}, fmt.Errorf("invalid seat key %q", s)
	}
	if r < 1 || c < 1 {
		return SeatKey{}, fmt.Errorf("invalid seat key %q", s)
	}
	return SeatKey{Row: r, Seat: c}, nil
}

// SeatStatus is the per-seat state for one booking session.
type SeatStatus string

const (
	StatusAvailable      SeatStatus = "available"
	StatusSelected       SeatStatus = "selected"
	StatusPurchased      SeatStatus = "purchased"
	StatusPendingPayment SeatStatus = "pendingPayment"
	StatusBlocked        SeatStatus = "blocked"
)

// Terminal reports whether the status admits no transitions this session.
func (s SeatStatus) Terminal() bool {
	switch s {
	case StatusPurchased, StatusPendingPayment, StatusBlocked:
		return true
	}
	return false
}

// Section is a contiguous row range of a layout sharing one ticket price.
// Prices are integer minor units.
type Section struct {
	Name        string `json:"name"`
	StartRow    int    `json:"startRow"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seatsPerRow"`
	UnitPrice   int64  `json:"unitPrice"`
}

// ContainsRow reports whether row falls inside the section's row range.
func (s Section) ContainsRow(row int) bool {
	return row >= s.StartRow && row < s.StartRow+s.Rows
}

// EndRow returns the last row of the section, inclusive.
func (s Section) EndRow() int {
	return s.StartRow + s.Rows - 1
}

// Capacity returns the number of seats in the section.
func (s Section) Capacity() int {
	return s.Rows * s.SeatsPerRow
}

// Layout is the full venue grid: an ordered list of non-overlapping sections.
// Read-only for the duration of a booking session.
type Layout struct {
	VenueID  string    `json:"venueId"`
	Sections []Section `json:"sections"`
}

// Capacity returns total seats across all sections.
func (l Layout) Capacity() int {
	total := 0
	for _, s := range l.Sections {
		total += s.Capacity()
	}
	return total
}

// Validate checks the layout invariants: at least one section, positive
// dimensions, unique section names, and no overlapping row ranges. Names must
// be unique because they key the pricing breakdown.
func (l Layout) Validate() error {
	if len(l.Sections) == 0 {
		return fmt.Errorf("layout %s has no sections", l.VenueID)
	}
	seen := map[int]string{}
	names := map[string]bool{}
	for _, s := range l.Sections {
		if s.StartRow < 1 || s.Rows < 1 || s.SeatsPerRow < 1 {
			return fmt.Errorf("section %q has invalid dimensions", s.Name)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate section name %q", s.Name)
		}
		names[s.Name] = true
		for row := s.StartRow; row <= s.EndRow(); row++ {
			if other, ok := seen[row]; ok {
				return fmt.Errorf("sections %q and %q overlap on row %d", other, s.Name, row)
			}
			seen[row] = s.Name
		}
	}
	return nil
}

// Venue is a bookable place with a seating layout.
type Venue struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hall    string `json:"hall"`
	City    string `json:"city"`
	Address string `json:"address"`
}
