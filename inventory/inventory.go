// Package inventory resolves a venue layout plus a per-showtime override
// snapshot into the full seat collection. An Inventory is immutable; a fresh
// override snapshot means building a new one.
package inventory

import (
	"fmt"

	"theater-booking-cli/model"
)

// UnknownSeatError marks a seat key that is not part of the layout. It is a
// programming or data error and is never swallowed.
type UnknownSeatError struct {
	Key model.SeatKey
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s is not part of the layout", e.Key)
}

// Inventory holds resolved seat statuses and the seat→section index for one
// showtime snapshot.
type Inventory struct {
	layout   model.Layout
	statuses map[model.SeatKey]model.SeatStatus
	sections map[model.SeatKey]int
}

// New builds an inventory from a layout and a seat-status override snapshot.
// Every override key must belong to the layout.
func New(layout model.Layout, overrides model.SeatOverrides) (*Inventory, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	inv := &Inventory{
		layout:   layout,
		statuses: make(map[model.SeatKey]model.SeatStatus, layout.Capacity()),
		sections: make(map[model.SeatKey]int, layout.Capacity()),
	}
	for i, section := range layout.Sections {
		for row := section.StartRow; row <= section.EndRow(); row++ {
			for seat := 1; seat <= section.SeatsPerRow; seat++ {
				key := model.SeatKey{Row: row, Seat: seat}
				inv.statuses[key] = model.StatusAvailable
				inv.sections[key] = i
			}
		}
	}

	if err := inv.applyOverrides(overrides.Purchased, model.StatusPurchased); err != nil {
		return nil, err
	}
	if err := inv.applyOverrides(overrides.PendingPayment, model.StatusPendingPayment); err != nil {
		return nil, err
	}
	if err := inv.applyOverrides(overrides.Blocked, model.StatusBlocked); err != nil {
		return nil, err
	}
	return inv, nil
}

func (inv *Inventory) applyOverrides(keys []string, status model.SeatStatus) error {
	for _, raw := range keys {
		key, err := model.ParseSeatKey(raw)
		if err != nil {
			return err
		}
		if _, ok := inv.statuses[key]; !ok {
			return &UnknownSeatError{Key: key}
		}
		inv.statuses[key] = status
	}
	return nil
}

// Layout returns the layout the inventory was built from.
func (inv *Inventory) Layout() model.Layout {
	return inv.layout
}

// Capacity returns the total seat count.
func (inv *Inventory) Capacity() int {
	return len(inv.statuses)
}

// Contains reports whether the key belongs to the layout.
func (inv *Inventory) Contains(key model.SeatKey) bool {
	_, ok := inv.statuses[key]
	return ok
}

// ResolveStatus looks up the seat's status from the snapshot.
func (inv *Inventory) ResolveStatus(key model.SeatKey) (model.SeatStatus, error) {
	status, ok := inv.statuses[key]
	if !ok {
		return "", &UnknownSeatError{Key: key}
	}
	return status, nil
}

// SectionFor returns the section owning the seat. The index is precomputed
// once per layout, so this is a map lookup rather than a range scan.
func (inv *Inventory) SectionFor(key model.SeatKey) (model.Section, error) {
	i, ok := inv.sections[key]
	if !ok {
		return model.Section{}, &UnknownSeatError{Key: key}
	}
	return inv.layout.Sections[i], nil
}

// CountByStatus tallies seats per status, treating the given selected set as
// selected regardless of the underlying snapshot status.
func (inv *Inventory) CountByStatus(selected map[model.SeatKey]bool) map[model.SeatStatus]int {
	counts := map[model.SeatStatus]int{}
	for key, status := range inv.statuses {
		if selected[key] {
			counts[model.StatusSelected]++
			continue
		}
		counts[status]++
	}
	return counts
}
