// Package pricing maps a selected-seat set to a total amount using the
// layout's per-section price table.
package pricing

import (
	"errors"
	"fmt"

	"theater-booking-cli/inventory"
	"theater-booking-cli/model"
)

// ErrUnpricedSeat marks a selected seat that matches no pricing section.
// It indicates a layout/pricing-table mismatch and is fatal to the session:
// price correctness is non-negotiable for checkout.
var ErrUnpricedSeat = errors.New("seat matches no pricing section")

// Total sums the owning section's unit price for every selected seat.
// It is pure: same inputs always yield the same total, and the result does not
// depend on the order of keys. Amounts are integer minor units.
func Total(inv *inventory.Inventory, keys []model.SeatKey) (int64, error) {
	var total int64
	for _, key := range keys {
		section, err := inv.SectionFor(key)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrUnpricedSeat, key)
		}
		total += section.UnitPrice
	}
	return total, nil
}

// PerSection breaks the total down by section name, in the layout's declared
// section order. Sections with no selected seats are omitted.
type SectionSubtotal struct {
	Section model.Section
	Seats   int
	Amount  int64
}

// Breakdown returns per-section subtotals for the order summary.
func Breakdown(inv *inventory.Inventory, keys []model.SeatKey) ([]SectionSubtotal, error) {
	byName := map[string]*SectionSubtotal{}
	for _, key := range keys {
		section, err := inv.SectionFor(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnpricedSeat, key)
		}
		entry := byName[section.Name]
		if entry == nil {
			entry = &SectionSubtotal{Section: section}
			byName[section.Name] = entry
		}
		entry.Seats++
		entry.Amount += section.UnitPrice
	}

	var out []SectionSubtotal
	for _, section := range inv.Layout().Sections {
		if entry, ok := byName[section.Name]; ok {
			out = append(out, *entry)
		}
	}
	return out, nil
}
