// Package selection implements the per-seat state machine that turns an
// inventory snapshot and toggle intents into a consistent selected-seat set.
package selection

import (
	"errors"
	"fmt"
	"sort"

	"theater-booking-cli/inventory"
	"theater-booking-cli/model"
)

// ErrSelectionLimit is returned when a toggle would exceed the configured
// maximum selection size. State is left untouched.
var ErrSelectionLimit = errors.New("selection limit reached")

// Machine tracks a selection over one inventory snapshot.
//
// Transitions per seat:
//
//	available --select--> selected
//	selected  --deselect--> available
//
// Purchased, pendingPayment and blocked seats are terminal for the session;
// toggling them is a no-op.
type Machine struct {
	inv      *inventory.Inventory
	selected map[model.SeatKey]bool
	maxSeats int
}

// Option configures a Machine.
type Option func(*Machine)

// WithMaxSeats caps the selection size; n <= 0 means unlimited.
func WithMaxSeats(n int) Option {
	return func(m *Machine) { m.maxSeats = n }
}

// New creates a selection machine over the given inventory.
func New(inv *inventory.Inventory, opts ...Option) *Machine {
	m := &Machine{
		inv:      inv,
		selected: map[model.SeatKey]bool{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Toggle flips the seat between available and selected. It reports whether the
// seat ended up selected. Terminal seats are a no-op. Every failure leaves the
// selection unchanged.
func (m *Machine) Toggle(key model.SeatKey) (bool, error) {
	status, err := m.Status(key)
	if err != nil {
		return false, err
	}
	switch status {
	case model.StatusSelected:
		delete(m.selected, key)
		return false, nil
	case model.StatusAvailable:
		if m.maxSeats > 0 && len(m.selected) >= m.maxSeats {
			return false, fmt.Errorf("%w (max %d seats)", ErrSelectionLimit, m.maxSeats)
		}
		m.selected[key] = true
		return true, nil
	default:
		// Terminal status. The UI never offers the action; tolerate it here.
		return false, nil
	}
}

// Status resolves the seat's effective status: the snapshot status overlaid
// with the current selection.
func (m *Machine) Status(key model.SeatKey) (model.SeatStatus, error) {
	status, err := m.inv.ResolveStatus(key)
	if err != nil {
		return "", err
	}
	if m.selected[key] {
		return model.StatusSelected, nil
	}
	return status, nil
}

// Selected reports whether the seat is currently in the selection.
func (m *Machine) Selected(key model.SeatKey) bool {
	return m.selected[key]
}

// Len returns the selection size.
func (m *Machine) Len() int {
	return len(m.selected)
}

// Keys returns the selection in row-major order for display and reporting.
func (m *Machine) Keys() []model.SeatKey {
	keys := make([]model.SeatKey, 0, len(m.selected))
	for key := range m.selected {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Seat < keys[j].Seat
	})
	return keys
}

// Clear drops the whole selection.
func (m *Machine) Clear() {
	m.selected = map[model.SeatKey]bool{}
}

// Inventory returns the snapshot the machine operates on.
func (m *Machine) Inventory() *inventory.Inventory {
	return m.inv
}
