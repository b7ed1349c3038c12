package selection

import (
	"errors"
	"testing"

	"theater-booking-cli/inventory"
	"theater-booking-cli/model"
)

func testInventory(t *testing.T, overrides model.SeatOverrides) *inventory.Inventory {
	t.Helper()
	layout := model.Layout{
		VenueID: "v1",
		Sections: []model.Section{
			{Name: "VIP", StartRow: 1, Rows: 2, SeatsPerRow: 12, UnitPrice: 150000},
			{Name: "Main", StartRow: 3, Rows: 4, SeatsPerRow: 16, UnitPrice: 100000},
		},
	}
	inv, err := inventory.New(layout, overrides)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return inv
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	m := New(testInventory(t, model.SeatOverrides{}))
	key := model.SeatKey{Row: 1, Seat: 5}

	selected, err := m.Toggle(key)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !selected || !m.Selected(key) {
		t.Fatal("expected seat to be selected after first toggle")
	}

	selected, err = m.Toggle(key)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if selected || m.Selected(key) {
		t.Fatal("expected seat to be deselected after second toggle")
	}
}

func TestToggle_TerminalSeatsAreNoOps(t *testing.T) {
	overrides := model.SeatOverrides{
		Purchased:      []string{"1-1"},
		PendingPayment: []string{"1-2"},
		Blocked:        []string{"1-3"},
	}
	m := New(testInventory(t, overrides))

	for _, key := range []model.SeatKey{{Row: 1, Seat: 1}, {Row: 1, Seat: 2}, {Row: 1, Seat: 3}} {
		selected, err := m.Toggle(key)
		if err != nil {
			t.Fatalf("expected nil error for %s, got %v", key, err)
		}
		if selected {
			t.Fatalf("expected no selection for terminal seat %s", key)
		}
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty selection, got %d", m.Len())
	}
}

func TestToggle_UnknownSeatFailsAndLeavesStateUnchanged(t *testing.T) {
	m := New(testInventory(t, model.SeatOverrides{}))
	if _, err := m.Toggle(model.SeatKey{Row: 1, Seat: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if _, err := m.Toggle(model.SeatKey{Row: 9, Seat: 1}); err == nil {
		t.Fatal("expected error for seat outside layout")
	}
	if m.Len() != 1 || !m.Selected(model.SeatKey{Row: 1, Seat: 1}) {
		t.Fatal("selection must be unchanged after a failed toggle")
	}
}

func TestToggle_EnforcesSelectionLimit(t *testing.T) {
	m := New(testInventory(t, model.SeatOverrides{}), WithMaxSeats(2))

	if _, err := m.Toggle(model.SeatKey{Row: 1, Seat: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := m.Toggle(model.SeatKey{Row: 1, Seat: 2}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	_, err := m.Toggle(model.SeatKey{Row: 1, Seat: 3})
	if !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("expected selection unchanged at 2, got %d", m.Len())
	}

	// Deselecting past the limit is always allowed.
	if _, err := m.Toggle(model.SeatKey{Row: 1, Seat: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 seat after deselect, got %d", m.Len())
	}
}

func TestStatus_OverlaysSelectionOnSnapshot(t *testing.T) {
	m := New(testInventory(t, model.SeatOverrides{Purchased: []string{"1-1"}}))
	key := model.SeatKey{Row: 2, Seat: 4}

	if _, err := m.Toggle(key); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	status, err := m.Status(key)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if status != model.StatusSelected {
		t.Fatalf("expected selected, got %s", status)
	}

	status, err = m.Status(model.SeatKey{Row: 1, Seat: 1})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if status != model.StatusPurchased {
		t.Fatalf("expected purchased, got %s", status)
	}
}

func TestKeys_RowMajorOrder(t *testing.T) {
	m := New(testInventory(t, model.SeatOverrides{}))
	for _, key := range []model.SeatKey{{Row: 3, Seat: 2}, {Row: 1, Seat: 9}, {Row: 3, Seat: 1}, {Row: 2, Seat: 5}} {
		if _, err := m.Toggle(key); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	keys := m.Keys()
	want := []model.SeatKey{{Row: 1, Seat: 9}, {Row: 2, Seat: 5}, {Row: 3, Seat: 1}, {Row: 3, Seat: 2}}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

func TestClear_EmptiesSelection(t *testing.T) {
	m := New(testInventory(t, model.SeatOverrides{}))
	if _, err := m.Toggle(model.SeatKey{Row: 1, Seat: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("expected empty selection, got %d", m.Len())
	}
}
