package pricing

import (
	"errors"
	"testing"

	"theater-booking-cli/inventory"
	"theater-booking-cli/model"
)

func testInventory(t *testing.T) *inventory.Inventory {
	t.Helper()
	layout := model.Layout{
		VenueID: "v1",
		Sections: []model.Section{
			{Name: "VIP", StartRow: 1, Rows: 2, SeatsPerRow: 12, UnitPrice: 150000},
			{Name: "Standard", StartRow: 3, Rows: 4, SeatsPerRow: 16, UnitPrice: 100000},
		},
	}
	inv, err := inventory.New(layout, model.SeatOverrides{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return inv
}

func TestTotal_MixedSections(t *testing.T) {
	inv := testInventory(t)
	keys := []model.SeatKey{{Row: 1, Seat: 1}, {Row: 3, Seat: 5}}

	total, err := Total(inv, keys)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if total != 250000 {
		t.Fatalf("expected 250000, got %d", total)
	}
}

func TestTotal_SameSectionPair(t *testing.T) {
	inv := testInventory(t)
	keys := []model.SeatKey{{Row: 1, Seat: 1}, {Row: 2, Seat: 12}}

	total, err := Total(inv, keys)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if total != 300000 {
		t.Fatalf("expected 300000, got %d", total)
	}
}

func TestTotal_OrderIndependent(t *testing.T) {
	inv := testInventory(t)
	forward := []model.SeatKey{{Row: 1, Seat: 1}, {Row: 3, Seat: 5}, {Row: 4, Seat: 2}}
	backward := []model.SeatKey{{Row: 4, Seat: 2}, {Row: 3, Seat: 5}, {Row: 1, Seat: 1}}

	a, err := Total(inv, forward)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	b, err := Total(inv, backward)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if a != b {
		t.Fatalf("total must not depend on key order: %d vs %d", a, b)
	}
}

func TestTotal_EmptySelectionIsZero(t *testing.T) {
	total, err := Total(testInventory(t), nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0, got %d", total)
	}
}

func TestTotal_UnpricedSeatIsFatal(t *testing.T) {
	inv := testInventory(t)
	_, err := Total(inv, []model.SeatKey{{Row: 1, Seat: 1}, {Row: 9, Seat: 1}})
	if !errors.Is(err, ErrUnpricedSeat) {
		t.Fatalf("expected ErrUnpricedSeat, got %v", err)
	}
}

func TestBreakdown_DeclaredSectionOrder(t *testing.T) {
	inv := testInventory(t)
	keys := []model.SeatKey{{Row: 4, Seat: 2}, {Row: 1, Seat: 1}, {Row: 3, Seat: 5}}

	breakdown, err := Breakdown(inv, keys)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(breakdown))
	}
	if breakdown[0].Section.Name != "VIP" || breakdown[0].Seats != 1 || breakdown[0].Amount != 150000 {
		t.Fatalf("unexpected first entry: %+v", breakdown[0])
	}
	if breakdown[1].Section.Name != "Standard" || breakdown[1].Seats != 2 || breakdown[1].Amount != 200000 {
		t.Fatalf("unexpected second entry: %+v", breakdown[1])
	}
}

func TestBreakdown_OmitsEmptySections(t *testing.T) {
	inv := testInventory(t)
	breakdown, err := Breakdown(inv, []model.SeatKey{{Row: 3, Seat: 1}})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(breakdown) != 1 || breakdown[0].Section.Name != "Standard" {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}
}
