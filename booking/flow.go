// Package booking sequences the three-step purchase wizard and composes the
// inventory, selection and pricing engines behind a single intent surface.
package booking

import (
	"errors"
	"fmt"

	"theater-booking-cli/inventory"
	"theater-booking-cli/model"
	"theater-booking-cli/pricing"
	"theater-booking-cli/selection"
)

// Step is the wizard position.
type Step int

const (
	ChooseShowtime Step = iota
	ChooseSeats
	Confirm
)

func (s Step) String() string {
	switch s {
	case ChooseShowtime:
		return "choose showtime"
	case ChooseSeats:
		return "choose seats"
	case Confirm:
		return "confirm"
	default:
		return "unknown"
	}
}

var (
	// ErrShowtimeFull rejects selecting a showtime whose capacity is gone.
	ErrShowtimeFull = errors.New("showtime is full")
	// ErrUnknownShowtime rejects a showtime id the flow was not given.
	ErrUnknownShowtime = errors.New("unknown showtime")
	// ErrEmptySelection rejects confirming with no seats chosen.
	ErrEmptySelection = errors.New("no seats selected")
	// ErrSnapshotPending rejects seat operations before the showtime's seat
	// snapshot has resolved.
	ErrSnapshotPending = errors.New("seat snapshot not loaded yet")
	// ErrWrongStep rejects an intent issued outside its step.
	ErrWrongStep = errors.New("operation not valid in this step")
)

// Flow is the booking orchestrator. All methods are synchronous; the host
// drives the asynchronous seat-snapshot fetch and hands the result to
// ApplySnapshot, which guards against stale responses by showtime id.
type Flow struct {
	showtimes map[string]model.Showtime
	maxSeats  int

	step     Step
	active   model.Showtime
	loading  bool
	machine  *selection.Machine
	checkout *model.CheckoutRequest
}

// Option configures a Flow.
type Option func(*Flow)

// WithMaxSeats enables the selection-limit policy on the seat machine.
func WithMaxSeats(n int) Option {
	return func(f *Flow) { f.maxSeats = n }
}

// New creates a flow over the given showtimes, starting at ChooseShowtime.
func New(showtimes []model.Showtime, opts ...Option) *Flow {
	f := &Flow{
		showtimes: make(map[string]model.Showtime, len(showtimes)),
		step:      ChooseShowtime,
	}
	for _, st := range showtimes {
		f.showtimes[st.ID] = st
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SelectShowtime sets the active showtime and advances to ChooseSeats. Full
// showtimes are rejected and the step stays at ChooseShowtime. The seat
// snapshot becomes pending; the host must fetch it and call ApplySnapshot.
func (f *Flow) SelectShowtime(id string) error {
	if f.step != ChooseShowtime {
		return fmt.Errorf("%w: %s", ErrWrongStep, f.step)
	}
	st, ok := f.showtimes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShowtime, id)
	}
	if st.Full() {
		return ErrShowtimeFull
	}
	f.active = st
	f.step = ChooseSeats
	f.loading = true
	f.machine = nil
	f.checkout = nil
	return nil
}

// ApplySnapshot installs the seat inventory for the given showtime. Responses
// for any other showtime are stale and discarded; the return value reports
// whether the snapshot was applied.
func (f *Flow) ApplySnapshot(showtimeID string, inv *inventory.Inventory) bool {
	if f.active.ID == "" || showtimeID != f.active.ID {
		return false
	}
	opts := []selection.Option{}
	if f.maxSeats > 0 {
		opts = append(opts, selection.WithMaxSeats(f.maxSeats))
	}
	f.machine = selection.New(inv, opts...)
	f.loading = false
	return true
}

// ToggleSeat forwards a seat tap to the selection machine.
func (f *Flow) ToggleSeat(key model.SeatKey) error {
	if f.step != ChooseSeats {
		return fmt.Errorf("%w: %s", ErrWrongStep, f.step)
	}
	if f.loading || f.machine == nil {
		return ErrSnapshotPending
	}
	_, err := f.machine.Toggle(key)
	return err
}

// ConfirmSeats freezes the current selection and total into the checkout
// request and advances to Confirm. Rejected while the snapshot is loading or
// the selection is empty.
func (f *Flow) ConfirmSeats() (model.CheckoutRequest, error) {
	if f.step != ChooseSeats {
		return model.CheckoutRequest{}, fmt.Errorf("%w: %s", ErrWrongStep, f.step)
	}
	if f.loading || f.machine == nil {
		return model.CheckoutRequest{}, ErrSnapshotPending
	}
	if f.machine.Len() == 0 {
		return model.CheckoutRequest{}, ErrEmptySelection
	}

	keys := f.machine.Keys()
	total, err := pricing.Total(f.machine.Inventory(), keys)
	if err != nil {
		return model.CheckoutRequest{}, err
	}

	raw := make([]string, len(keys))
	for i, key := range keys {
		raw[i] = key.String()
	}
	req := model.CheckoutRequest{
		ShowtimeID:  f.active.ID,
		SeatKeys:    raw,
		TotalAmount: total,
	}
	f.checkout = &req
	f.step = Confirm
	return req, nil
}

// Back moves one step backward. Returning from Confirm keeps the selection so
// the user can revise seats; returning from ChooseSeats to ChooseShowtime
// clears it, since seat inventory is showtime-specific.
func (f *Flow) Back() {
	switch f.step {
	case Confirm:
		f.step = ChooseSeats
		f.checkout = nil
	case ChooseSeats:
		f.step = ChooseShowtime
		f.active = model.Showtime{}
		f.machine = nil
		f.loading = false
		f.checkout = nil
	}
}

// Step returns the current wizard position.
func (f *Flow) Step() Step {
	return f.step
}

// ActiveShowtime returns the selected showtime, zero before one is chosen.
func (f *Flow) ActiveShowtime() model.Showtime {
	return f.active
}

// Loading reports whether the active showtime's seat snapshot is still
// pending.
func (f *Flow) Loading() bool {
	return f.loading
}

// Selection exposes the seat machine, nil until the snapshot resolves.
func (f *Flow) Selection() *selection.Machine {
	return f.machine
}

// Total computes the running price of the current selection.
func (f *Flow) Total() (int64, error) {
	if f.machine == nil {
		return 0, nil
	}
	return pricing.Total(f.machine.Inventory(), f.machine.Keys())
}

// Checkout returns the frozen request, valid only in the Confirm step.
func (f *Flow) Checkout() (model.CheckoutRequest, bool) {
	if f.checkout == nil {
		return model.CheckoutRequest{}, false
	}
	return *f.checkout, true
}
