package model

// CheckoutRequest is the frozen payload handed to the checkout collaborator
// when the user confirms a selection.
type CheckoutRequest struct {
	ShowtimeID  string   `json:"showtimeId"`
	SeatKeys    []string `json:"seatKeys"`
	TotalAmount int64    `json:"totalAmount"`
	// Reference is a client-generated booking reference for reconciliation.
	Reference string `json:"reference"`
	// UserID is the opaque identity from the auth context, empty when anonymous.
	UserID string `json:"userId,omitempty"`
}

// BookingResult is the checkout collaborator's response.
type BookingResult struct {
	BookingID string `json:"bookingId"`
	Accepted  bool   `json:"accepted"`
	Message   string `json:"message,omitempty"`
}
