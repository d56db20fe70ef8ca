package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
//
//	PENDING   → CONFIRMED, CANCELLED
//	CONFIRMED → COMPLETED, CANCELLED
//	COMPLETED, CANCELLED are terminal
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// ValidBookingStatus reports whether s is a known booking status value.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// bookingTransitions is the allowed-transition table. Absent keys are
// terminal states.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a booking in state from may move to state to.
func (from BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Active reports whether the booking occupies the vehicle's calendar.
// Only active bookings participate in the overlap check.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking is a reservation of one vehicle by one renter for an inclusive
// date range. All pricing fields are derived by the pricing engine at
// creation time and never client-supplied.
type Booking struct {
	ID             uuid.UUID     `json:"id"`
	VehicleID      uuid.UUID     `json:"vehicle_id"`
	UserID         uuid.UUID     `json:"user_id"`
	StartDate      time.Time     `json:"start_date"` // calendar date, midnight UTC
	EndDate        time.Time     `json:"end_date"`   // inclusive
	Days           int           `json:"days"`
	Subtotal       Money         `json:"subtotal"`
	Discount       Money         `json:"discount"`
	GST            Money         `json:"gst"`
	Total          Money         `json:"total"`
	Status         BookingStatus `json:"status"`
	PickupLocation string        `json:"pickup_location,omitempty"`
	DropLocation   string        `json:"drop_location,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Overlaps reports whether the inclusive ranges [b.StartDate, b.EndDate] and
// [start, end] share at least one calendar day.
func (b Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !start.After(b.EndDate)
}
