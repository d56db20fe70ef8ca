package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
)

// dateLayout is the wire format for calendar dates. No time-of-day component
// is ever exchanged.
const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD string into a midnight-UTC time.Time.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// bookingResponse is the wire shape of a booking. Dates render as calendar
// dates; monetary fields render as two-decimal numbers via domain.Money.
type bookingResponse struct {
	ID             uuid.UUID    `json:"id"`
	VehicleID      uuid.UUID    `json:"vehicle_id"`
	UserID         uuid.UUID    `json:"user_id"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date"`
	Days           int          `json:"days"`
	Subtotal       domain.Money `json:"subtotal"`
	Discount       domain.Money `json:"discount"`
	GST            domain.Money `json:"gst"`
	Total          domain.Money `json:"total"`
	Status         string       `json:"status"`
	PickupLocation string       `json:"pickup_location,omitempty"`
	DropLocation   string       `json:"drop_location,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		VehicleID:      b.VehicleID,
		UserID:         b.UserID,
		StartDate:      b.StartDate.Format(dateLayout),
		EndDate:        b.EndDate.Format(dateLayout),
		Days:           b.Days,
		Subtotal:       b.Subtotal,
		Discount:       b.Discount,
		GST:            b.GST,
		Total:          b.Total,
		Status:         string(b.Status),
		PickupLocation: b.PickupLocation,
		DropLocation:   b.DropLocation,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = toBookingResponse(b)
	}
	return out
}

// paymentResponse is the wire shape of a payment.
type paymentResponse struct {
	ID            uuid.UUID    `json:"id"`
	BookingID     uuid.UUID    `json:"booking_id"`
	Amount        domain.Money `json:"amount"`
	Method        string       `json:"method"`
	Status        string       `json:"status"`
	TransactionID string       `json:"transaction_id"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPaymentResponses(payments []domain.Payment) []paymentResponse {
	out := make([]paymentResponse, len(payments))
	for i, p := range payments {
		out[i] = toPaymentResponse(p)
	}
	return out
}
