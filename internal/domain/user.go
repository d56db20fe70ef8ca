package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a renter account. Registration, roles, and authentication live
// outside this service; the reservation core only needs to resolve a user id
// to an existing record before accepting a booking.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
