package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource (vehicle, user, booking, or payment) does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidRange is returned when a booking's end date is before its start
// date. Handlers should map this to HTTP 422.
var ErrInvalidRange = errors.New("invalid date range")

// ErrVehicleUnavailable is returned when a booking is attempted against a
// vehicle whose status is not AVAILABLE, or when a vehicle status write is
// attempted while an active booking references it.
// Handlers should map this to HTTP 409 Conflict.
var ErrVehicleUnavailable = errors.New("vehicle unavailable")

// ErrDateConflict is returned when the requested date range overlaps an
// active booking on the same vehicle. Handlers should map this to HTTP 409.
var ErrDateConflict = errors.New("date conflict")

// ErrInvalidTransition is returned when a booking or payment status change
// would leave a terminal state. Handlers should map this to HTTP 409.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrDuplicatePayment is returned when a second payment is created for a
// booking that already has one. Handlers should map this to HTTP 409.
var ErrDuplicatePayment = errors.New("payment already exists for booking")
