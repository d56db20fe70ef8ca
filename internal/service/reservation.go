// Package service contains the business logic for the AutoPrime reservation
// backend. Services validate inputs, enforce the booking and payment state
// machines, and orchestrate repo calls inside transaction boundaries.
// No SQL lives here — services depend on the repo.Store interface, not its
// Postgres implementation.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/pricing"
	"github.com/autoprime/backend/internal/repo"
)

// ReservationService coordinates create/update/cancel of bookings.
// Every mutation of the per-vehicle active-booking set runs inside a single
// transaction that first takes the vehicle row lock, so "check availability,
// then commit" is atomic: two concurrent creates for the same vehicle
// serialize behind the lock and the loser sees the winner's booking.
type ReservationService struct {
	store repo.Store
}

// NewReservationService constructs a ReservationService backed by the store.
func NewReservationService(store repo.Store) *ReservationService {
	return &ReservationService{store: store}
}

// CreateBookingInput carries the client-supplied fields of a new booking.
// All pricing fields are derived server-side.
type CreateBookingInput struct {
	VehicleID      uuid.UUID
	UserID         uuid.UUID
	StartDate      time.Time // calendar date, midnight UTC
	EndDate        time.Time // inclusive
	PickupLocation string
	DropLocation   string
}

// Create reserves the vehicle for the requested range.
//
// Failure modes: domain.ErrInvalidRange (end before start), domain.ErrNotFound
// (vehicle or user absent), domain.ErrVehicleUnavailable (vehicle under
// maintenance), domain.ErrDateConflict (overlap with an active booking).
// On success the booking is persisted PENDING and the vehicle moves to BOOKED
// in the same transaction.
func (s *ReservationService) Create(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.EndDate.Before(in.StartDate) {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", domain.ErrInvalidRange)
	}

	var booking domain.Booking
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		exists, err := tx.Users().Exists(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("user %s: %w", in.UserID, domain.ErrNotFound)
		}

		// Row lock: serializes every create for this vehicle across the
		// conflict check and the writes below.
		vehicle, err := tx.Vehicles().GetByIDForUpdate(ctx, in.VehicleID)
		if err != nil {
			return err
		}

		// BOOKED is a derived state: whether the requested dates are free is
		// decided by the overlap check, not by the status flag. Only
		// MAINTENANCE takes the vehicle off the calendar entirely.
		if vehicle.Status == domain.VehicleMaintenance {
			return fmt.Errorf("vehicle %s: %w", vehicle.ID, domain.ErrVehicleUnavailable)
		}

		conflict, err := tx.Bookings().HasConflict(ctx, vehicle.ID, in.StartDate, in.EndDate, nil)
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("vehicle %s [%s, %s]: %w", vehicle.ID,
				in.StartDate.Format("2006-01-02"), in.EndDate.Format("2006-01-02"), domain.ErrDateConflict)
		}

		quote, err := pricing.ForRange(vehicle, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}

		booking, err = tx.Bookings().Create(ctx, domain.Booking{
			VehicleID:      vehicle.ID,
			UserID:         in.UserID,
			StartDate:      in.StartDate,
			EndDate:        in.EndDate,
			Days:           quote.Days,
			Subtotal:       quote.Subtotal,
			Discount:       quote.Discount,
			GST:            quote.GST,
			Total:          quote.Total,
			Status:         domain.BookingPending,
			PickupLocation: in.PickupLocation,
			DropLocation:   in.DropLocation,
		})
		if err != nil {
			return err
		}

		return tx.Vehicles().SetStatus(ctx, vehicle.ID, domain.VehicleBooked)
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	return booking, nil
}

// UpdateStatus applies a booking status transition.
// Returns domain.ErrNotFound if the booking is absent and
// domain.ErrInvalidTransition if the state machine forbids the move.
// CANCELLED and COMPLETED release the vehicle in the same transaction when
// no other active booking still references it.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus domain.BookingStatus) (domain.Booking, error) {
	if !domain.ValidBookingStatus(newStatus) {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.UpdateStatus: status %q: %w", newStatus, domain.ErrValidation)
	}

	var booking domain.Booking
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		var err error
		booking, err = transitionBooking(ctx, tx, id, newStatus)
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.UpdateStatus: %w", err)
	}
	return booking, nil
}

// Delete removes a booking. Removing an active booking releases its vehicle
// to AVAILABLE in the same transaction, unless another active booking still
// references the vehicle.
func (s *ReservationService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		booking, err := tx.Bookings().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// Delete first so the HasActive check below no longer sees this row.
		if err := tx.Bookings().Delete(ctx, id); err != nil {
			return err
		}

		if booking.Status.Active() {
			return releaseVehicleIfIdle(ctx, tx, booking.VehicleID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.ReservationService.Delete: %w", err)
	}
	return nil
}

// GetByID returns a single booking by ID.
func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.GetByID: %w", err)
	}
	return booking, nil
}

// List returns bookings matching the filter, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ReservationService) List(ctx context.Context, f repo.BookingFilter) ([]domain.Booking, error) {
	bookings, err := s.store.Bookings().List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.List: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// CheckAvailability reports whether the vehicle is free for the inclusive
// range [start, end]. Pure read; the single EXISTS query observes one
// consistent snapshot.
func (s *ReservationService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	if end.Before(start) {
		return false, fmt.Errorf("service.ReservationService.CheckAvailability: %w", domain.ErrInvalidRange)
	}

	vehicle, err := s.store.Vehicles().GetByID(ctx, vehicleID)
	if err != nil {
		return false, fmt.Errorf("service.ReservationService.CheckAvailability: %w", err)
	}
	if vehicle.Status == domain.VehicleMaintenance {
		return false, nil
	}

	conflict, err := s.store.Bookings().HasConflict(ctx, vehicleID, start, end, nil)
	if err != nil {
		return false, fmt.Errorf("service.ReservationService.CheckAvailability: %w", err)
	}
	return !conflict, nil
}

// transitionBooking is the single place booking status changes happen. Both
// the reservation coordinator and the payment cascade go through it, so the
// vehicle-release rule holds on every path: CANCELLED and COMPLETED reset the
// vehicle to AVAILABLE inside the caller's transaction. BOOKED mirrors the
// active-booking set, so the release is skipped while another active booking
// on the same vehicle remains.
//
// Lock ordering differs from Create (booking row before vehicle row); the
// store's bounded deadlock retry covers the rare crossing.
func transitionBooking(ctx context.Context, tx repo.Store, id uuid.UUID, newStatus domain.BookingStatus) (domain.Booking, error) {
	booking, err := tx.Bookings().GetByIDForUpdate(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}

	if !booking.Status.CanTransition(newStatus) {
		return domain.Booking{}, fmt.Errorf("booking %s: %s -> %s: %w",
			booking.ID, booking.Status, newStatus, domain.ErrInvalidTransition)
	}

	updated, err := tx.Bookings().SetStatus(ctx, id, newStatus)
	if err != nil {
		return domain.Booking{}, err
	}

	if newStatus == domain.BookingCancelled || newStatus == domain.BookingCompleted {
		if err := releaseVehicleIfIdle(ctx, tx, booking.VehicleID); err != nil {
			return domain.Booking{}, err
		}
	}

	return updated, nil
}

// releaseVehicleIfIdle resets the vehicle to AVAILABLE when no active booking
// references it anymore. The caller has already removed or terminated its own
// booking, so the check sees only the remaining ones.
func releaseVehicleIfIdle(ctx context.Context, tx repo.Store, vehicleID uuid.UUID) error {
	active, err := tx.Bookings().HasActive(ctx, vehicleID)
	if err != nil {
		return err
	}
	if active {
		return nil
	}
	return tx.Vehicles().SetStatus(ctx, vehicleID, domain.VehicleAvailable)
}
