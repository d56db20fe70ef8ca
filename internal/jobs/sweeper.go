// Package jobs contains scheduled maintenance jobs run alongside the API server.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
)

// bookingTransitioner is the slice of the reservation service the sweeper
// needs. Transitions go through the service so vehicle release and state
// machine rules apply the same way they do for API-driven updates.
type bookingTransitioner interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus domain.BookingStatus) (domain.Booking, error)
}

// Sweeper periodically reconciles booking state with the calendar:
// CONFIRMED bookings whose rental period has ended are completed, and
// PENDING bookings that never received a payment within the configured
// window are cancelled, releasing their vehicles.
type Sweeper struct {
	store         repo.Store
	bookings      bookingTransitioner
	pendingMaxAge time.Duration
	logger        *slog.Logger
}

// NewSweeper returns a Sweeper. pendingMaxAge is how long a PENDING booking
// may wait for payment before being cancelled.
func NewSweeper(store repo.Store, bookings bookingTransitioner, pendingMaxAge time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:         store,
		bookings:      bookings,
		pendingMaxAge: pendingMaxAge,
		logger:        logger,
	}
}

// Run executes one sweep pass. Individual booking failures are logged and
// skipped so one bad row cannot stall the rest of the sweep; only listing
// errors abort the pass.
func (s *Sweeper) Run(ctx context.Context) error {
	now := time.Now().UTC()

	if err := s.completeEnded(ctx, now); err != nil {
		return fmt.Errorf("jobs.Sweeper.Run: %w", err)
	}
	if err := s.cancelStalePending(ctx, now); err != nil {
		return fmt.Errorf("jobs.Sweeper.Run: %w", err)
	}
	return nil
}

// completeEnded moves CONFIRMED bookings whose end date has passed to
// COMPLETED, which releases their vehicles back to AVAILABLE.
func (s *Sweeper) completeEnded(ctx context.Context, now time.Time) error {
	ended, err := s.store.Bookings().ListConfirmedEndedBefore(ctx, now)
	if err != nil {
		return err
	}

	for _, b := range ended {
		if _, err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingCompleted); err != nil {
			s.logger.Error("sweeper: complete booking", "booking_id", b.ID, "error", err)
			continue
		}
		s.logger.Info("sweeper: completed ended booking", "booking_id", b.ID, "vehicle_id", b.VehicleID)
	}
	return nil
}

// cancelStalePending cancels PENDING bookings created before the payment
// window expired, freeing the vehicles they were holding.
func (s *Sweeper) cancelStalePending(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-s.pendingMaxAge)

	stale, err := s.store.Bookings().ListPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, b := range stale {
		if _, err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingCancelled); err != nil {
			s.logger.Error("sweeper: cancel stale booking", "booking_id", b.ID, "error", err)
			continue
		}
		s.logger.Info("sweeper: cancelled stale pending booking", "booking_id", b.ID, "vehicle_id", b.VehicleID)
	}
	return nil
}
