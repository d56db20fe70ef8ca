package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
)

// PaymentService coordinates payments and drives booking status from payment
// outcome. Settlement itself is modeled as a local state transition — there
// is no gateway round-trip here; callers report the outcome via Process or
// UpdateStatus.
//
// Every cascade (payment SUCCESS → booking CONFIRMED, payment FAILED →
// booking CANCELLED → vehicle AVAILABLE) runs through transitionBooking
// inside one transaction, never as independent status writes.
type PaymentService struct {
	store repo.Store
}

// NewPaymentService constructs a PaymentService backed by the store.
func NewPaymentService(store repo.Store) *PaymentService {
	return &PaymentService{store: store}
}

// Create opens a PENDING payment for the booking. The amount is copied from
// the booking total and immutable afterward; a fresh transaction id is
// generated.
//
// Returns domain.ErrNotFound if the booking is absent and
// domain.ErrDuplicatePayment if the booking already has a payment. The
// unique constraint on booking_id backstops the pre-check, so two concurrent
// creates cannot both commit.
func (s *PaymentService) Create(ctx context.Context, bookingID uuid.UUID, method string) (domain.Payment, error) {
	if strings.TrimSpace(method) == "" {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Create: method is required: %w", domain.ErrValidation)
	}

	var payment domain.Payment
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		_, err = tx.Payments().GetByBookingID(ctx, bookingID)
		switch {
		case err == nil:
			return fmt.Errorf("booking %s: %w", bookingID, domain.ErrDuplicatePayment)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		payment, err = tx.Payments().Create(ctx, domain.Payment{
			BookingID:     booking.ID,
			Amount:        booking.Total,
			Method:        method,
			Status:        domain.PaymentPending,
			TransactionID: newTransactionID(),
		})
		return err
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Create: %w", err)
	}
	return payment, nil
}

// Process settles a PENDING payment: the payment moves to SUCCESS and the
// linked booking to CONFIRMED, atomically. A second Process call on the same
// payment fails with domain.ErrInvalidTransition.
func (s *PaymentService) Process(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	payment, err := s.settle(ctx, id, domain.PaymentSuccess)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.Process: %w", err)
	}
	return payment, nil
}

// UpdateStatus reports a payment outcome. SUCCESS confirms the booking;
// FAILED cancels it, which also releases the vehicle. The payment must still
// be PENDING — payments are terminal after their first outcome.
func (s *PaymentService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	if !status.Terminal() {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.UpdateStatus: status %q: %w", status, domain.ErrValidation)
	}

	payment, err := s.settle(ctx, id, status)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.UpdateStatus: %w", err)
	}
	return payment, nil
}

// GetByID returns a single payment by ID.
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	payment, err := s.store.Payments().GetByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.GetByID: %w", err)
	}
	return payment, nil
}

// GetByBookingID returns the payment linked to a booking.
func (s *PaymentService) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error) {
	payment, err := s.store.Payments().GetByBookingID(ctx, bookingID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("service.PaymentService.GetByBookingID: %w", err)
	}
	return payment, nil
}

// List returns payments, optionally filtered by status, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PaymentService) List(ctx context.Context, status *domain.PaymentStatus) ([]domain.Payment, error) {
	payments, err := s.store.Payments().List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service.PaymentService.List: %w", err)
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}

// settle moves a PENDING payment to its terminal status and cascades the
// matching booking transition in the same transaction.
func (s *PaymentService) settle(ctx context.Context, id uuid.UUID, outcome domain.PaymentStatus) (domain.Payment, error) {
	var payment domain.Payment
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		current, err := tx.Payments().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != domain.PaymentPending {
			return fmt.Errorf("payment %s: %s -> %s: %w", current.ID, current.Status, outcome, domain.ErrInvalidTransition)
		}

		payment, err = tx.Payments().SetStatus(ctx, id, outcome)
		if err != nil {
			return err
		}

		bookingStatus := domain.BookingConfirmed
		if outcome == domain.PaymentFailed {
			bookingStatus = domain.BookingCancelled
		}

		_, err = transitionBooking(ctx, tx, current.BookingID, bookingStatus)
		return err
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// newTransactionID generates an opaque, globally unique transaction id in the
// form TXN followed by 12 uppercase hex characters.
func newTransactionID() string {
	id := uuid.New()
	return "TXN" + strings.ToUpper(hex.EncodeToString(id[:6]))
}
