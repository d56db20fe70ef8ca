package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/jobs"
	"github.com/autoprime/backend/internal/repo"
)

// sweepStore is a minimal repo.Store double: only the booking listings the
// sweeper touches are wired; everything else is unused.
type sweepStore struct {
	bookings *sweepBookingRepo
}

func (s *sweepStore) Vehicles() repo.VehicleRepo { return nil }
func (s *sweepStore) Bookings() repo.BookingRepo { return s.bookings }
func (s *sweepStore) Payments() repo.PaymentRepo { return nil }
func (s *sweepStore) Users() repo.UserRepo       { return nil }
func (s *sweepStore) InTx(_ context.Context, fn func(repo.Store) error) error {
	return fn(s)
}

var _ repo.Store = (*sweepStore)(nil)

// sweepBookingRepo stubs only the two listing methods; the rest of the
// interface is embedded and never called.
type sweepBookingRepo struct {
	repo.BookingRepo

	ended []domain.Booking
	stale []domain.Booking
	err   error
}

func (r *sweepBookingRepo) ListConfirmedEndedBefore(_ context.Context, _ time.Time) ([]domain.Booking, error) {
	return r.ended, r.err
}

func (r *sweepBookingRepo) ListPendingCreatedBefore(_ context.Context, _ time.Time) ([]domain.Booking, error) {
	return r.stale, r.err
}

// transitionRecorder records every UpdateStatus call the sweeper makes.
type transitionRecorder struct {
	calls map[uuid.UUID]domain.BookingStatus
	fail  map[uuid.UUID]error
}

func newTransitionRecorder() *transitionRecorder {
	return &transitionRecorder{calls: map[uuid.UUID]domain.BookingStatus{}}
}

func (r *transitionRecorder) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	if err := r.fail[id]; err != nil {
		return domain.Booking{}, err
	}
	r.calls[id] = status
	return domain.Booking{ID: id, Status: status}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func confirmedBooking() domain.Booking {
	return domain.Booking{
		ID:        uuid.New(),
		VehicleID: uuid.New(),
		Status:    domain.BookingConfirmed,
	}
}

func TestSweeper_CompletesEndedBookings(t *testing.T) {
	ended := confirmedBooking()
	store := &sweepStore{bookings: &sweepBookingRepo{ended: []domain.Booking{ended}}}
	rec := newTransitionRecorder()

	sweeper := jobs.NewSweeper(store, rec, 24*time.Hour, discardLogger())

	require.NoError(t, sweeper.Run(context.Background()))
	assert.Equal(t, domain.BookingCompleted, rec.calls[ended.ID])
}

func TestSweeper_CancelsStalePending(t *testing.T) {
	stale := confirmedBooking()
	stale.Status = domain.BookingPending
	store := &sweepStore{bookings: &sweepBookingRepo{stale: []domain.Booking{stale}}}
	rec := newTransitionRecorder()

	sweeper := jobs.NewSweeper(store, rec, 24*time.Hour, discardLogger())

	require.NoError(t, sweeper.Run(context.Background()))
	assert.Equal(t, domain.BookingCancelled, rec.calls[stale.ID])
}

func TestSweeper_SkipsFailedBooking(t *testing.T) {
	// One booking failing must not stall the rest of the sweep.
	bad := confirmedBooking()
	good := confirmedBooking()
	store := &sweepStore{bookings: &sweepBookingRepo{ended: []domain.Booking{bad, good}}}

	rec := newTransitionRecorder()
	rec.fail = map[uuid.UUID]error{bad.ID: domain.ErrInvalidTransition}

	sweeper := jobs.NewSweeper(store, rec, 24*time.Hour, discardLogger())

	require.NoError(t, sweeper.Run(context.Background()))
	assert.NotContains(t, rec.calls, bad.ID)
	assert.Equal(t, domain.BookingCompleted, rec.calls[good.ID])
}

func TestSweeper_ListErrorAborts(t *testing.T) {
	listErr := errors.New("db down")
	store := &sweepStore{bookings: &sweepBookingRepo{err: listErr}}
	rec := newTransitionRecorder()

	sweeper := jobs.NewSweeper(store, rec, 24*time.Hour, discardLogger())

	err := sweeper.Run(context.Background())

	assert.ErrorIs(t, err, listErr)
	assert.Empty(t, rec.calls)
}

func TestSweeper_NothingToDo(t *testing.T) {
	store := &sweepStore{bookings: &sweepBookingRepo{}}
	rec := newTransitionRecorder()

	sweeper := jobs.NewSweeper(store, rec, 24*time.Hour, discardLogger())

	require.NoError(t, sweeper.Run(context.Background()))
	assert.Empty(t, rec.calls)
}
