package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
)

// The mocks below are hand-written test doubles for the repo interfaces.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.

// mockStore satisfies repo.Store by handing out the mock repositories.
// InTx just runs the callback against the same store: transaction semantics
// are the real store's concern and are covered by the repo integration tests.
type mockStore struct {
	vehicles *mockVehicleRepo
	bookings *mockBookingRepo
	payments *mockPaymentRepo
	users    *mockUserRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		vehicles: &mockVehicleRepo{},
		bookings: &mockBookingRepo{},
		payments: &mockPaymentRepo{},
		users:    &mockUserRepo{},
	}
}

func (m *mockStore) Vehicles() repo.VehicleRepo { return m.vehicles }
func (m *mockStore) Bookings() repo.BookingRepo { return m.bookings }
func (m *mockStore) Payments() repo.PaymentRepo { return m.payments }
func (m *mockStore) Users() repo.UserRepo       { return m.users }

func (m *mockStore) InTx(_ context.Context, fn func(repo.Store) error) error {
	return fn(m)
}

// compile-time check: mockStore must satisfy repo.Store.
var _ repo.Store = (*mockStore)(nil)

type mockVehicleRepo struct {
	create           func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	getByIDForUpdate func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list             func(ctx context.Context) ([]domain.Vehicle, error)
	update           func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	setStatus        func(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error
	delete           func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByIDForUpdate(ctx, id)
}
func (m *mockVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	return m.list(ctx)
}
func (m *mockVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	return m.setStatus(ctx, id, status)
}
func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

type mockBookingRepo struct {
	create                   func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID                  func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	getByIDForUpdate         func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	list                     func(ctx context.Context, f repo.BookingFilter) ([]domain.Booking, error)
	hasConflict              func(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (bool, error)
	hasActive                func(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	setStatus                func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	delete                   func(ctx context.Context, id uuid.UUID) error
	listConfirmedEndedBefore func(ctx context.Context, date time.Time) ([]domain.Booking, error)
	listPendingCreatedBefore func(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByIDForUpdate(ctx, id)
}
func (m *mockBookingRepo) List(ctx context.Context, f repo.BookingFilter) ([]domain.Booking, error) {
	return m.list(ctx, f)
}
func (m *mockBookingRepo) HasConflict(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (bool, error) {
	return m.hasConflict(ctx, vehicleID, start, end, exclude)
}
func (m *mockBookingRepo) HasActive(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	return m.hasActive(ctx, vehicleID)
}
func (m *mockBookingRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockBookingRepo) ListConfirmedEndedBefore(ctx context.Context, date time.Time) ([]domain.Booking, error) {
	return m.listConfirmedEndedBefore(ctx, date)
}
func (m *mockBookingRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return m.listPendingCreatedBefore(ctx, cutoff)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

type mockPaymentRepo struct {
	create           func(ctx context.Context, p domain.Payment) (domain.Payment, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	getByIDForUpdate func(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	getByBookingID   func(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error)
	list             func(ctx context.Context, status *domain.PaymentStatus) ([]domain.Payment, error)
	setStatus        func(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)
}

func (m *mockPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	return m.create(ctx, p)
}
func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return m.getByID(ctx, id)
}
func (m *mockPaymentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return m.getByIDForUpdate(ctx, id)
}
func (m *mockPaymentRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error) {
	return m.getByBookingID(ctx, bookingID)
}
func (m *mockPaymentRepo) List(ctx context.Context, status *domain.PaymentStatus) ([]domain.Payment, error) {
	return m.list(ctx, status)
}
func (m *mockPaymentRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	return m.setStatus(ctx, id, status)
}

var _ repo.PaymentRepo = (*mockPaymentRepo)(nil)

type mockUserRepo struct {
	create  func(ctx context.Context, u domain.User) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
	exists  func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.exists(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)
