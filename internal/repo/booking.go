package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/autoprime/backend/internal/domain"
)

// BookingFilter narrows List. Nil fields match everything.
type BookingFilter struct {
	VehicleID *uuid.UUID
	UserID    *uuid.UUID
	Status    *domain.BookingStatus
}

// BookingRepo defines the persistence operations for Bookings.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the coordinators to be unit-tested with mocks.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// GetByIDForUpdate retrieves a booking and takes its row lock for the
	// duration of the surrounding transaction. Must be called inside
	// Store.InTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// List returns bookings matching the filter, newest first.
	List(ctx context.Context, f BookingFilter) ([]domain.Booking, error)

	// HasConflict reports whether any active booking (PENDING or CONFIRMED)
	// on the vehicle overlaps the inclusive range [start, end]. The booking
	// identified by exclude, if non-nil, is ignored so an update-in-place
	// check does not collide with itself.
	HasConflict(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (bool, error)

	// HasActive reports whether any PENDING or CONFIRMED booking references
	// the vehicle, regardless of dates.
	HasActive(ctx context.Context, vehicleID uuid.UUID) (bool, error)

	// SetStatus updates the booking status and returns the updated record.
	// Transition legality is the coordinator's concern, not the repo's.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)

	// Delete removes a booking by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListConfirmedEndedBefore returns CONFIRMED bookings whose end date is
	// strictly before the given calendar date. Used by the completion sweeper.
	ListConfirmedEndedBefore(ctx context.Context, date time.Time) ([]domain.Booking, error)

	// ListPendingCreatedBefore returns PENDING bookings created before the
	// given instant. Used by the sweeper to cancel abandoned bookings.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, vehicle_id, user_id, start_date, end_date, days,
		subtotal, discount, gst, total, status, pickup_location, drop_location,
		created_at, updated_at`

// Create inserts a new booking row and returns the full persisted record.
func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (vehicle_id, user_id, start_date, end_date, days,
			subtotal, discount, gst, total, status, pickup_location, drop_location)
		VALUES (@vehicle_id, @user_id, @start_date, @end_date, @days,
			@subtotal, @discount, @gst, @total, @status, @pickup_location, @drop_location)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"vehicle_id":      b.VehicleID,
		"user_id":         b.UserID,
		"start_date":      b.StartDate,
		"end_date":        b.EndDate,
		"days":            b.Days,
		"subtotal":        int64(b.Subtotal),
		"discount":        int64(b.Discount),
		"gst":             int64(b.GST),
		"total":           int64(b.Total),
		"status":          string(b.Status),
		"pickup_location": b.PickupLocation,
		"drop_location":   b.DropLocation,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByIDForUpdate retrieves a booking and holds its row lock until the
// surrounding transaction ends.
func (r *pgBookingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id FOR UPDATE`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByIDForUpdate: %w", err)
	}
	return result, nil
}

// List returns bookings matching the filter, newest first.
// Nil filter fields are neutralized in SQL rather than by string-building
// so the query stays a single prepared statement.
func (r *pgBookingRepo) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE (@vehicle_id::uuid IS NULL OR vehicle_id = @vehicle_id)
		  AND (@user_id::uuid    IS NULL OR user_id    = @user_id)
		  AND (@status::text     IS NULL OR status     = @status)
		ORDER BY created_at DESC`

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"vehicle_id": f.VehicleID,
		"user_id":    f.UserID,
		"status":     status,
	})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.List: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "List")
}

// HasConflict runs the overlap test from the non-overlap invariant:
// a.start <= b.end AND b.start <= a.end, restricted to active bookings.
func (r *pgBookingRepo) HasConflict(ctx context.Context, vehicleID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE vehicle_id = @vehicle_id
			  AND status IN ('PENDING', 'CONFIRMED')
			  AND start_date <= @end_date
			  AND @start_date <= end_date
			  AND (@exclude::uuid IS NULL OR id <> @exclude)
		)`

	var conflict bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"vehicle_id": vehicleID,
		"start_date": start,
		"end_date":   end,
		"exclude":    exclude,
	}).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("repo.BookingRepo.HasConflict: %w", err)
	}
	return conflict, nil
}

// HasActive reports whether any active booking references the vehicle.
func (r *pgBookingRepo) HasActive(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE vehicle_id = @vehicle_id
			  AND status IN ('PENDING', 'CONFIRMED')
		)`

	var active bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID}).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("repo.BookingRepo.HasActive: %w", err)
	}
	return active, nil
}

// SetStatus updates the status column and returns the updated record.
func (r *pgBookingRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.SetStatus: %w", err)
	}
	return result, nil
}

// Delete removes a booking by primary key.
func (r *pgBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM bookings WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListConfirmedEndedBefore returns CONFIRMED bookings whose end date has passed.
func (r *pgBookingRepo) ListConfirmedEndedBefore(ctx context.Context, date time.Time) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'CONFIRMED' AND end_date < @date
		ORDER BY end_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"date": date})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListConfirmedEndedBefore: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "ListConfirmedEndedBefore")
}

// ListPendingCreatedBefore returns PENDING bookings created before cutoff.
func (r *pgBookingRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'PENDING' AND created_at < @cutoff
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"cutoff": cutoff})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListPendingCreatedBefore: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, "ListPendingCreatedBefore")
}

// collectBookings drains rows into a slice, wrapping scan errors with the
// calling method's name.
func collectBookings(rows pgx.Rows, op string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.%s: scan: %w", op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.%s: rows: %w", op, err)
	}
	return bookings, nil
}

// scanBooking maps a single database row into a domain.Booking.
// It handles the UUID, date, and paise-to-Money conversions.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b                              domain.Booking
		id, vehicleID, userID          pgtype.UUID
		startDate, endDate             pgtype.Date
		subtotal, discount, gst, total int64
		status                         string
	)

	err := s.Scan(&id, &vehicleID, &userID, &startDate, &endDate, &b.Days,
		&subtotal, &discount, &gst, &total, &status,
		&b.PickupLocation, &b.DropLocation, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.VehicleID = uuid.UUID(vehicleID.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.StartDate = startDate.Time
	b.EndDate = endDate.Time
	b.Subtotal = domain.Money(subtotal)
	b.Discount = domain.Money(discount)
	b.GST = domain.Money(gst)
	b.Total = domain.Money(total)
	b.Status = domain.BookingStatus(status)

	return b, nil
}
