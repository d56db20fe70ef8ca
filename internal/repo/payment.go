package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/autoprime/backend/internal/domain"
)

// PaymentRepo defines the persistence operations for Payments.
type PaymentRepo interface {
	// Create inserts a new payment and returns the persisted record.
	// Returns domain.ErrDuplicatePayment if the booking already has a
	// payment; the payments table carries a unique constraint on booking_id,
	// so the 1:1 relationship holds even under concurrent creates.
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)

	// GetByID retrieves a single payment by its UUID primary key.
	// Returns domain.ErrNotFound if no payment with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)

	// GetByIDForUpdate retrieves a payment and takes its row lock for the
	// duration of the surrounding transaction. Must be called inside
	// Store.InTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Payment, error)

	// GetByBookingID retrieves the payment linked to a booking.
	// Returns domain.ErrNotFound if the booking has no payment.
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error)

	// List returns payments, optionally filtered by status, newest first.
	List(ctx context.Context, status *domain.PaymentStatus) ([]domain.Payment, error)

	// SetStatus updates the payment status and returns the updated record.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)
}

// pgPaymentRepo is the Postgres implementation of PaymentRepo.
type pgPaymentRepo struct {
	db db
}

// NewPaymentRepo constructs a PaymentRepo backed by the provided db connection.
func NewPaymentRepo(db db) PaymentRepo {
	return &pgPaymentRepo{db: db}
}

const paymentColumns = `id, booking_id, amount, method, status, transaction_id, created_at, updated_at`

// Create inserts a new payment row and returns the full persisted record.
// A unique-violation on booking_id maps to domain.ErrDuplicatePayment.
func (r *pgPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	const q = `
		INSERT INTO payments (booking_id, amount, method, status, transaction_id)
		VALUES (@booking_id, @amount, @method, @status, @transaction_id)
		RETURNING ` + paymentColumns

	args := pgx.NamedArgs{
		"booking_id":     p.BookingID,
		"amount":         int64(p.Amount),
		"method":         p.Method,
		"status":         string(p.Status),
		"transaction_id": p.TransactionID,
	}

	result, err := scanPayment(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w", domain.ErrDuplicatePayment)
		}
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a payment by primary key.
func (r *pgPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = @id`

	result, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByIDForUpdate retrieves a payment and holds its row lock until the
// surrounding transaction ends.
func (r *pgPaymentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = @id FOR UPDATE`

	result, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByIDForUpdate: %w", err)
	}
	return result, nil
}

// GetByBookingID retrieves the payment linked to a booking.
func (r *pgPaymentRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = @booking_id`

	result, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"booking_id": bookingID}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.GetByBookingID: %w", err)
	}
	return result, nil
}

// List returns payments, optionally filtered by status, newest first.
func (r *pgPaymentRepo) List(ctx context.Context, status *domain.PaymentStatus) ([]domain.Payment, error) {
	const q = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE (@status::text IS NULL OR status = @status)
		ORDER BY created_at DESC`

	var s *string
	if status != nil {
		v := string(*status)
		s = &v
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"status": s})
	if err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.List: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PaymentRepo.List: scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.List: rows: %w", err)
	}

	return payments, nil
}

// SetStatus updates the status column and returns the updated record.
func (r *pgPaymentRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error) {
	const q = `
		UPDATE payments
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + paymentColumns

	result, err := scanPayment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.SetStatus: %w", err)
	}
	return result, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// scanPayment maps a single database row into a domain.Payment.
func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p             domain.Payment
		id, bookingID pgtype.UUID
		amount        int64
		status        string
	)

	err := s.Scan(&id, &bookingID, &amount, &p.Method, &status, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.BookingID = uuid.UUID(bookingID.Bytes)
	p.Amount = domain.Money(amount)
	p.Status = domain.PaymentStatus(status)

	return p, nil
}
