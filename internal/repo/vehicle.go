package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/autoprime/backend/internal/domain"
)

// VehicleRepo defines the persistence operations for Vehicles.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a single vehicle by its UUID primary key.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// GetByIDForUpdate retrieves a vehicle and takes its row lock for the
	// duration of the surrounding transaction. Concurrent booking attempts
	// on the same vehicle serialize behind this lock, which is what makes
	// the conflict check and the subsequent writes one atomic unit.
	// Must be called inside Store.InTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// List returns all vehicles ordered by creation time descending.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// Update overwrites the mutable fields of an existing vehicle, status
	// included, and returns the updated record.
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// SetStatus updates only the status column.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error

	// Delete removes a vehicle by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `id, host_id, brand, name, city, daily_rate, weekend_surcharge, status, created_at, updated_at`

// Create inserts a new vehicle row and returns the full persisted record.
func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (host_id, brand, name, city, daily_rate, weekend_surcharge, status)
		VALUES (@host_id, @brand, @name, @city, @daily_rate, @weekend_surcharge, @status)
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"host_id":           v.HostID,
		"brand":             v.Brand,
		"name":              v.Name,
		"city":              v.City,
		"daily_rate":        int64(v.DailyRate),
		"weekend_surcharge": int64(v.WeekendSurcharge),
		"status":            string(v.Status),
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a vehicle by primary key.
func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByIDForUpdate retrieves a vehicle and holds its row lock until the
// surrounding transaction commits or rolls back.
func (r *pgVehicleRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id FOR UPDATE`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByIDForUpdate: %w", err)
	}
	return result, nil
}

// List returns all vehicles, most recently listed first.
func (r *pgVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.List: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: rows: %w", err)
	}

	return vehicles, nil
}

// Update overwrites the mutable fields of a vehicle and returns the updated record.
func (r *pgVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET brand             = @brand,
		    name              = @name,
		    city              = @city,
		    daily_rate        = @daily_rate,
		    weekend_surcharge = @weekend_surcharge,
		    status            = @status,
		    updated_at        = now()
		WHERE id = @id
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"id":                v.ID,
		"brand":             v.Brand,
		"name":              v.Name,
		"city":              v.City,
		"daily_rate":        int64(v.DailyRate),
		"weekend_surcharge": int64(v.WeekendSurcharge),
		"status":            string(v.Status),
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", err)
	}
	return result, nil
}

// SetStatus updates only the status column.
func (r *pgVehicleRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	const q = `UPDATE vehicles SET status = @status, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.SetStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a vehicle by primary key.
func (r *pgVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v        domain.Vehicle
		id, host pgtype.UUID
		rate     int64
		weekend  int64
		status   string
	)

	err := s.Scan(&id, &host, &v.Brand, &v.Name, &v.City, &rate, &weekend, &status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	v.HostID = uuid.UUID(host.Bytes)
	v.DailyRate = domain.Money(rate)
	v.WeekendSurcharge = domain.Money(weekend)
	v.Status = domain.VehicleStatus(status)

	return v, nil
}
