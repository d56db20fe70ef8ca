package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
)

// VehicleService implements the host-facing vehicle CRUD. It enforces the
// ownership rule on the status field: while an active booking references a
// vehicle, only the reservation coordinator may change its status, so CRUD
// writes that would touch it are rejected.
type VehicleService struct {
	store repo.Store
}

// NewVehicleService constructs a VehicleService backed by the store.
func NewVehicleService(store repo.Store) *VehicleService {
	return &VehicleService{store: store}
}

// Create validates and persists a new vehicle listing.
func (s *VehicleService) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if v.Status == "" {
		v.Status = domain.VehicleAvailable
	}
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, err
	}

	created, err := s.store.Vehicles().Create(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single vehicle by ID.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	vehicle, err := s.store.Vehicles().GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return vehicle, nil
}

// List returns all vehicles, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, err := s.store.Vehicles().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.List: %w", err)
	}
	if vehicles == nil {
		return []domain.Vehicle{}, nil
	}
	return vehicles, nil
}

// Update overwrites the mutable fields of a vehicle. A status change is
// refused with domain.ErrVehicleUnavailable while an active booking
// references the vehicle; that field belongs to the reservation coordinator
// until the booking resolves.
func (s *VehicleService) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, err
	}

	var updated domain.Vehicle
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		current, err := tx.Vehicles().GetByIDForUpdate(ctx, v.ID)
		if err != nil {
			return err
		}

		if v.Status != current.Status {
			active, err := tx.Bookings().HasActive(ctx, v.ID)
			if err != nil {
				return err
			}
			if active {
				return fmt.Errorf("vehicle %s has an active booking: %w", v.ID, domain.ErrVehicleUnavailable)
			}
		}

		v.HostID = current.HostID
		updated, err = tx.Vehicles().Update(ctx, v)
		return err
	})
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a vehicle. Refused while an active booking references it.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		if _, err := tx.Vehicles().GetByIDForUpdate(ctx, id); err != nil {
			return err
		}

		active, err := tx.Bookings().HasActive(ctx, id)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("vehicle %s has an active booking: %w", id, domain.ErrVehicleUnavailable)
		}

		return tx.Vehicles().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	return nil
}

// validateVehicle enforces rules common to Create and Update.
func validateVehicle(v domain.Vehicle) error {
	if strings.TrimSpace(v.Brand) == "" {
		return fmt.Errorf("brand is required: %w", domain.ErrValidation)
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if v.DailyRate <= 0 {
		return fmt.Errorf("daily_rate must be positive: %w", domain.ErrValidation)
	}
	if v.WeekendSurcharge < 0 {
		return fmt.Errorf("weekend_surcharge must not be negative: %w", domain.ErrValidation)
	}
	if !domain.ValidVehicleStatus(v.Status) {
		return fmt.Errorf("unknown status %q: %w", v.Status, domain.ErrValidation)
	}
	return nil
}
