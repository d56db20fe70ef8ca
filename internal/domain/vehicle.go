// Package domain contains the core data types for the AutoPrime reservation
// backend. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (pricing, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the lifecycle state of a vehicle's calendar.
// While an active booking references a vehicle, only the reservation
// coordinator may change this field.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "AVAILABLE"
	VehicleBooked      VehicleStatus = "BOOKED"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
)

// ValidVehicleStatus reports whether s is a known vehicle status value.
func ValidVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleAvailable, VehicleBooked, VehicleMaintenance:
		return true
	}
	return false
}

// Vehicle is a rentable car listed by a host.
// DailyRate and WeekendSurcharge together form the rate card consumed by the
// pricing engine; WeekendSurcharge is zero when the host did not set one.
type Vehicle struct {
	ID               uuid.UUID     `json:"id"`
	HostID           uuid.UUID     `json:"host_id"`
	Brand            string        `json:"brand"`
	Name             string        `json:"name"`
	City             string        `json:"city"`
	DailyRate        Money         `json:"daily_rate"`
	WeekendSurcharge Money         `json:"weekend_surcharge"`
	Status           VehicleStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
