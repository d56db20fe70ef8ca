package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
)

// vehicleRequest is the body of POST /vehicles and PUT /vehicles/{id}.
// Monetary fields accept two-decimal numbers.
type vehicleRequest struct {
	HostID           uuid.UUID    `json:"host_id"`
	Brand            string       `json:"brand"`
	Name             string       `json:"name"`
	City             string       `json:"city"`
	DailyRate        domain.Money `json:"daily_rate"`
	WeekendSurcharge domain.Money `json:"weekend_surcharge"`
	Status           string       `json:"status"`
}

func (req vehicleRequest) toDomain() domain.Vehicle {
	return domain.Vehicle{
		HostID:           req.HostID,
		Brand:            req.Brand,
		Name:             req.Name,
		City:             req.City,
		DailyRate:        req.DailyRate,
		WeekendSurcharge: req.WeekendSurcharge,
		Status:           domain.VehicleStatus(req.Status),
	}
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	vehicle, err := s.vehicles.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

// GetVehicle handles GET /vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	vehicle, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.vehicles.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, vehicles)
}

// UpdateVehicle handles PUT /vehicles/{id}.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	vehicle := req.toDomain()
	vehicle.ID = id

	updated, err := s.vehicles.Update(r.Context(), vehicle)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteVehicle handles DELETE /vehicles/{id}.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
