package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
	"github.com/autoprime/backend/internal/service"
)

// createBookingRequest is the body of POST /bookings. Pricing fields are
// never accepted from the client.
type createBookingRequest struct {
	VehicleID      uuid.UUID `json:"vehicle_id"`
	UserID         uuid.UUID `json:"user_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	PickupLocation string    `json:"pickup_location"`
	DropLocation   string    `json:"drop_location"`
}

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	booking, err := s.bookings.Create(r.Context(), service.CreateBookingInput{
		VehicleID:      req.VehicleID,
		UserID:         req.UserID,
		StartDate:      start,
		EndDate:        end,
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

// ListBookings handles GET /bookings with optional vehicle_id, user_id, and
// status query filters.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	var f repo.BookingFilter

	if v := r.URL.Query().Get("vehicle_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(w, "invalid vehicle_id")
			return
		}
		f.VehicleID = &id
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(w, "invalid user_id")
			return
		}
		f.UserID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.BookingStatus(v)
		if !domain.ValidBookingStatus(status) {
			badRequest(w, "invalid status")
			return
		}
		f.Status = &status
	}

	bookings, err := s.bookings.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

// updateBookingStatusRequest is the body of PATCH /bookings/{id}/status.
type updateBookingStatusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

// UpdateBookingStatus handles PATCH /bookings/{id}/status.
func (s *Server) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	booking, err := s.bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

// DeleteBooking handles DELETE /bookings/{id}.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.bookings.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetVehicleAvailability handles GET /vehicles/{id}/availability?start=&end=.
func (s *Server) GetVehicleAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	available, err := s.bookings.CheckAvailability(r.Context(), id, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vehicle_id": id,
		"start_date": start.Format(dateLayout),
		"end_date":   end.Format(dateLayout),
		"available":  available,
	})
}

// pathID parses the {id} chi URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
