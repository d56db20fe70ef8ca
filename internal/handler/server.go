// Package handler implements the HTTP layer for the AutoPrime reservation
// backend. All handlers are methods on Server; they decode requests, call the
// service interfaces, and map domain errors to HTTP responses. Methods are
// split into domain-specific files (booking.go, payment.go, vehicle.go) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
	"github.com/autoprime/backend/internal/repo"
	"github.com/autoprime/backend/internal/service"
)

// BookingServicer defines the reservation operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type BookingServicer interface {
	Create(ctx context.Context, in service.CreateBookingInput) (domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, f repo.BookingFilter) ([]domain.Booking, error)
	CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error)
}

// PaymentServicer defines the payment operations the handlers depend on.
type PaymentServicer interface {
	Create(ctx context.Context, bookingID uuid.UUID, method string) (domain.Payment, error)
	Process(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (domain.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (domain.Payment, error)
	List(ctx context.Context, status *domain.PaymentStatus) ([]domain.Payment, error)
}

// VehicleServicer defines the vehicle operations the handlers depend on.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server holds the service dependencies for all API endpoints.
// Methods live in domain-specific files but all operate on this struct.
type Server struct {
	bookings BookingServicer
	payments PaymentServicer
	vehicles VehicleServicer
	openapi  []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the raw spec document served at /openapi.yaml; pass nil to
// disable that route.
func NewServer(bookings BookingServicer, payments PaymentServicer, vehicles VehicleServicer, openapi []byte) *Server {
	return &Server{bookings: bookings, payments: payments, vehicles: vehicles, openapi: openapi}
}

// Routes mounts every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", s.CreateBooking)
		r.Get("/", s.ListBookings)
		r.Get("/{id}", s.GetBooking)
		r.Patch("/{id}/status", s.UpdateBookingStatus)
		r.Delete("/{id}", s.DeleteBooking)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", s.CreatePayment)
		r.Get("/", s.ListPayments)
		r.Get("/{id}", s.GetPayment)
		r.Post("/{id}/process", s.ProcessPayment)
		r.Patch("/{id}/status", s.UpdatePaymentStatus)
	})

	r.Route("/vehicles", func(r chi.Router) {
		r.Post("/", s.CreateVehicle)
		r.Get("/", s.ListVehicles)
		r.Get("/{id}", s.GetVehicle)
		r.Put("/{id}", s.UpdateVehicle)
		r.Delete("/{id}", s.DeleteVehicle)
		r.Get("/{id}/availability", s.GetVehicleAvailability)
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetOpenAPI handles GET /openapi.yaml, serving the embedded spec document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	if s.openapi == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openapi)
}
