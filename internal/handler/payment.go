package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/autoprime/backend/internal/domain"
)

// createPaymentRequest is the body of POST /payments.
type createPaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id"`
	Method    string    `json:"method"`
}

// CreatePayment handles POST /payments.
func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	payment, err := s.payments.Create(r.Context(), req.BookingID, req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// GetPayment handles GET /payments/{id}.
func (s *Server) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payment, err := s.payments.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// ListPayments handles GET /payments with optional booking_id and status
// query filters. A booking_id filter returns the single linked payment.
func (s *Server) ListPayments(w http.ResponseWriter, r *http.Request) {
	if v := r.URL.Query().Get("booking_id"); v != "" {
		bookingID, err := uuid.Parse(v)
		if err != nil {
			badRequest(w, "invalid booking_id")
			return
		}

		payment, err := s.payments.GetByBookingID(r.Context(), bookingID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, []paymentResponse{toPaymentResponse(payment)})
		return
	}

	var status *domain.PaymentStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.PaymentStatus(v)
		if !domain.ValidPaymentStatus(st) {
			badRequest(w, "invalid status")
			return
		}
		status = &st
	}

	payments, err := s.payments.List(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponses(payments))
}

// ProcessPayment handles POST /payments/{id}/process.
func (s *Server) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payment, err := s.payments.Process(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// updatePaymentStatusRequest is the body of PATCH /payments/{id}/status.
type updatePaymentStatusRequest struct {
	Status domain.PaymentStatus `json:"status"`
}

// UpdatePaymentStatus handles PATCH /payments/{id}/status.
func (s *Server) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	payment, err := s.payments.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}
