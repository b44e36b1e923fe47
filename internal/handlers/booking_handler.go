package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"hyreBack/internal/models"
	"hyreBack/internal/services"
)

// PaymentHistoryReader serves the audit trail read endpoint.
type PaymentHistoryReader interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]models.PaymentHistoryItem, error)
}

type BookingHandler struct {
	Service  *services.BookingService
	Escrow   *services.EscrowService
	History  PaymentHistoryReader
	ErrorLog *log.Logger
}

type createBookingRequest struct {
	ClientID      int64      `json:"client_id"`
	WorkerID      *int64     `json:"worker_id"`
	BudgetAmount  int64      `json:"budget_amount"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	booking, err := h.Service.CreateBooking(r.Context(), req.ClientID, req.WorkerID, req.BudgetAmount, req.ScheduledDate)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "booking created and funds held in escrow",
		"booking": booking,
	})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	booking, err := h.Service.GetBooking(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type workerActionRequest struct {
	WorkerID int64 `json:"worker_id"`
}

func (h *BookingHandler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	h.workerAction(w, r, h.Service.AcceptBooking, "booking accepted")
}

func (h *BookingHandler) StartBooking(w http.ResponseWriter, r *http.Request) {
	h.workerAction(w, r, h.Service.StartBooking, "booking started")
}

func (h *BookingHandler) MarkWorkerCompleted(w http.ResponseWriter, r *http.Request) {
	h.workerAction(w, r, h.Service.MarkWorkerCompleted, "waiting for client confirmation")
}

func (h *BookingHandler) workerAction(w http.ResponseWriter, r *http.Request, do func(ctx context.Context, bookingID, workerID int64) error, message string) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req workerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := do(r.Context(), id, req.WorkerID); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}

type confirmRequest struct {
	ClientID int64 `json:"client_id"`
}

func (h *BookingHandler) ConfirmCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.ConfirmCompletion(r.Context(), id, req.ClientID); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "payment released to worker"})
}

type cancelRequest struct {
	ClientID int64  `json:"client_id"`
	Reason   string `json:"reason"`
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.CancelBooking(r.Context(), id, req.ClientID, req.Reason); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "booking cancelled and refunded"})
}

func (h *BookingHandler) ListClientBookings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	bookings, err := h.Service.ListForClient(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListWorkerBookings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	bookings, err := h.Service.ListForWorker(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) GetEscrowPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	payment, err := h.Escrow.GetByBookingID(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *BookingHandler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	items, err := h.History.ListByBooking(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
