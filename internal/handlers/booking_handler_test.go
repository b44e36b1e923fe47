package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
	"hyreBack/internal/services"
)

type fakeBookings struct {
	bookings map[int64]*models.Booking
}

func (f *fakeBookings) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	if f.bookings == nil {
		f.bookings = make(map[int64]*models.Booking)
	}
	b.ID = int64(len(f.bookings) + 1)
	copied := b
	f.bookings[b.ID] = &copied
	return b, nil
}

func (f *fakeBookings) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return *b, nil
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, id int64, from, to, stampColumn string, at time.Time) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return models.ErrBookingNotFound
	}
	b.Status = to
	return nil
}

func (f *fakeBookings) Cancel(ctx context.Context, id int64, from, reason string, at time.Time) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return models.ErrBookingNotFound
	}
	b.Status = fsm.BookingCancelled
	b.CancelReason = reason
	return nil
}

func (f *fakeBookings) AssignWorker(ctx context.Context, id, workerID int64, at time.Time) error {
	b, ok := f.bookings[id]
	if !ok || b.Status != fsm.BookingPending {
		return models.ErrBookingNotFound
	}
	b.Status = fsm.BookingAccepted
	b.WorkerID = &workerID
	return nil
}

func (f *fakeBookings) ListByClient(ctx context.Context, clientID int64) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookings) ListByWorker(ctx context.Context, workerID int64) ([]models.Booking, error) {
	return nil, nil
}

type fakeEscrow struct{}

func (fakeEscrow) Hold(ctx context.Context, b models.Booking) (models.EscrowPayment, error) {
	return models.EscrowPayment{BookingID: b.ID, Amount: b.BudgetAmount, Status: fsm.EscrowEscrowed}, nil
}

func (fakeEscrow) Release(ctx context.Context, bookingID int64) (models.EscrowPayment, error) {
	return models.EscrowPayment{BookingID: bookingID, Status: fsm.EscrowReleased}, nil
}

func (fakeEscrow) Refund(ctx context.Context, bookingID int64, reason string) (models.EscrowPayment, error) {
	return models.EscrowPayment{BookingID: bookingID, Status: fsm.EscrowRefunded}, nil
}

func (fakeEscrow) MarkDisputed(ctx context.Context, bookingID int64) error { return nil }

type fakeDisputes struct {
	created []models.Dispute
}

func (f *fakeDisputes) Create(ctx context.Context, d models.Dispute) (models.Dispute, error) {
	d.ID = int64(len(f.created) + 1)
	f.created = append(f.created, d)
	return d, nil
}

func (f *fakeDisputes) OpenByBookingID(ctx context.Context, bookingID int64) (models.Dispute, error) {
	for _, d := range f.created {
		if d.BookingID == bookingID && d.Status != fsm.DisputeResolved {
			return d, nil
		}
	}
	return models.Dispute{}, models.ErrDisputeNotFound
}

func newBookingHandler(store *fakeBookings) *BookingHandler {
	svc := &services.BookingService{
		Bookings: store,
		Escrow:   fakeEscrow{},
		Disputes: &fakeDisputes{},
		ErrorLog: log.New(io.Discard, "", 0),
	}
	return &BookingHandler{Service: svc, ErrorLog: svc.ErrorLog}
}

func TestCreateBookingResponseEnvelope(t *testing.T) {
	h := newBookingHandler(&fakeBookings{})

	body := strings.NewReader(`{"client_id": 10, "budget_amount": 100000}`)
	r := httptest.NewRequest(http.MethodPost, "/bookings", body)
	w := httptest.NewRecorder()
	h.CreateBooking(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("success = %v, want true", resp["success"])
	}
	if msg, _ := resp["message"].(string); msg == "" {
		t.Fatal("message missing from response")
	}
	booking, ok := resp["booking"].(map[string]interface{})
	if !ok {
		t.Fatalf("booking missing from response: %v", resp)
	}
	if booking["status"] != fsm.BookingPending {
		t.Fatalf("booking status = %v, want pending", booking["status"])
	}
}

func TestCreateBookingRejectsSmallBudget(t *testing.T) {
	h := newBookingHandler(&fakeBookings{})

	body := strings.NewReader(`{"client_id": 10, "budget_amount": 100}`)
	r := httptest.NewRequest(http.MethodPost, "/bookings", body)
	w := httptest.NewRecorder()
	h.CreateBooking(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["success"] != false {
		t.Fatalf("success = %v, want false", resp["success"])
	}
}
