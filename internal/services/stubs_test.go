package services

import (
	"context"
	"time"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
	"hyreBack/internal/pay"
)

// Stub collaborators shared by the service tests. Each records the calls
// it receives so tests can assert on what moved and what did not.

type stubDirectory struct {
	contacts map[int64]models.UserContact
}

func (d *stubDirectory) GetContact(ctx context.Context, userID int64) (models.UserContact, error) {
	c, ok := d.contacts[userID]
	if !ok {
		return models.UserContact{}, models.ErrUserNotFound
	}
	return c, nil
}

type stubGateway struct {
	chargeErr   error
	transferErr error
	refundErr   error
	charges     []pay.ChargeRequest
	transfers   []pay.TransferRequest
	refunds     []string
}

func (g *stubGateway) Charge(ctx context.Context, req pay.ChargeRequest) (string, error) {
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.charges = append(g.charges, req)
	return "txn-1", nil
}

func (g *stubGateway) Transfer(ctx context.Context, req pay.TransferRequest) (string, error) {
	if g.transferErr != nil {
		return "", g.transferErr
	}
	g.transfers = append(g.transfers, req)
	return "TRF_1", nil
}

func (g *stubGateway) Refund(ctx context.Context, transactionRef string, amount int64) (string, error) {
	if g.refundErr != nil {
		return "", g.refundErr
	}
	g.refunds = append(g.refunds, transactionRef)
	return "rfd-1", nil
}

// stubEscrowStore holds at most one payment, which is all any scenario
// needs.
type stubEscrowStore struct {
	payment *models.EscrowPayment
	created []models.EscrowPayment
}

func (s *stubEscrowStore) Create(ctx context.Context, p models.EscrowPayment) (models.EscrowPayment, error) {
	p.ID = 1
	s.payment = &p
	s.created = append(s.created, p)
	return p, nil
}

func (s *stubEscrowStore) GetByBookingID(ctx context.Context, bookingID int64) (models.EscrowPayment, error) {
	if s.payment == nil || s.payment.BookingID != bookingID {
		return models.EscrowPayment{}, models.ErrEscrowNotFound
	}
	return *s.payment, nil
}

func (s *stubEscrowStore) MarkReleased(ctx context.Context, id int64, from, transferRef string, at time.Time) error {
	if s.payment == nil || s.payment.Status != from {
		return models.ErrEscrowNotFound
	}
	s.payment.Status = fsm.EscrowReleased
	s.payment.TransferReference = &transferRef
	s.payment.ReleasedAt = &at
	return nil
}

func (s *stubEscrowStore) MarkRefunded(ctx context.Context, id int64, from, reason string, at time.Time) error {
	if s.payment == nil || s.payment.Status != from {
		return models.ErrEscrowNotFound
	}
	s.payment.Status = fsm.EscrowRefunded
	s.payment.RefundReason = reason
	s.payment.RefundedAt = &at
	return nil
}

func (s *stubEscrowStore) MarkDisputed(ctx context.Context, id int64) error {
	if s.payment == nil {
		return models.ErrEscrowNotFound
	}
	s.payment.Status = fsm.EscrowDisputed
	return nil
}

type stubHistory struct {
	events []models.PaymentHistoryItem
}

func (h *stubHistory) Record(ctx context.Context, item models.PaymentHistoryItem) error {
	h.events = append(h.events, item)
	return nil
}

type stubNotifier struct {
	inApp  []string
	sms    []string
	emails []string
}

func (n *stubNotifier) InApp(ctx context.Context, userID int64, title, message, ntype, actionURL, key string) error {
	n.inApp = append(n.inApp, key)
	return nil
}

func (n *stubNotifier) SMS(ctx context.Context, phone, message string) error {
	n.sms = append(n.sms, phone)
	return nil
}

func (n *stubNotifier) Email(ctx context.Context, to, subject, body string) error {
	n.emails = append(n.emails, to)
	return nil
}

type stubBookingStore struct {
	bookings map[int64]*models.Booking
	updates  []string
	cancels  []string
}

func (s *stubBookingStore) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.ID = int64(len(s.bookings) + 1)
	if s.bookings == nil {
		s.bookings = make(map[int64]*models.Booking)
	}
	copied := b
	s.bookings[b.ID] = &copied
	return b, nil
}

func (s *stubBookingStore) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, models.ErrBookingNotFound
	}
	return *b, nil
}

func (s *stubBookingStore) UpdateStatus(ctx context.Context, id int64, from, to, stampColumn string, at time.Time) error {
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return models.ErrBookingNotFound
	}
	b.Status = to
	s.updates = append(s.updates, from+"->"+to)
	return nil
}

func (s *stubBookingStore) Cancel(ctx context.Context, id int64, from, reason string, at time.Time) error {
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return models.ErrBookingNotFound
	}
	b.Status = fsm.BookingCancelled
	b.CancelReason = reason
	s.cancels = append(s.cancels, reason)
	return nil
}

func (s *stubBookingStore) AssignWorker(ctx context.Context, id, workerID int64, at time.Time) error {
	b, ok := s.bookings[id]
	if !ok || b.Status != fsm.BookingPending {
		return models.ErrBookingNotFound
	}
	b.Status = fsm.BookingAccepted
	b.WorkerID = &workerID
	s.updates = append(s.updates, "pending->accepted")
	return nil
}

func (s *stubBookingStore) ListByClient(ctx context.Context, clientID int64) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookingStore) ListByWorker(ctx context.Context, workerID int64) ([]models.Booking, error) {
	return nil, nil
}

type stubLedger struct {
	holdErr    error
	releaseErr error
	refundErr  error
	payment    models.EscrowPayment
	holds      int
	releases   int
	refunds    int
	disputes   int
}

func (l *stubLedger) Hold(ctx context.Context, b models.Booking) (models.EscrowPayment, error) {
	l.holds++
	if l.holdErr != nil {
		return models.EscrowPayment{}, l.holdErr
	}
	return l.payment, nil
}

func (l *stubLedger) Release(ctx context.Context, bookingID int64) (models.EscrowPayment, error) {
	l.releases++
	if l.releaseErr != nil {
		return models.EscrowPayment{}, l.releaseErr
	}
	return l.payment, nil
}

func (l *stubLedger) Refund(ctx context.Context, bookingID int64, reason string) (models.EscrowPayment, error) {
	l.refunds++
	if l.refundErr != nil {
		return models.EscrowPayment{}, l.refundErr
	}
	return l.payment, nil
}

func (l *stubLedger) MarkDisputed(ctx context.Context, bookingID int64) error {
	l.disputes++
	return nil
}

type stubDisputeStore struct {
	open    *models.Dispute
	created []models.Dispute
}

func (s *stubDisputeStore) Create(ctx context.Context, d models.Dispute) (models.Dispute, error) {
	d.ID = 1
	s.created = append(s.created, d)
	return d, nil
}

func (s *stubDisputeStore) OpenByBookingID(ctx context.Context, bookingID int64) (models.Dispute, error) {
	if s.open == nil {
		return models.Dispute{}, models.ErrDisputeNotFound
	}
	return *s.open, nil
}
