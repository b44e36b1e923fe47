package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
	"hyreBack/internal/pay"
)

// PaymentGateway is the subset of the Paystack client the ledger needs.
type PaymentGateway interface {
	Charge(ctx context.Context, req pay.ChargeRequest) (string, error)
	Transfer(ctx context.Context, req pay.TransferRequest) (string, error)
	Refund(ctx context.Context, transactionRef string, amount int64) (string, error)
}

// EscrowStore is the persistence surface for escrow payments.
type EscrowStore interface {
	Create(ctx context.Context, p models.EscrowPayment) (models.EscrowPayment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (models.EscrowPayment, error)
	MarkReleased(ctx context.Context, id int64, from, transferRef string, at time.Time) error
	MarkRefunded(ctx context.Context, id int64, from, reason string, at time.Time) error
	MarkDisputed(ctx context.Context, id int64) error
}

// ContactDirectory resolves the contact and payout details of a user.
type ContactDirectory interface {
	GetContact(ctx context.Context, userID int64) (models.UserContact, error)
}

// PaymentHistory records escrow audit events.
type PaymentHistory interface {
	Record(ctx context.Context, item models.PaymentHistoryItem) error
}

// EscrowService owns EscrowPayment records: it charges the client on hold,
// transfers worker earnings on release and refunds the client on refund.
// Every mutation re-validates the escrow state machine first.
type EscrowService struct {
	EscrowRepo EscrowStore
	Gateway    PaymentGateway
	Users      ContactDirectory
	History    PaymentHistory
	FeePercent int64
	ErrorLog   *log.Logger
	Now        func() time.Time
}

func (s *EscrowService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *EscrowService) feePercent() int64 {
	if s.FeePercent > 0 {
		return s.FeePercent
	}
	return 5
}

// PlatformFee computes the platform's cut in kobo, rounded half up.
func (s *EscrowService) PlatformFee(amount int64) int64 {
	return (amount*s.feePercent() + 50) / 100
}

// Hold charges the client and creates the escrowed custody record. No
// record is created when the charge fails.
func (s *EscrowService) Hold(ctx context.Context, b models.Booking) (models.EscrowPayment, error) {
	if _, err := s.EscrowRepo.GetByBookingID(ctx, b.ID); err == nil {
		return models.EscrowPayment{}, models.ErrEscrowExists
	} else if !errors.Is(err, models.ErrEscrowNotFound) {
		return models.EscrowPayment{}, err
	}

	client, err := s.Users.GetContact(ctx, b.ClientID)
	if err != nil {
		return models.EscrowPayment{}, err
	}

	reference := "esc-" + uuid.New().String()
	if _, err := s.Gateway.Charge(ctx, pay.ChargeRequest{
		Email:             client.Email,
		Amount:            b.BudgetAmount,
		AuthorizationCode: client.AuthCode,
		Reference:         reference,
	}); err != nil {
		return models.EscrowPayment{}, fmt.Errorf("%w: %v", models.ErrPaymentFailed, err)
	}

	fee := s.PlatformFee(b.BudgetAmount)
	payment := models.EscrowPayment{
		BookingID:        b.ID,
		ClientID:         b.ClientID,
		WorkerID:         b.WorkerID,
		Amount:           b.BudgetAmount,
		PlatformFee:      fee,
		WorkerEarnings:   b.BudgetAmount - fee,
		Status:           fsm.EscrowEscrowed,
		PaymentReference: reference,
	}
	payment, err = s.EscrowRepo.Create(ctx, payment)
	if err != nil {
		return models.EscrowPayment{}, err
	}
	s.record(ctx, payment, models.PaymentEventHeld, reference, "")
	return payment, nil
}

// Release transfers worker earnings to the worker's payout account and
// marks the record released. Releasing an already-released record is a
// no-op success; a failed transfer leaves the record untouched so the
// caller may retry.
func (s *EscrowService) Release(ctx context.Context, bookingID int64) (models.EscrowPayment, error) {
	payment, err := s.EscrowRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return models.EscrowPayment{}, err
	}
	if payment.Status == fsm.EscrowReleased {
		return payment, nil
	}
	if !fsm.EscrowCanTransition(payment.Status, fsm.EscrowReleased) {
		return models.EscrowPayment{}, models.NewTransitionError("escrow", payment.Status, fsm.EscrowReleased)
	}
	if payment.WorkerID == nil {
		return models.EscrowPayment{}, fmt.Errorf("%w: escrow payment has no worker", models.ErrValidation)
	}

	worker, err := s.Users.GetContact(ctx, *payment.WorkerID)
	if err != nil {
		return models.EscrowPayment{}, err
	}
	if worker.RecipientCode == "" {
		return models.EscrowPayment{}, fmt.Errorf("%w: worker has no payout account", models.ErrValidation)
	}

	transferRef := "rel-" + uuid.New().String()
	transferCode, err := s.Gateway.Transfer(ctx, pay.TransferRequest{
		Amount:    payment.WorkerEarnings,
		Recipient: worker.RecipientCode,
		Reference: transferRef,
		Reason:    fmt.Sprintf("booking %d payout", bookingID),
	})
	if err != nil {
		return models.EscrowPayment{}, fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}

	now := s.now()
	if err := s.EscrowRepo.MarkReleased(ctx, payment.ID, payment.Status, transferCode, now); err != nil {
		// Lost a race after a confirmed transfer: re-read and treat a
		// concurrent release as the same outcome.
		current, rerr := s.EscrowRepo.GetByBookingID(ctx, bookingID)
		if rerr == nil && current.Status == fsm.EscrowReleased {
			return current, nil
		}
		return models.EscrowPayment{}, err
	}
	payment.Status = fsm.EscrowReleased
	payment.TransferReference = &transferCode
	payment.ReleasedAt = &now
	s.record(ctx, payment, models.PaymentEventReleased, transferCode, "")
	return payment, nil
}

// Refund returns the full amount to the client and marks the record
// refunded. Refunding an already-refunded record is a no-op success.
func (s *EscrowService) Refund(ctx context.Context, bookingID int64, reason string) (models.EscrowPayment, error) {
	payment, err := s.EscrowRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return models.EscrowPayment{}, err
	}
	if payment.Status == fsm.EscrowRefunded {
		return payment, nil
	}
	if !fsm.EscrowCanTransition(payment.Status, fsm.EscrowRefunded) {
		return models.EscrowPayment{}, models.NewTransitionError("escrow", payment.Status, fsm.EscrowRefunded)
	}

	refundRef, err := s.Gateway.Refund(ctx, payment.PaymentReference, payment.Amount)
	if err != nil {
		return models.EscrowPayment{}, fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}

	now := s.now()
	if err := s.EscrowRepo.MarkRefunded(ctx, payment.ID, payment.Status, reason, now); err != nil {
		current, rerr := s.EscrowRepo.GetByBookingID(ctx, bookingID)
		if rerr == nil && current.Status == fsm.EscrowRefunded {
			return current, nil
		}
		return models.EscrowPayment{}, err
	}
	payment.Status = fsm.EscrowRefunded
	payment.RefundReason = reason
	payment.RefundedAt = &now
	s.record(ctx, payment, models.PaymentEventRefunded, refundRef, reason)
	return payment, nil
}

// MarkDisputed flags the hold while a dispute is open. Only an escrowed
// payment can be flagged.
func (s *EscrowService) MarkDisputed(ctx context.Context, bookingID int64) error {
	payment, err := s.EscrowRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}
	if payment.Status == fsm.EscrowDisputed {
		return nil
	}
	if !fsm.EscrowCanTransition(payment.Status, fsm.EscrowDisputed) {
		return models.NewTransitionError("escrow", payment.Status, fsm.EscrowDisputed)
	}
	return s.EscrowRepo.MarkDisputed(ctx, payment.ID)
}

// GetByBookingID exposes the custody record for read endpoints.
func (s *EscrowService) GetByBookingID(ctx context.Context, bookingID int64) (models.EscrowPayment, error) {
	return s.EscrowRepo.GetByBookingID(ctx, bookingID)
}

// record writes an audit row. Audit failures never affect the financial
// outcome; they are logged and swallowed.
func (s *EscrowService) record(ctx context.Context, p models.EscrowPayment, event, reference, note string) {
	if s.History == nil {
		return
	}
	item := models.PaymentHistoryItem{
		BookingID: p.BookingID,
		EscrowID:  p.ID,
		Event:     event,
		Amount:    p.Amount,
		Reference: reference,
		Note:      note,
	}
	if err := s.History.Record(ctx, item); err != nil && s.ErrorLog != nil {
		s.ErrorLog.Printf("escrow: payment history %s for booking %d failed: %v", event, p.BookingID, err)
	}
}
