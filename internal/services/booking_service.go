package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
	"hyreBack/utils"
)

// Booking budget bounds in kobo.
const (
	MinBookingAmount = 50_000      // ₦500
	MaxBookingAmount = 100_000_000 // ₦1,000,000
)

// BookingStore is the persistence surface for bookings.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to, stampColumn string, at time.Time) error
	Cancel(ctx context.Context, id int64, from, reason string, at time.Time) error
	AssignWorker(ctx context.Context, id, workerID int64, at time.Time) error
	ListByClient(ctx context.Context, clientID int64) ([]models.Booking, error)
	ListByWorker(ctx context.Context, workerID int64) ([]models.Booking, error)
}

// EscrowLedger is what the lifecycle needs from the escrow service.
type EscrowLedger interface {
	Hold(ctx context.Context, b models.Booking) (models.EscrowPayment, error)
	Release(ctx context.Context, bookingID int64) (models.EscrowPayment, error)
	Refund(ctx context.Context, bookingID int64, reason string) (models.EscrowPayment, error)
	MarkDisputed(ctx context.Context, bookingID int64) error
}

// DisputeStore is the persistence surface the lifecycle uses when a client
// raises a dispute.
type DisputeStore interface {
	Create(ctx context.Context, d models.Dispute) (models.Dispute, error)
	OpenByBookingID(ctx context.Context, bookingID int64) (models.Dispute, error)
}

// Notifier fans a message out to the channels a recipient has.
type Notifier interface {
	InApp(ctx context.Context, userID int64, title, message, ntype, actionURL, key string) error
	SMS(ctx context.Context, phone, message string) error
	Email(ctx context.Context, to, subject, body string) error
}

// BookingService drives the booking status machine. Status changes and
// money movements are persisted before any notification goes out, and a
// notification failure never rolls back a persisted change.
type BookingService struct {
	Bookings    BookingStore
	Escrow      EscrowLedger
	Disputes    DisputeStore
	Users       ContactDirectory
	Notify      Notifier
	AdminUserID int64
	InfoLog     *log.Logger
	ErrorLog    *log.Logger
	Now         func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateBooking validates the budget, persists a pending booking and holds
// the client's funds in escrow. A failed charge leaves the booking
// cancelled and no escrow record behind.
func (s *BookingService) CreateBooking(ctx context.Context, clientID int64, workerID *int64, amount int64, scheduled *time.Time) (models.Booking, error) {
	if amount < MinBookingAmount || amount > MaxBookingAmount {
		return models.Booking{}, fmt.Errorf("%w: budget must be between ₦500 and ₦1,000,000", models.ErrValidation)
	}

	booking := models.Booking{
		Reference:     utils.NewReference("BK"),
		ClientID:      clientID,
		WorkerID:      workerID,
		Status:        fsm.BookingPending,
		BudgetAmount:  amount,
		ScheduledDate: scheduled,
	}
	booking, err := s.Bookings.Create(ctx, booking)
	if err != nil {
		return models.Booking{}, err
	}

	if _, err := s.Escrow.Hold(ctx, booking); err != nil {
		if cerr := s.Bookings.Cancel(ctx, booking.ID, fsm.BookingPending, "payment failed", s.now()); cerr != nil {
			s.errorf("booking %d: cancel after failed charge: %v", booking.ID, cerr)
		}
		return models.Booking{}, err
	}

	s.notifyUser(ctx, clientID, "Booking created",
		fmt.Sprintf("Your booking %s is confirmed and ₦%s is held in escrow until the job is done.", booking.Reference, naira(amount)),
		models.NotificationTypeBooking, fmt.Sprintf("booking:%d:created", booking.ID), false)
	return booking, nil
}

// AcceptBooking binds the worker to a pending booking.
func (s *BookingService) AcceptBooking(ctx context.Context, bookingID, workerID int64) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.WorkerID != nil && *booking.WorkerID != workerID {
		return models.ErrUnauthorized
	}
	if err := s.Bookings.AssignWorker(ctx, bookingID, workerID, s.now()); err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			return s.transitionConflict(ctx, bookingID, fsm.BookingAccepted, err)
		}
		return err
	}
	s.notifyUser(ctx, booking.ClientID, "Worker accepted",
		fmt.Sprintf("Your worker accepted booking %s.", booking.Reference),
		models.NotificationTypeBooking, fmt.Sprintf("booking:%d:accepted", bookingID), false)
	return nil
}

// StartBooking moves an accepted booking to in_progress. Only the assigned
// worker may start the job.
func (s *BookingService) StartBooking(ctx context.Context, bookingID, workerID int64) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.WorkerID == nil || *booking.WorkerID != workerID {
		return models.ErrUnauthorized
	}
	if err := s.Bookings.UpdateStatus(ctx, bookingID, fsm.BookingAccepted, fsm.BookingInProgress, "", s.now()); err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			return s.transitionConflict(ctx, bookingID, fsm.BookingInProgress, err)
		}
		return err
	}
	s.notifyUser(ctx, booking.ClientID, "Job started",
		fmt.Sprintf("Work on booking %s has started.", booking.Reference),
		models.NotificationTypeBooking, fmt.Sprintf("booking:%d:started", bookingID), false)
	return nil
}

// MarkWorkerCompleted records the worker's claim that the job is done. The
// client still has to confirm before funds move.
func (s *BookingService) MarkWorkerCompleted(ctx context.Context, bookingID, workerID int64) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.WorkerID == nil || *booking.WorkerID != workerID {
		return models.ErrUnauthorized
	}
	if err := s.Bookings.UpdateStatus(ctx, bookingID, fsm.BookingInProgress, fsm.BookingWorkerCompleted, "", s.now()); err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			return s.transitionConflict(ctx, bookingID, fsm.BookingWorkerCompleted, err)
		}
		return err
	}
	s.notifyUser(ctx, booking.ClientID, "Job marked complete",
		fmt.Sprintf("Your worker marked booking %s as complete. Confirm to release payment, or raise a dispute.", booking.Reference),
		models.NotificationTypeBooking, fmt.Sprintf("booking:%d:worker_completed", bookingID), true)
	return nil
}

// ConfirmCompletion is the client's sign-off. Funds are released to the
// worker first; the booking only reaches completed after the payout
// succeeded, so a failed transfer stays retryable.
func (s *BookingService) ConfirmCompletion(ctx context.Context, bookingID, clientID int64) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.ClientID != clientID {
		return models.ErrUnauthorized
	}
	if booking.Status != fsm.BookingWorkerCompleted {
		return models.NewTransitionError("booking", booking.Status, fsm.BookingCompleted)
	}
	return s.complete(ctx, booking, fsm.BookingWorkerCompleted)
}

// CompleteFromDispute finishes a booking after an admin approved the
// worker: the disputed booking passes back through worker_completed so a
// transfer failure can be retried from there.
func (s *BookingService) CompleteFromDispute(ctx context.Context, bookingID int64) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == fsm.BookingDisputed {
		if err := s.Bookings.UpdateStatus(ctx, bookingID, fsm.BookingDisputed, fsm.BookingWorkerCompleted, "", s.now()); err != nil {
			return err
		}
		booking.Status = fsm.BookingWorkerCompleted
	}
	if booking.Status != fsm.BookingWorkerCompleted {
		return models.NewTransitionError("booking", booking.Status, fsm.BookingCompleted)
	}
	return s.complete(ctx, booking, fsm.BookingWorkerCompleted)
}

func (s *BookingService) complete(ctx context.Context, booking models.Booking, from string) error {
	payment, err := s.Escrow.Release(ctx, booking.ID)
	if err != nil {
		return err
	}
	if err := s.Bookings.UpdateStatus(ctx, booking.ID, from, fsm.BookingCompleted, "completed_at", s.now()); err != nil {
		// Funds already moved; surface the inconsistency loudly.
		s.errorf("booking %d: released %d kobo but status update failed: %v", booking.ID, payment.WorkerEarnings, err)
		return err
	}
	if booking.WorkerID != nil {
		s.notifyUser(ctx, *booking.WorkerID, "Payment released",
			fmt.Sprintf("₦%s for booking %s has been sent to your payout account.", naira(payment.WorkerEarnings), booking.Reference),
			models.NotificationTypeBooking, fmt.Sprintf("booking:%d:released", booking.ID), true)
	}
	s.notifyUser(ctx, booking.ClientID, "Booking completed",
		fmt.Sprintf("Booking %s is complete. Thanks for confirming.", booking.Reference),
		models.NotificationTypeBooking, fmt.Sprintf("booking:%d:completed", booking.ID), false)
	return nil
}

// CancelBooking lets the client back out before the worker has committed.
// Once a worker accepted, the only way out is the dispute flow.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, clientID int64, reason string) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.ClientID != clientID {
		return models.ErrUnauthorized
	}
	switch booking.Status {
	case fsm.BookingPending:
	case fsm.BookingAccepted, fsm.BookingInProgress, fsm.BookingWorkerCompleted, fsm.BookingDisputed:
		return models.ErrCannotCancel
	default:
		return models.NewTransitionError("booking", booking.Status, fsm.BookingCancelled)
	}
	return s.cancel(ctx, booking, fsm.BookingPending, reason)
}

// CancelFromDispute cancels a disputed booking after an admin ruled for
// the client: funds go back first, then the booking is closed.
func (s *BookingService) CancelFromDispute(ctx context.Context, bookingID int64, reason string) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status != fsm.BookingDisputed {
		return models.NewTransitionError("booking", booking.Status, fsm.BookingCancelled)
	}
	return s.cancel(ctx, booking, fsm.BookingDisputed, reason)
}

func (s *BookingService) cancel(ctx context.Context, booking models.Booking, from, reason string) error {
	if _, err := s.Escrow.Refund(ctx, booking.ID, reason); err != nil && !errors.Is(err, models.ErrEscrowNotFound) {
		return err
	}
	if err := s.Bookings.Cancel(ctx, booking.ID, from, reason, s.now()); err != nil {
		return err
	}
	s.notifyUser(ctx, booking.ClientID, "Booking cancelled",
		fmt.Sprintf("Booking %s was cancelled and ₦%s refunded to you.", booking.Reference, naira(booking.BudgetAmount)),
		models.NotificationTypeBooking, fmt.Sprintf("booking:%d:cancelled", booking.ID), false)
	if booking.WorkerID != nil {
		s.notifyUser(ctx, *booking.WorkerID, "Booking cancelled",
			fmt.Sprintf("Booking %s was cancelled: %s", booking.Reference, reason),
			models.NotificationTypeBooking, fmt.Sprintf("booking:%d:cancelled:worker", booking.ID), false)
	}
	return nil
}

// RaiseDispute freezes a live booking and opens a dispute for the admin.
// Only one open dispute may exist per booking.
func (s *BookingService) RaiseDispute(ctx context.Context, bookingID, clientID int64, category, statement string) (models.Dispute, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Dispute{}, err
	}
	if booking.ClientID != clientID {
		return models.Dispute{}, models.ErrUnauthorized
	}
	if !fsm.BookingCanTransition(booking.Status, fsm.BookingDisputed) {
		return models.Dispute{}, models.NewTransitionError("booking", booking.Status, fsm.BookingDisputed)
	}
	if _, err := s.Disputes.OpenByBookingID(ctx, bookingID); err == nil {
		return models.Dispute{}, models.ErrDisputeExists
	} else if !errors.Is(err, models.ErrDisputeNotFound) {
		return models.Dispute{}, err
	}
	if statement == "" {
		return models.Dispute{}, fmt.Errorf("%w: a dispute needs a statement", models.ErrValidation)
	}

	if err := s.Bookings.UpdateStatus(ctx, bookingID, booking.Status, fsm.BookingDisputed, "disputed_at", s.now()); err != nil {
		if errors.Is(err, models.ErrBookingNotFound) {
			return models.Dispute{}, s.transitionConflict(ctx, bookingID, fsm.BookingDisputed, err)
		}
		return models.Dispute{}, err
	}
	if err := s.Escrow.MarkDisputed(ctx, bookingID); err != nil && !errors.Is(err, models.ErrEscrowNotFound) {
		s.errorf("booking %d: flag escrow disputed: %v", bookingID, err)
	}

	dispute := models.Dispute{
		BookingID:       bookingID,
		ClientID:        clientID,
		WorkerID:        booking.WorkerID,
		Category:        category,
		ClientStatement: statement,
		Amount:          booking.BudgetAmount,
		Status:          fsm.DisputePending,
	}
	dispute, err = s.Disputes.Create(ctx, dispute)
	if err != nil {
		return models.Dispute{}, err
	}

	if booking.WorkerID != nil {
		s.notifyUser(ctx, *booking.WorkerID, "Dispute opened",
			fmt.Sprintf("The client opened a dispute on booking %s. You can add your side of the story.", booking.Reference),
			models.NotificationTypeDispute, fmt.Sprintf("dispute:%d:opened:worker", dispute.ID), true)
	}
	if s.AdminUserID != 0 {
		s.notifyUser(ctx, s.AdminUserID, "Dispute needs review",
			fmt.Sprintf("Booking %s (₦%s) is disputed: %s", booking.Reference, naira(booking.BudgetAmount), category),
			models.NotificationTypeDispute, fmt.Sprintf("dispute:%d:opened:admin", dispute.ID), false)
	}
	return dispute, nil
}

// GetBooking returns one booking.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

// ListForClient returns the client's bookings, newest first.
func (s *BookingService) ListForClient(ctx context.Context, clientID int64) ([]models.Booking, error) {
	return s.Bookings.ListByClient(ctx, clientID)
}

// ListForWorker returns the worker's bookings, newest first.
func (s *BookingService) ListForWorker(ctx context.Context, workerID int64) ([]models.Booking, error) {
	return s.Bookings.ListByWorker(ctx, workerID)
}

// transitionConflict re-reads the booking after a conditional update
// matched no rows and reports the transition that was actually refused.
func (s *BookingService) transitionConflict(ctx context.Context, bookingID int64, to string, orig error) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return orig
	}
	return models.NewTransitionError("booking", booking.Status, to)
}

// notifyUser fans out to in-app plus SMS for urgent events. Failures get
// logged and dropped.
func (s *BookingService) notifyUser(ctx context.Context, userID int64, title, message, ntype, key string, urgent bool) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.InApp(ctx, userID, title, message, ntype, "", key); err != nil {
		s.errorf("notify user %d (%s): %v", userID, key, err)
	}
	if !urgent || s.Users == nil {
		return
	}
	contact, err := s.Users.GetContact(ctx, userID)
	if err != nil {
		s.errorf("notify user %d (%s): contact lookup: %v", userID, key, err)
		return
	}
	if contact.Phone != "" {
		if err := s.Notify.SMS(ctx, contact.Phone, message); err != nil {
			s.errorf("notify user %d (%s): sms: %v", userID, key, err)
		}
	}
	if contact.Email != "" {
		if err := s.Notify.Email(ctx, contact.Email, title, message); err != nil {
			s.errorf("notify user %d (%s): email: %v", userID, key, err)
		}
	}
}

func (s *BookingService) errorf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}

// naira renders a kobo amount as a naira string with thousands intact.
func naira(kobo int64) string {
	whole := kobo / 100
	frac := kobo % 100
	if frac == 0 {
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
