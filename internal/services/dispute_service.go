package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
)

// DisputeLedger is the full persistence surface for disputes.
type DisputeLedger interface {
	GetByID(ctx context.Context, id int64) (models.Dispute, error)
	SetWorkerResponse(ctx context.Context, id int64, response string) error
	SetEvidenceURL(ctx context.Context, id int64, url string) error
	MarkUnderReview(ctx context.Context, id int64, from string) error
	Resolve(ctx context.Context, id int64, from, resolution, adminNotes string, at time.Time) error
	ListOpen(ctx context.Context) ([]models.Dispute, error)
}

// Lifecycle is what the resolver needs from the booking service to apply
// the financial outcome of a ruling.
type Lifecycle interface {
	CompleteFromDispute(ctx context.Context, bookingID int64) error
	CancelFromDispute(ctx context.Context, bookingID int64, reason string) error
}

// DisputeService handles worker responses and admin rulings. The financial
// side of a ruling is delegated back to the booking lifecycle so money
// only ever moves through one code path.
type DisputeService struct {
	Disputes    DisputeLedger
	Bookings    Lifecycle
	Users       ContactDirectory
	Notify      Notifier
	AdminUserID int64
	ErrorLog    *log.Logger
	Now         func() time.Time
}

func (s *DisputeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AddWorkerResponse records the worker's one-time statement on an open
// dispute and tells the admin there is a new side to read.
func (s *DisputeService) AddWorkerResponse(ctx context.Context, disputeID, workerID int64, response string) error {
	if response == "" {
		return fmt.Errorf("%w: response cannot be empty", models.ErrValidation)
	}
	dispute, err := s.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return err
	}
	if dispute.WorkerID == nil || *dispute.WorkerID != workerID {
		return models.ErrUnauthorized
	}
	if dispute.WorkerResponse != nil {
		return models.ErrAlreadyResponded
	}
	if !fsm.DisputeCanTransition(dispute.Status, fsm.DisputeWorkerResponded) {
		return models.NewTransitionError("dispute", dispute.Status, fsm.DisputeWorkerResponded)
	}
	if err := s.Disputes.SetWorkerResponse(ctx, disputeID, response); err != nil {
		return err
	}
	if s.Notify != nil && s.AdminUserID != 0 {
		key := fmt.Sprintf("dispute:%d:worker_responded", disputeID)
		msg := fmt.Sprintf("The worker added their side on dispute #%d (booking %d).", disputeID, dispute.BookingID)
		if err := s.Notify.InApp(ctx, s.AdminUserID, "Worker responded to dispute", msg, models.NotificationTypeDispute, "", key); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("dispute %d: notify admin: %v", disputeID, err)
		}
	}
	return nil
}

// AttachEvidence links an uploaded file to an open dispute. Only the
// client who raised it may attach evidence.
func (s *DisputeService) AttachEvidence(ctx context.Context, disputeID, clientID int64, url string) error {
	dispute, err := s.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return err
	}
	if dispute.ClientID != clientID {
		return models.ErrUnauthorized
	}
	if dispute.Status == fsm.DisputeResolved {
		return models.NewTransitionError("dispute", dispute.Status, dispute.Status)
	}
	return s.Disputes.SetEvidenceURL(ctx, disputeID, url)
}

// GetForReview returns a dispute for the admin and moves it under review
// the first time it is opened.
func (s *DisputeService) GetForReview(ctx context.Context, disputeID int64) (models.Dispute, error) {
	dispute, err := s.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return models.Dispute{}, err
	}
	if fsm.DisputeCanTransition(dispute.Status, fsm.DisputeUnderReview) {
		if err := s.Disputes.MarkUnderReview(ctx, disputeID, dispute.Status); err == nil {
			dispute.Status = fsm.DisputeUnderReview
		}
	}
	return dispute, nil
}

// ListOpen returns all unresolved disputes, oldest first.
func (s *DisputeService) ListOpen(ctx context.Context) ([]models.Dispute, error) {
	return s.Disputes.ListOpen(ctx)
}

// Resolve applies an admin ruling. approve_worker releases funds via the
// completion path, refund_client returns them via the cancellation path,
// resolve_themselves moves no money. Re-resolving with the same ruling
// retries only the money movement, which is idempotent downstream; any
// other ruling on a resolved dispute is refused.
func (s *DisputeService) Resolve(ctx context.Context, disputeID int64, resolution, adminNotes string) (models.Dispute, error) {
	switch resolution {
	case models.ResolutionApproveWorker, models.ResolutionRefundClient, models.ResolutionResolveThemselves:
	default:
		return models.Dispute{}, fmt.Errorf("%w: unknown resolution %q", models.ErrValidation, resolution)
	}

	dispute, err := s.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return models.Dispute{}, err
	}

	if dispute.Status == fsm.DisputeResolved {
		if dispute.Resolution == nil || *dispute.Resolution != resolution {
			return models.Dispute{}, models.NewTransitionError("dispute", dispute.Status, fsm.DisputeResolved)
		}
	} else {
		now := s.now()
		if err := s.Disputes.Resolve(ctx, disputeID, dispute.Status, resolution, adminNotes, now); err != nil {
			return models.Dispute{}, err
		}
		dispute.Status = fsm.DisputeResolved
		dispute.Resolution = &resolution
		if adminNotes != "" {
			dispute.AdminNotes = &adminNotes
		}
		dispute.ResolvedAt = &now
	}

	switch resolution {
	case models.ResolutionApproveWorker:
		if err := s.Bookings.CompleteFromDispute(ctx, dispute.BookingID); err != nil {
			return models.Dispute{}, err
		}
	case models.ResolutionRefundClient:
		if err := s.Bookings.CancelFromDispute(ctx, dispute.BookingID, "dispute resolved in client's favour"); err != nil {
			return models.Dispute{}, err
		}
	case models.ResolutionResolveThemselves:
		// No money moves; both parties are told to settle directly.
	}

	s.notifyOutcome(ctx, dispute, resolution)
	return dispute, nil
}

func (s *DisputeService) notifyOutcome(ctx context.Context, dispute models.Dispute, resolution string) {
	if s.Notify == nil {
		return
	}
	var clientMsg, workerMsg string
	switch resolution {
	case models.ResolutionApproveWorker:
		clientMsg = "An admin reviewed your dispute and released payment to the worker."
		workerMsg = "The dispute was resolved in your favour and your earnings have been released."
	case models.ResolutionRefundClient:
		clientMsg = "An admin reviewed your dispute and refunded you in full."
		workerMsg = "The dispute was resolved in the client's favour; the booking was refunded."
	case models.ResolutionResolveThemselves:
		clientMsg = "An admin asked both of you to settle this directly. Funds stay in escrow for now."
		workerMsg = clientMsg
	}
	key := fmt.Sprintf("dispute:%d:resolved", dispute.ID)
	if err := s.Notify.InApp(ctx, dispute.ClientID, "Dispute resolved", clientMsg, models.NotificationTypeDispute, "", key+":client"); err != nil && s.ErrorLog != nil {
		s.ErrorLog.Printf("dispute %d: notify client: %v", dispute.ID, err)
	}
	if dispute.WorkerID != nil {
		if err := s.Notify.InApp(ctx, *dispute.WorkerID, "Dispute resolved", workerMsg, models.NotificationTypeDispute, "", key+":worker"); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("dispute %d: notify worker: %v", dispute.ID, err)
		}
	}
}

// Get returns a dispute, restricted to its participants.
func (s *DisputeService) Get(ctx context.Context, disputeID, userID int64) (models.Dispute, error) {
	dispute, err := s.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return models.Dispute{}, err
	}
	if dispute.ClientID != userID && (dispute.WorkerID == nil || *dispute.WorkerID != userID) {
		return models.Dispute{}, models.ErrUnauthorized
	}
	return dispute, nil
}
