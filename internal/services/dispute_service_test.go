package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
)

type stubDisputeLedger struct {
	dispute      models.Dispute
	resolveCalls int
	responses    []string
	evidence     []string
	reviews      int
}

func (s *stubDisputeLedger) GetByID(ctx context.Context, id int64) (models.Dispute, error) {
	if s.dispute.ID != id {
		return models.Dispute{}, models.ErrDisputeNotFound
	}
	return s.dispute, nil
}

func (s *stubDisputeLedger) SetWorkerResponse(ctx context.Context, id int64, response string) error {
	if s.dispute.WorkerResponse != nil {
		return models.ErrAlreadyResponded
	}
	s.responses = append(s.responses, response)
	s.dispute.WorkerResponse = &response
	s.dispute.Status = fsm.DisputeWorkerResponded
	return nil
}

func (s *stubDisputeLedger) SetEvidenceURL(ctx context.Context, id int64, url string) error {
	s.evidence = append(s.evidence, url)
	s.dispute.EvidenceURL = &url
	return nil
}

func (s *stubDisputeLedger) MarkUnderReview(ctx context.Context, id int64, from string) error {
	if s.dispute.Status != from {
		return models.ErrDisputeNotFound
	}
	s.reviews++
	s.dispute.Status = fsm.DisputeUnderReview
	return nil
}

func (s *stubDisputeLedger) Resolve(ctx context.Context, id int64, from, resolution, adminNotes string, at time.Time) error {
	if s.dispute.Status != from {
		return models.ErrDisputeNotFound
	}
	s.resolveCalls++
	s.dispute.Status = fsm.DisputeResolved
	s.dispute.Resolution = &resolution
	s.dispute.ResolvedAt = &at
	return nil
}

func (s *stubDisputeLedger) ListOpen(ctx context.Context) ([]models.Dispute, error) {
	return []models.Dispute{s.dispute}, nil
}

type stubLifecycle struct {
	completeErr error
	cancelErr   error
	completes   []int64
	cancels     []int64
}

func (l *stubLifecycle) CompleteFromDispute(ctx context.Context, bookingID int64) error {
	if l.completeErr != nil {
		return l.completeErr
	}
	l.completes = append(l.completes, bookingID)
	return nil
}

func (l *stubLifecycle) CancelFromDispute(ctx context.Context, bookingID int64, reason string) error {
	if l.cancelErr != nil {
		return l.cancelErr
	}
	l.cancels = append(l.cancels, bookingID)
	return nil
}

func openDispute() models.Dispute {
	worker := int64(20)
	return models.Dispute{
		ID: 5, BookingID: 1, ClientID: 10, WorkerID: &worker,
		Category: "quality", ClientStatement: "unfinished work",
		Amount: 10_000, Status: fsm.DisputePending,
	}
}

func newDisputeService(ledger *stubDisputeLedger, lifecycle *stubLifecycle) (*DisputeService, *stubNotifier) {
	notifier := &stubNotifier{}
	return &DisputeService{
		Disputes:    ledger,
		Bookings:    lifecycle,
		Notify:      notifier,
		AdminUserID: 99,
		Now:         func() time.Time { return time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC) },
	}, notifier
}

func TestWorkerResponseRecordedOnce(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	svc, _ := newDisputeService(ledger, &stubLifecycle{})

	if err := svc.AddWorkerResponse(context.Background(), 5, 20, "the job was done"); err != nil {
		t.Fatalf("first response: %v", err)
	}
	err := svc.AddWorkerResponse(context.Background(), 5, 20, "let me rephrase")
	if !errors.Is(err, models.ErrAlreadyResponded) {
		t.Fatalf("second response: err = %v, want ErrAlreadyResponded", err)
	}
	if len(ledger.responses) != 1 {
		t.Fatalf("responses = %v", ledger.responses)
	}
}

func TestWorkerResponseNotifiesAdmin(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	svc, notifier := newDisputeService(ledger, &stubLifecycle{})

	if err := svc.AddWorkerResponse(context.Background(), 5, 20, "the job was done"); err != nil {
		t.Fatalf("response: %v", err)
	}
	want := "dispute:5:worker_responded"
	if len(notifier.inApp) != 1 || notifier.inApp[0] != want {
		t.Fatalf("notifications = %v, want [%s] for the admin", notifier.inApp, want)
	}
}

func TestWorkerResponseRefusedOnceUnderReview(t *testing.T) {
	dispute := openDispute()
	dispute.Status = fsm.DisputeUnderReview
	ledger := &stubDisputeLedger{dispute: dispute}
	svc, notifier := newDisputeService(ledger, &stubLifecycle{})

	err := svc.AddWorkerResponse(context.Background(), 5, 20, "too late?")
	var te *models.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransitionError", err)
	}
	if te.From != fsm.DisputeUnderReview || te.To != fsm.DisputeWorkerResponded {
		t.Fatalf("transition error = %v", te)
	}
	if len(ledger.responses) != 0 || len(notifier.inApp) != 0 {
		t.Fatalf("responses = %v, notifications = %v, want none", ledger.responses, notifier.inApp)
	}
}

func TestWorkerResponseOnlyFromNamedWorker(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	svc, _ := newDisputeService(ledger, &stubLifecycle{})

	if err := svc.AddWorkerResponse(context.Background(), 5, 77, "not my dispute"); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestResolveApproveWorker(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	lifecycle := &stubLifecycle{}
	svc, notifier := newDisputeService(ledger, lifecycle)

	d, err := svc.Resolve(context.Background(), 5, models.ResolutionApproveWorker, "worker delivered")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if d.Status != fsm.DisputeResolved || d.Resolution == nil || *d.Resolution != models.ResolutionApproveWorker {
		t.Fatalf("dispute after resolve = %+v", d)
	}
	if len(lifecycle.completes) != 1 || lifecycle.completes[0] != 1 {
		t.Fatalf("completes = %v", lifecycle.completes)
	}
	if len(lifecycle.cancels) != 0 {
		t.Fatalf("cancels = %v", lifecycle.cancels)
	}
	if len(notifier.inApp) != 2 {
		t.Fatalf("notifications = %v, want client and worker", notifier.inApp)
	}
}

func TestResolveRefundClient(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	lifecycle := &stubLifecycle{}
	svc, _ := newDisputeService(ledger, lifecycle)

	if _, err := svc.Resolve(context.Background(), 5, models.ResolutionRefundClient, "worker no-show"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(lifecycle.cancels) != 1 || len(lifecycle.completes) != 0 {
		t.Fatalf("cancels = %v, completes = %v", lifecycle.cancels, lifecycle.completes)
	}
}

func TestResolveThemselvesMovesNoMoney(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	lifecycle := &stubLifecycle{}
	svc, _ := newDisputeService(ledger, lifecycle)

	if _, err := svc.Resolve(context.Background(), 5, models.ResolutionResolveThemselves, ""); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(lifecycle.completes)+len(lifecycle.cancels) != 0 {
		t.Fatalf("money moved: completes = %v, cancels = %v", lifecycle.completes, lifecycle.cancels)
	}
	if ledger.dispute.Status != fsm.DisputeResolved {
		t.Fatalf("status = %q", ledger.dispute.Status)
	}
}

func TestResolveUnknownResolution(t *testing.T) {
	svc, _ := newDisputeService(&stubDisputeLedger{dispute: openDispute()}, &stubLifecycle{})

	if _, err := svc.Resolve(context.Background(), 5, "split_the_difference", ""); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestResolveAgainWithDifferentRulingRefused(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	svc, _ := newDisputeService(ledger, &stubLifecycle{})

	if _, err := svc.Resolve(context.Background(), 5, models.ResolutionApproveWorker, ""); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	_, err := svc.Resolve(context.Background(), 5, models.ResolutionRefundClient, "")
	var te *models.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransitionError", err)
	}
}

func TestResolveSameRulingRetriesMoneyMovement(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	lifecycle := &stubLifecycle{completeErr: models.ErrTransferFailed}
	svc, _ := newDisputeService(ledger, lifecycle)

	// First attempt marks the dispute resolved but the payout fails.
	_, err := svc.Resolve(context.Background(), 5, models.ResolutionApproveWorker, "")
	if !errors.Is(err, models.ErrTransferFailed) {
		t.Fatalf("first resolve: err = %v, want ErrTransferFailed", err)
	}
	if ledger.dispute.Status != fsm.DisputeResolved {
		t.Fatalf("dispute not marked resolved: %q", ledger.dispute.Status)
	}

	// Same ruling again retries only the payout.
	lifecycle.completeErr = nil
	if _, err := svc.Resolve(context.Background(), 5, models.ResolutionApproveWorker, ""); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if ledger.resolveCalls != 1 {
		t.Fatalf("resolveCalls = %d, want 1", ledger.resolveCalls)
	}
	if len(lifecycle.completes) != 1 {
		t.Fatalf("completes = %v", lifecycle.completes)
	}
}

func TestGetForReviewMovesUnderReview(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	svc, _ := newDisputeService(ledger, &stubLifecycle{})

	d, err := svc.GetForReview(context.Background(), 5)
	if err != nil {
		t.Fatalf("get for review: %v", err)
	}
	if d.Status != fsm.DisputeUnderReview {
		t.Fatalf("status = %q, want under_review", d.Status)
	}
	if ledger.reviews != 1 {
		t.Fatalf("reviews = %d", ledger.reviews)
	}
}

func TestAttachEvidenceOnlyByClient(t *testing.T) {
	ledger := &stubDisputeLedger{dispute: openDispute()}
	svc, _ := newDisputeService(ledger, &stubLifecycle{})

	if err := svc.AttachEvidence(context.Background(), 5, 20, "https://cdn/x.jpg"); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("worker attach: err = %v, want ErrUnauthorized", err)
	}
	if err := svc.AttachEvidence(context.Background(), 5, 10, "https://cdn/x.jpg"); err != nil {
		t.Fatalf("client attach: %v", err)
	}
	if len(ledger.evidence) != 1 {
		t.Fatalf("evidence = %v", ledger.evidence)
	}
}
