package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
)

// DefaultAcceptanceWindow is how long a selected worker has to respond.
const DefaultAcceptanceWindow = time.Hour

// ApplicationStore is the persistence surface for job applications and
// their parent jobs.
type ApplicationStore interface {
	Create(ctx context.Context, a models.JobApplication) (models.JobApplication, error)
	GetByID(ctx context.Context, id int64) (models.JobApplication, error)
	Select(ctx context.Context, id, jobID int64, at time.Time) error
	MarkAccepted(ctx context.Context, id int64, at time.Time) error
	MarkDeclined(ctx context.Context, id int64, reason string, at time.Time) error
	MarkUnpicked(ctx context.Context, id int64, at time.Time) error
	GetJob(ctx context.Context, id int64) (models.Job, error)
	AssignJob(ctx context.Context, jobID, workerID int64) error
	ReopenJob(ctx context.Context, jobID int64) error
}

// BookingAcceptor binds a worker to the booking attached to a job once
// the worker accepts.
type BookingAcceptor interface {
	AcceptBooking(ctx context.Context, bookingID, workerID int64) error
}

// ApplicationService runs the selection flow: the client picks one
// applicant, who then has a fixed window to accept or decline. Expiry is
// detected lazily on the next read or response attempt; no background
// job sweeps expired selections.
type ApplicationService struct {
	Apps     ApplicationStore
	Bookings BookingAcceptor
	Users    ContactDirectory
	Notify   Notifier
	Window   time.Duration
	ErrorLog *log.Logger
	Now      func() time.Time
}

func (s *ApplicationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ApplicationService) window() time.Duration {
	if s.Window > 0 {
		return s.Window
	}
	return DefaultAcceptanceWindow
}

// Apply records a worker's candidacy for an open job.
func (s *ApplicationService) Apply(ctx context.Context, jobID, workerID int64, coverNote string) (models.JobApplication, error) {
	job, err := s.Apps.GetJob(ctx, jobID)
	if err != nil {
		return models.JobApplication{}, err
	}
	if job.Status != models.JobStatusOpen {
		return models.JobApplication{}, fmt.Errorf("%w: job is not open for applications", models.ErrValidation)
	}
	app := models.JobApplication{
		JobID:     jobID,
		WorkerID:  workerID,
		ClientID:  job.ClientID,
		Status:    fsm.ApplicationApplied,
		CoverNote: coverNote,
	}
	return s.Apps.Create(ctx, app)
}

// SelectWorker picks one applicant and starts their acceptance window.
// Any previously selected applicant on the same job is unpicked in the
// same transaction.
func (s *ApplicationService) SelectWorker(ctx context.Context, applicationID, clientID int64) error {
	app, err := s.Apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.ClientID != clientID {
		return models.ErrUnauthorized
	}
	if fsm.ApplicationResponded(app.Status) {
		return models.ErrAlreadyResponded
	}
	if err := s.Apps.Select(ctx, applicationID, app.JobID, s.now()); err != nil {
		return err
	}
	s.notifySelected(ctx, app)
	return nil
}

// Accept is the worker committing to the job within the window. When the
// job carries a booking, the booking moves to accepted too.
func (s *ApplicationService) Accept(ctx context.Context, applicationID, workerID int64) error {
	app, err := s.responding(ctx, applicationID, workerID)
	if err != nil {
		return err
	}
	if err := s.Apps.MarkAccepted(ctx, applicationID, s.now()); err != nil {
		return err
	}
	if err := s.Apps.AssignJob(ctx, app.JobID, workerID); err != nil {
		s.errorf("application %d: assign job %d: %v", applicationID, app.JobID, err)
	}
	if s.Bookings != nil {
		if job, err := s.Apps.GetJob(ctx, app.JobID); err == nil && job.BookingID != nil {
			if err := s.Bookings.AcceptBooking(ctx, *job.BookingID, workerID); err != nil {
				s.errorf("application %d: accept booking %d: %v", applicationID, *job.BookingID, err)
			}
		}
	}
	s.notifyClient(ctx, app, "Worker accepted",
		"Your selected worker accepted the job.", true)
	return nil
}

// Decline is the worker turning the job down. The job reopens so the
// client can pick someone else.
func (s *ApplicationService) Decline(ctx context.Context, applicationID, workerID int64, reason string) error {
	app, err := s.responding(ctx, applicationID, workerID)
	if err != nil {
		return err
	}
	if err := s.Apps.MarkDeclined(ctx, applicationID, reason, s.now()); err != nil {
		return err
	}
	if err := s.Apps.ReopenJob(ctx, app.JobID); err != nil {
		s.errorf("application %d: reopen job %d: %v", applicationID, app.JobID, err)
	}
	s.notifyClient(ctx, app, "Worker declined",
		"Your selected worker declined the job. Pick another applicant.", true)
	return nil
}

// responding loads the application and enforces the guards shared by
// accept and decline: ownership, single response, selection, and the
// acceptance window. An expired window unpicks the application on the
// spot.
func (s *ApplicationService) responding(ctx context.Context, applicationID, workerID int64) (models.JobApplication, error) {
	app, err := s.Apps.GetByID(ctx, applicationID)
	if err != nil {
		return models.JobApplication{}, err
	}
	if app.WorkerID != workerID {
		return models.JobApplication{}, models.ErrUnauthorized
	}
	if fsm.ApplicationResponded(app.Status) {
		return models.JobApplication{}, models.ErrAlreadyResponded
	}
	if app.SelectedAt == nil {
		return models.JobApplication{}, models.ErrNotSelected
	}
	if !s.CanRespond(*app.SelectedAt, s.now()) {
		s.expire(ctx, app)
		return models.JobApplication{}, models.ErrWindowExpired
	}
	return app, nil
}

// expire stamps an overdue selection as unpicked and reopens the job.
// Best effort: a lost race here means someone else already stamped it.
func (s *ApplicationService) expire(ctx context.Context, app models.JobApplication) {
	if err := s.Apps.MarkUnpicked(ctx, app.ID, s.now()); err != nil {
		if !errors.Is(err, models.ErrAlreadyResponded) {
			s.errorf("application %d: expire: %v", app.ID, err)
		}
		return
	}
	if err := s.Apps.ReopenJob(ctx, app.JobID); err != nil {
		s.errorf("application %d: reopen job %d after expiry: %v", app.ID, app.JobID, err)
	}
	s.notifyClient(ctx, app, "Selection expired",
		"Your selected worker did not respond within an hour. Pick another applicant.", false)
}

// CanRespond reports whether the window is still open at the given time.
// The window boundary itself counts as expired.
func (s *ApplicationService) CanRespond(selectedAt, at time.Time) bool {
	return at.Sub(selectedAt) < s.window()
}

// Remaining returns how much of the window is left, floored at zero.
func (s *ApplicationService) Remaining(selectedAt, at time.Time) time.Duration {
	left := s.window() - at.Sub(selectedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Status reports the live window state for a selected application. An
// expired window is stamped on the way out.
func (s *ApplicationService) Status(ctx context.Context, applicationID int64) (models.JobApplication, string, bool, error) {
	app, err := s.Apps.GetByID(ctx, applicationID)
	if err != nil {
		return models.JobApplication{}, "", false, err
	}
	if fsm.ApplicationResponded(app.Status) {
		return app, FormatRemaining(0), false, nil
	}
	if app.SelectedAt == nil {
		return models.JobApplication{}, "", false, models.ErrNotSelected
	}
	now := s.now()
	if !s.CanRespond(*app.SelectedAt, now) {
		s.expire(ctx, app)
		app.Status = fsm.ApplicationUnpicked
		return app, FormatRemaining(0), false, nil
	}
	return app, FormatRemaining(s.Remaining(*app.SelectedAt, now)), true, nil
}

// FormatRemaining renders a duration as HH:MM:SS.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func (s *ApplicationService) notifySelected(ctx context.Context, app models.JobApplication) {
	if s.Notify == nil {
		return
	}
	msg := "You've been selected for a job. Accept within 1 hour or the client will pick someone else."
	key := fmt.Sprintf("application:%d:selected", app.ID)
	if err := s.Notify.InApp(ctx, app.WorkerID, "You've been selected", msg, models.NotificationTypeWindow, "", key); err != nil {
		s.errorf("application %d: notify worker: %v", app.ID, err)
	}
	if s.Users == nil {
		return
	}
	contact, err := s.Users.GetContact(ctx, app.WorkerID)
	if err != nil {
		s.errorf("application %d: worker contact: %v", app.ID, err)
		return
	}
	if contact.Phone != "" {
		if err := s.Notify.SMS(ctx, contact.Phone, msg); err != nil {
			s.errorf("application %d: sms worker: %v", app.ID, err)
		}
	}
}

func (s *ApplicationService) notifyClient(ctx context.Context, app models.JobApplication, title, msg string, sms bool) {
	if s.Notify == nil {
		return
	}
	key := fmt.Sprintf("application:%d:%s", app.ID, title)
	if err := s.Notify.InApp(ctx, app.ClientID, title, msg, models.NotificationTypeWindow, "", key); err != nil {
		s.errorf("application %d: notify client: %v", app.ID, err)
	}
	if !sms || s.Users == nil {
		return
	}
	contact, err := s.Users.GetContact(ctx, app.ClientID)
	if err != nil {
		s.errorf("application %d: client contact: %v", app.ID, err)
		return
	}
	if contact.Phone != "" {
		if err := s.Notify.SMS(ctx, contact.Phone, msg); err != nil {
			s.errorf("application %d: sms client: %v", app.ID, err)
		}
	}
}

func (s *ApplicationService) errorf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}
