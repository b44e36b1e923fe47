package services

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/messaging"

	"hyreBack/internal/models"
)

// dedupTTL bounds how long an idempotency key suppresses repeats.
const dedupTTL = 48 * time.Hour

// NotificationStore persists in-app notifications.
type NotificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
}

// DedupStore claims idempotency keys.
type DedupStore interface {
	Once(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// SMSSender sends a text message.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// EmailSender sends a plain email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// NotificationService is the single fan-out point for user-facing
// messages: an in-app row (deduplicated by idempotency key), an FCM push
// when the user has a device token, and SMS/email passthroughs. Every
// channel is best effort; only the store row surfaces an error to the
// caller.
type NotificationService struct {
	Store    NotificationStore
	Dedup    DedupStore
	Users    ContactDirectory
	FCM      *messaging.Client
	SMSGate  SMSSender
	EmailGw  EmailSender
	ErrorLog *log.Logger
}

// InApp stores a notification and pushes it to the user's device. A key
// already claimed within the dedup TTL makes the whole call a no-op.
func (s *NotificationService) InApp(ctx context.Context, userID int64, title, message, ntype, actionURL, key string) error {
	if key != "" && s.Dedup != nil {
		fresh, err := s.Dedup.Once(ctx, key, dedupTTL)
		if err != nil {
			// Redis being down must not silence notifications; the
			// store's unique key still blocks true duplicates.
			s.errorf("notification dedup %q: %v", key, err)
		} else if !fresh {
			return nil
		}
	}

	n := models.Notification{
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           ntype,
		ActionURL:      actionURL,
		IdempotencyKey: key,
	}
	if err := s.Store.Insert(ctx, n); err != nil {
		return err
	}

	s.push(ctx, userID, title, message)
	return nil
}

// SMS sends a text through the SMS gateway.
func (s *NotificationService) SMS(ctx context.Context, phone, message string) error {
	if s.SMSGate == nil {
		return nil
	}
	return s.SMSGate.Send(ctx, phone, message)
}

// Email sends a plain email.
func (s *NotificationService) Email(ctx context.Context, to, subject, body string) error {
	if s.EmailGw == nil {
		return nil
	}
	return s.EmailGw.Send(to, subject, body)
}

// ListForUser returns the user's latest in-app notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Store.ListByUser(ctx, userID, limit)
}

func (s *NotificationService) push(ctx context.Context, userID int64, title, message string) {
	if s.FCM == nil || s.Users == nil {
		return
	}
	contact, err := s.Users.GetContact(ctx, userID)
	if err != nil || contact.FCMToken == "" {
		return
	}
	_, err = s.FCM.Send(ctx, &messaging.Message{
		Token: contact.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
	})
	if err != nil {
		s.errorf("fcm push to user %d: %v", userID, err)
	}
}

func (s *NotificationService) errorf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}
