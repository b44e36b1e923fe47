package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hyreBack/internal/models"
)

type stubNotificationStore struct {
	rows []models.Notification
}

func (s *stubNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	s.rows = append(s.rows, n)
	return nil
}

func (s *stubNotificationStore) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	return s.rows, nil
}

type stubDedup struct {
	seen map[string]bool
	err  error
}

func (d *stubDedup) Once(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

func TestInAppDeduplicatesByKey(t *testing.T) {
	store := &stubNotificationStore{}
	svc := &NotificationService{Store: store, Dedup: &stubDedup{}}

	for i := 0; i < 3; i++ {
		if err := svc.InApp(context.Background(), 10, "Booking created", "held in escrow", models.NotificationTypeBooking, "", "booking:1:created"); err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	if len(store.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(store.rows))
	}
}

func TestInAppDistinctKeysAllStored(t *testing.T) {
	store := &stubNotificationStore{}
	svc := &NotificationService{Store: store, Dedup: &stubDedup{}}

	_ = svc.InApp(context.Background(), 10, "a", "a", models.NotificationTypeBooking, "", "booking:1:created")
	_ = svc.InApp(context.Background(), 10, "b", "b", models.NotificationTypeBooking, "", "booking:1:accepted")
	if len(store.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(store.rows))
	}
}

func TestInAppSurvivesDedupOutage(t *testing.T) {
	store := &stubNotificationStore{}
	svc := &NotificationService{Store: store, Dedup: &stubDedup{err: errors.New("redis down")}}

	if err := svc.InApp(context.Background(), 10, "t", "m", models.NotificationTypeBooking, "", "booking:1:created"); err != nil {
		t.Fatalf("in-app with dedup outage: %v", err)
	}
	if len(store.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(store.rows))
	}
}

func TestInAppWithoutKeySkipsDedup(t *testing.T) {
	store := &stubNotificationStore{}
	svc := &NotificationService{Store: store, Dedup: &stubDedup{}}

	_ = svc.InApp(context.Background(), 10, "t", "m", models.NotificationTypeBooking, "", "")
	_ = svc.InApp(context.Background(), 10, "t", "m", models.NotificationTypeBooking, "", "")
	if len(store.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(store.rows))
	}
}
