package models

import "time"

// Notification types used for in-app messages.
const (
	NotificationTypeBooking = "booking"
	NotificationTypeDispute = "dispute"
	NotificationTypeWindow  = "acceptance"
)

// Notification is an in-app message shown to a user. IdempotencyKey
// identifies the logical event so a retried operation does not create a
// duplicate row.
type Notification struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	ActionURL      string    `json:"action_url,omitempty"`
	IdempotencyKey string    `json:"-"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}
