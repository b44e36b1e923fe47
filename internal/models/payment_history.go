package models

import "time"

// Payment history event kinds recorded by the escrow ledger.
const (
	PaymentEventHeld     = "held"
	PaymentEventReleased = "released"
	PaymentEventRefunded = "refunded"
)

// PaymentHistoryItem is an audit row written after every escrow transition.
// It is a moderation trail for admins, not an accounting ledger.
type PaymentHistoryItem struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	EscrowID  int64     `json:"escrow_id"`
	Event     string    `json:"event"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
