package models

import "time"

// Booking is a contracted unit of work between one client and one worker.
// Funds for a booking are custodied by an EscrowPayment with the same
// booking id. Bookings are never deleted, only moved to a terminal status.
type Booking struct {
	ID            int64      `json:"id"`
	Reference     string     `json:"reference"`
	ClientID      int64      `json:"client_id"`
	WorkerID      *int64     `json:"worker_id,omitempty"`
	Status        string     `json:"status"`
	BudgetAmount  int64      `json:"budget_amount"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	DisputedAt    *time.Time `json:"disputed_at,omitempty"`
}
