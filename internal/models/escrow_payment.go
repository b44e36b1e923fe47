package models

import "time"

// EscrowPayment is the custody record for one booking's funds. Amounts are
// stored in kobo. The invariant Amount = PlatformFee + WorkerEarnings holds
// for every persisted record.
type EscrowPayment struct {
	ID                int64      `json:"id"`
	BookingID         int64      `json:"booking_id"`
	ClientID          int64      `json:"client_id"`
	WorkerID          *int64     `json:"worker_id,omitempty"`
	Amount            int64      `json:"amount"`
	PlatformFee       int64      `json:"platform_fee"`
	WorkerEarnings    int64      `json:"worker_earnings"`
	Status            string     `json:"status"`
	PaymentReference  string     `json:"payment_reference"`
	TransferReference *string    `json:"transfer_reference,omitempty"`
	RefundReason      string     `json:"refund_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	ReleasedAt        *time.Time `json:"released_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
}
