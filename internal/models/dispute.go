package models

import "time"

// Dispute resolutions an admin can apply.
const (
	ResolutionApproveWorker     = "approve_worker"
	ResolutionRefundClient      = "refund_client"
	ResolutionResolveThemselves = "resolve_themselves"
)

// Dispute is an unresolved disagreement over a booking's outcome. At most
// one open dispute exists per booking. Amount is a snapshot of the booking
// budget at creation time, not a live reference.
type Dispute struct {
	ID              int64      `json:"id"`
	BookingID       int64      `json:"booking_id"`
	ClientID        int64      `json:"client_id"`
	WorkerID        *int64     `json:"worker_id,omitempty"`
	Category        string     `json:"category"`
	ClientStatement string     `json:"client_statement"`
	WorkerResponse  *string    `json:"worker_response,omitempty"`
	AdminNotes      *string    `json:"admin_notes,omitempty"`
	EvidenceURL     *string    `json:"evidence_url,omitempty"`
	Amount          int64      `json:"amount"`
	Status          string     `json:"status"`
	Resolution      *string    `json:"resolution,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}
