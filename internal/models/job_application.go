package models

import "time"

// Job statuses used by the acceptance flow.
const (
	JobStatusOpen     = "open"
	JobStatusAssigned = "assigned"
	JobStatusClosed   = "closed"
)

// Job is a posted task workers apply for. When the client picks an
// applicant the job moves to assigned; a decline or an expired acceptance
// window reopens it.
type Job struct {
	ID               int64     `json:"id"`
	ClientID         int64     `json:"client_id"`
	BookingID        *int64    `json:"booking_id,omitempty"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	AssignedWorkerID *int64    `json:"assigned_worker_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// JobApplication is a worker's candidacy for a job. Once the client selects
// the worker (SelectedAt set) the worker has a fixed window to respond.
// At most one of AcceptedAt, DeclinedAt, UnpickedAt is ever set.
type JobApplication struct {
	ID            int64      `json:"id"`
	JobID         int64      `json:"job_id"`
	WorkerID      int64      `json:"worker_id"`
	ClientID      int64      `json:"client_id"`
	Status        string     `json:"status"`
	CoverNote     string     `json:"cover_note,omitempty"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	SelectedAt    *time.Time `json:"selected_at,omitempty"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt    *time.Time `json:"declined_at,omitempty"`
	UnpickedAt    *time.Time `json:"unpicked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
