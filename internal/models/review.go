package models

import "time"

// Review is the client's rating of a worker, tied to one completed
// booking. One review per booking.
type Review struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	ClientID   int64     `json:"client_id"`
	WorkerID   int64     `json:"worker_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkerRating is the aggregate a worker profile shows.
type WorkerRating struct {
	WorkerID int64   `json:"worker_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}
