package services

import (
	"context"
	"fmt"

	"hyreBack/internal/fsm"
	"hyreBack/internal/models"
)

// ReviewStore is the persistence surface for worker reviews.
type ReviewStore interface {
	Create(ctx context.Context, rev models.Review) (models.Review, error)
	ListByWorker(ctx context.Context, workerID int64) ([]models.Review, error)
	RatingForWorker(ctx context.Context, workerID int64) (models.WorkerRating, error)
}

// BookingReader loads a booking for review eligibility checks.
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (models.Booking, error)
}

// ReviewService lets a client rate the worker once a booking is
// completed. One review per booking.
type ReviewService struct {
	Reviews  ReviewStore
	Bookings BookingReader
}

func (s *ReviewService) Create(ctx context.Context, bookingID, clientID int64, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Review{}, err
	}
	if booking.ClientID != clientID {
		return models.Review{}, models.ErrUnauthorized
	}
	if booking.Status != fsm.BookingCompleted {
		return models.Review{}, fmt.Errorf("%w: only completed bookings can be reviewed", models.ErrValidation)
	}
	if booking.WorkerID == nil {
		return models.Review{}, fmt.Errorf("%w: booking has no worker", models.ErrValidation)
	}
	return s.Reviews.Create(ctx, models.Review{
		BookingID: bookingID,
		ClientID:  clientID,
		WorkerID:  *booking.WorkerID,
		Rating:    rating,
		Comment:   comment,
	})
}

func (s *ReviewService) ListForWorker(ctx context.Context, workerID int64) ([]models.Review, error) {
	return s.Reviews.ListByWorker(ctx, workerID)
}

func (s *ReviewService) RatingForWorker(ctx context.Context, workerID int64) (models.WorkerRating, error) {
	return s.Reviews.RatingForWorker(ctx, workerID)
}
