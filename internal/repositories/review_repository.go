package repositories

import (
	"context"
	"database/sql"

	"hyreBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r *ReviewRepository) Create(ctx context.Context, rev models.Review) (models.Review, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE booking_id = ?`, rev.BookingID).Scan(&count); err != nil {
		return models.Review{}, err
	}
	if count > 0 {
		return models.Review{}, models.ErrAlreadyReviewed
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO reviews (booking_id, client_id, worker_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, NOW())`,
		rev.BookingID, rev.ClientID, rev.WorkerID, rev.Rating, rev.Comment)
	if err != nil {
		return models.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}
	rev.ID = id
	return rev, nil
}

func (r *ReviewRepository) ListByWorker(ctx context.Context, workerID int64) ([]models.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT rv.id, rv.booking_id, rv.client_id, rv.worker_id, rv.rating, rv.comment, u.name, rv.created_at
		FROM reviews rv
		JOIN users u ON rv.client_id = u.id
		WHERE rv.worker_id = ?
		ORDER BY rv.created_at DESC`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.BookingID, &rev.ClientID, &rev.WorkerID,
			&rev.Rating, &rev.Comment, &rev.ClientName, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) RatingForWorker(ctx context.Context, workerID int64) (models.WorkerRating, error) {
	rating := models.WorkerRating{WorkerID: workerID}
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE worker_id = ?`, workerID).
		Scan(&rating.Average, &rating.Count)
	if err != nil {
		return models.WorkerRating{}, err
	}
	return rating, nil
}
