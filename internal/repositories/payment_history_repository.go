package repositories

import (
	"context"
	"database/sql"
	"time"

	"hyreBack/internal/models"
)

type PaymentHistoryRepository struct {
	DB *sql.DB
}

func (r *PaymentHistoryRepository) Record(ctx context.Context, item models.PaymentHistoryItem) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO payment_history (booking_id, escrow_id, event, amount, reference, note, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.BookingID, item.EscrowID, item.Event, item.Amount, item.Reference, item.Note, time.Now())
	return err
}

func (r *PaymentHistoryRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.PaymentHistoryItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, booking_id, escrow_id, event, amount, reference, note, created_at FROM payment_history WHERE booking_id = ? ORDER BY created_at`,
		bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PaymentHistoryItem
	for rows.Next() {
		var it models.PaymentHistoryItem
		var note sql.NullString
		if err := rows.Scan(&it.ID, &it.BookingID, &it.EscrowID, &it.Event, &it.Amount, &it.Reference, &note, &it.CreatedAt); err != nil {
			return nil, err
		}
		if note.Valid {
			it.Note = note.String
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
