package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hyreBack/internal/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `id, reference, client_id, worker_id, status, budget_amount, scheduled_date, cancel_reason, created_at, accepted_at, completed_at, cancelled_at, disputed_at`

func (r *BookingRepository) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO bookings (reference, client_id, worker_id, status, budget_amount, scheduled_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.ClientID, b.WorkerID, b.Status, b.BudgetAmount, b.ScheduledDate, now)
	if err != nil {
		return models.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = id
	b.CreatedAt = now
	return b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// UpdateStatus moves a booking from one status to another with a
// compare-and-check guard. stampColumn, when non-empty, names the
// timestamp column to set alongside the transition. Returns
// models.ErrBookingNotFound when the guard does not match.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to, stampColumn string, at time.Time) error {
	query := `UPDATE bookings SET status = ?`
	args := []interface{}{to}
	switch stampColumn {
	case "accepted_at", "completed_at", "cancelled_at", "disputed_at":
		query += `, ` + stampColumn + ` = ?`
		args = append(args, at)
	}
	query += ` WHERE id = ? AND status = ?`
	args = append(args, id, from)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

// Cancel moves the booking to the target cancelled state and records the
// reason, guarded on the current status.
func (r *BookingRepository) Cancel(ctx context.Context, id int64, from, reason string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status = 'cancelled', cancel_reason = ?, cancelled_at = ? WHERE id = ? AND status = ?`,
		reason, at, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

// AssignWorker sets the worker and accepts the booking in one guarded write.
func (r *BookingRepository) AssignWorker(ctx context.Context, id, workerID int64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET worker_id = ?, status = 'accepted', accepted_at = ? WHERE id = ? AND status = 'pending'`,
		workerID, at, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE client_id = ? ORDER BY created_at DESC`, clientID)
}

func (r *BookingRepository) ListByWorker(ctx context.Context, workerID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE worker_id = ? ORDER BY created_at DESC`, workerID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var workerID sql.NullInt64
	var reason sql.NullString
	var scheduled, accepted, completed, cancelled, disputed sql.NullTime
	err := row.Scan(&b.ID, &b.Reference, &b.ClientID, &workerID, &b.Status, &b.BudgetAmount,
		&scheduled, &reason, &b.CreatedAt, &accepted, &completed, &cancelled, &disputed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, models.ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, err
	}
	if workerID.Valid {
		b.WorkerID = &workerID.Int64
	}
	if reason.Valid {
		b.CancelReason = reason.String
	}
	b.ScheduledDate = nullTime(scheduled)
	b.AcceptedAt = nullTime(accepted)
	b.CompletedAt = nullTime(completed)
	b.CancelledAt = nullTime(cancelled)
	b.DisputedAt = nullTime(disputed)
	return b, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
