package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hyreBack/internal/models"
)

type EscrowRepository struct {
	DB *sql.DB
}

const escrowColumns = `id, booking_id, client_id, worker_id, amount, platform_fee, worker_earnings, status, payment_reference, transfer_reference, refund_reason, created_at, released_at, refunded_at`

func (r *EscrowRepository) Create(ctx context.Context, p models.EscrowPayment) (models.EscrowPayment, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO escrow_payments (booking_id, client_id, worker_id, amount, platform_fee, worker_earnings, status, payment_reference, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.BookingID, p.ClientID, p.WorkerID, p.Amount, p.PlatformFee, p.WorkerEarnings, p.Status, p.PaymentReference, now)
	if err != nil {
		return models.EscrowPayment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.EscrowPayment{}, err
	}
	p.ID = id
	p.CreatedAt = now
	return p, nil
}

func (r *EscrowRepository) GetByBookingID(ctx context.Context, bookingID int64) (models.EscrowPayment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+escrowColumns+` FROM escrow_payments WHERE booking_id = ?`, bookingID)
	return scanEscrow(row)
}

// MarkReleased finalises the record after a confirmed transfer, guarded on
// the prior status so a parallel writer cannot double-release.
func (r *EscrowRepository) MarkReleased(ctx context.Context, id int64, from, transferRef string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE escrow_payments SET status = 'released', transfer_reference = ?, released_at = ? WHERE id = ? AND status = ?`,
		transferRef, at, id, from)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkRefunded finalises a refund, guarded on the prior status.
func (r *EscrowRepository) MarkRefunded(ctx context.Context, id int64, from, reason string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE escrow_payments SET status = 'refunded', refund_reason = ?, refunded_at = ? WHERE id = ? AND status = ?`,
		reason, at, id, from)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkDisputed flags the hold while a dispute is open.
func (r *EscrowRepository) MarkDisputed(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE escrow_payments SET status = 'disputed' WHERE id = ? AND status = 'escrowed'`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrEscrowNotFound
	}
	return nil
}

func scanEscrow(row rowScanner) (models.EscrowPayment, error) {
	var p models.EscrowPayment
	var workerID sql.NullInt64
	var transferRef, refundReason sql.NullString
	var released, refunded sql.NullTime
	err := row.Scan(&p.ID, &p.BookingID, &p.ClientID, &workerID, &p.Amount, &p.PlatformFee, &p.WorkerEarnings,
		&p.Status, &p.PaymentReference, &transferRef, &refundReason, &p.CreatedAt, &released, &refunded)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EscrowPayment{}, models.ErrEscrowNotFound
	}
	if err != nil {
		return models.EscrowPayment{}, err
	}
	if workerID.Valid {
		p.WorkerID = &workerID.Int64
	}
	if transferRef.Valid {
		p.TransferReference = &transferRef.String
	}
	if refundReason.Valid {
		p.RefundReason = refundReason.String
	}
	p.ReleasedAt = nullTime(released)
	p.RefundedAt = nullTime(refunded)
	return p, nil
}
