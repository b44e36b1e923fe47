package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hyreBack/internal/models"
)

type DisputeRepository struct {
	DB *sql.DB
}

const disputeColumns = `id, booking_id, client_id, worker_id, category, client_statement, worker_response, admin_notes, evidence_url, amount, status, resolution, created_at, resolved_at`

func (r *DisputeRepository) Create(ctx context.Context, d models.Dispute) (models.Dispute, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO disputes (booking_id, client_id, worker_id, category, client_statement, evidence_url, amount, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.BookingID, d.ClientID, d.WorkerID, d.Category, d.ClientStatement, d.EvidenceURL, d.Amount, d.Status, now)
	if err != nil {
		return models.Dispute{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Dispute{}, err
	}
	d.ID = id
	d.CreatedAt = now
	return d, nil
}

func (r *DisputeRepository) GetByID(ctx context.Context, id int64) (models.Dispute, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = ?`, id)
	return scanDispute(row)
}

// OpenByBookingID returns the unresolved dispute for a booking, if any.
func (r *DisputeRepository) OpenByBookingID(ctx context.Context, bookingID int64) (models.Dispute, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+disputeColumns+` FROM disputes WHERE booking_id = ? AND status <> 'resolved'`, bookingID)
	return scanDispute(row)
}

// SetWorkerResponse records the worker's side once; the guard rejects a
// second response.
func (r *DisputeRepository) SetWorkerResponse(ctx context.Context, id int64, response string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE disputes SET worker_response = ?, status = 'worker_responded' WHERE id = ? AND status = 'pending' AND worker_response IS NULL`,
		response, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Zero rows means a prior response, or a status that left the
		// pending stage; re-read to report which.
		d, gerr := r.GetByID(ctx, id)
		if gerr != nil {
			return gerr
		}
		if d.WorkerResponse != nil {
			return models.ErrAlreadyResponded
		}
		return models.NewTransitionError("dispute", d.Status, "worker_responded")
	}
	return nil
}

// MarkUnderReview moves an open dispute under admin review.
func (r *DisputeRepository) MarkUnderReview(ctx context.Context, id int64, from string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE disputes SET status = 'under_review' WHERE id = ? AND status = ?`, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrDisputeNotFound
	}
	return nil
}

// Resolve stamps the resolution, guarded on a non-resolved status.
func (r *DisputeRepository) Resolve(ctx context.Context, id int64, from, resolution, adminNotes string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE disputes SET status = 'resolved', resolution = ?, admin_notes = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		resolution, adminNotes, at, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrDisputeNotFound
	}
	return nil
}

// SetEvidenceURL attaches uploaded evidence while the dispute is open.
func (r *DisputeRepository) SetEvidenceURL(ctx context.Context, id int64, url string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE disputes SET evidence_url = ? WHERE id = ? AND status <> 'resolved'`, url, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrDisputeNotFound
	}
	return nil
}

func (r *DisputeRepository) ListOpen(ctx context.Context) ([]models.Dispute, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+disputeColumns+` FROM disputes WHERE status <> 'resolved' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []models.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}
	return disputes, rows.Err()
}

func scanDispute(row rowScanner) (models.Dispute, error) {
	var d models.Dispute
	var workerID sql.NullInt64
	var workerResponse, adminNotes, evidenceURL, resolution sql.NullString
	var resolved sql.NullTime
	err := row.Scan(&d.ID, &d.BookingID, &d.ClientID, &workerID, &d.Category, &d.ClientStatement,
		&workerResponse, &adminNotes, &evidenceURL, &d.Amount, &d.Status, &resolution, &d.CreatedAt, &resolved)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Dispute{}, models.ErrDisputeNotFound
	}
	if err != nil {
		return models.Dispute{}, err
	}
	if workerID.Valid {
		d.WorkerID = &workerID.Int64
	}
	if workerResponse.Valid {
		d.WorkerResponse = &workerResponse.String
	}
	if adminNotes.Valid {
		d.AdminNotes = &adminNotes.String
	}
	if evidenceURL.Valid {
		d.EvidenceURL = &evidenceURL.String
	}
	if resolution.Valid {
		d.Resolution = &resolution.String
	}
	d.ResolvedAt = nullTime(resolved)
	return d, nil
}
