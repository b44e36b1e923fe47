package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hyreBack/internal/models"
)

type ApplicationRepository struct {
	DB *sql.DB
}

const applicationColumns = `id, job_id, worker_id, client_id, status, cover_note, decline_reason, selected_at, accepted_at, declined_at, unpicked_at, created_at`

func (r *ApplicationRepository) Create(ctx context.Context, a models.JobApplication) (models.JobApplication, error) {
	now := time.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO job_applications (job_id, worker_id, client_id, status, cover_note, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.JobID, a.WorkerID, a.ClientID, a.Status, a.CoverNote, now)
	if err != nil {
		return models.JobApplication{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.JobApplication{}, err
	}
	a.ID = id
	a.CreatedAt = now
	return a, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (models.JobApplication, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = ?`, id)
	return scanApplication(row)
}

// Select marks one application as the client's pick and unpicks any other
// application previously selected for the same job, inside one transaction.
func (r *ApplicationRepository) Select(ctx context.Context, id, jobID int64, at time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE job_applications SET status = 'unpicked', unpicked_at = ? WHERE job_id = ? AND id <> ? AND status = 'selected' AND accepted_at IS NULL AND declined_at IS NULL AND unpicked_at IS NULL`,
		at, jobID, id)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE job_applications SET status = 'selected', selected_at = ? WHERE id = ? AND status = 'applied'`,
		at, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrApplicationNotFound
	}
	return tx.Commit()
}

// respond stamps exactly one response column; the guard keeps the three
// response timestamps mutually exclusive even under concurrent writes.
func (r *ApplicationRepository) respond(ctx context.Context, id int64, status, column, reason string, at time.Time) error {
	query := `UPDATE job_applications SET status = ?, ` + column + ` = ?`
	args := []interface{}{status, at}
	if reason != "" {
		query += `, decline_reason = ?`
		args = append(args, reason)
	}
	query += ` WHERE id = ? AND status = 'selected' AND accepted_at IS NULL AND declined_at IS NULL AND unpicked_at IS NULL`
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrAlreadyResponded
	}
	return nil
}

func (r *ApplicationRepository) MarkAccepted(ctx context.Context, id int64, at time.Time) error {
	return r.respond(ctx, id, "accepted", "accepted_at", "", at)
}

func (r *ApplicationRepository) MarkDeclined(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.respond(ctx, id, "declined", "declined_at", reason, at)
}

func (r *ApplicationRepository) MarkUnpicked(ctx context.Context, id int64, at time.Time) error {
	return r.respond(ctx, id, "unpicked", "unpicked_at", "", at)
}

func (r *ApplicationRepository) GetJob(ctx context.Context, id int64) (models.Job, error) {
	var j models.Job
	var bookingID, workerID sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, client_id, booking_id, title, status, assigned_worker_id, created_at FROM jobs WHERE id = ?`, id).
		Scan(&j.ID, &j.ClientID, &bookingID, &j.Title, &j.Status, &workerID, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, models.ErrJobNotFound
	}
	if err != nil {
		return models.Job{}, err
	}
	if bookingID.Valid {
		j.BookingID = &bookingID.Int64
	}
	if workerID.Valid {
		j.AssignedWorkerID = &workerID.Int64
	}
	return j, nil
}

// AssignJob binds a worker to the job once the selection becomes binding.
func (r *ApplicationRepository) AssignJob(ctx context.Context, jobID, workerID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE jobs SET status = 'assigned', assigned_worker_id = ? WHERE id = ?`, workerID, jobID)
	return err
}

// ReopenJob clears the assignment after a decline or an expired window.
func (r *ApplicationRepository) ReopenJob(ctx context.Context, jobID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE jobs SET status = 'open', assigned_worker_id = NULL WHERE id = ?`, jobID)
	return err
}

func scanApplication(row rowScanner) (models.JobApplication, error) {
	var a models.JobApplication
	var coverNote, declineReason sql.NullString
	var selected, accepted, declined, unpicked sql.NullTime
	err := row.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.ClientID, &a.Status, &coverNote, &declineReason,
		&selected, &accepted, &declined, &unpicked, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JobApplication{}, models.ErrApplicationNotFound
	}
	if err != nil {
		return models.JobApplication{}, err
	}
	if coverNote.Valid {
		a.CoverNote = coverNote.String
	}
	if declineReason.Valid {
		a.DeclineReason = declineReason.String
	}
	a.SelectedAt = nullTime(selected)
	a.AcceptedAt = nullTime(accepted)
	a.DeclinedAt = nullTime(declined)
	a.UnpickedAt = nullTime(unpicked)
	return a, nil
}
