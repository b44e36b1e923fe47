package repositories

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"hyreBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

// GetContact loads the subset of user data the notification and payout
// paths need. Missing optional columns come back empty, not as errors.
func (r *UserRepository) GetContact(ctx context.Context, userID int64) (models.UserContact, error) {
	var c models.UserContact
	var phone, email, recipient, auth, token sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, phone, email, recipient_code, authorization_code, fcm_token FROM users WHERE id = ?`, userID).
		Scan(&c.ID, &c.Name, &phone, &email, &recipient, &auth, &token)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserContact{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.UserContact{}, err
	}
	c.Phone = phone.String
	c.Email = email.String
	c.RecipientCode = recipient.String
	c.AuthCode = auth.String
	c.FCMToken = token.String
	return c, nil
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`, refreshToken).
		Scan(&s.UserID, &s.Role, &s.RefreshToken, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	return s, nil
}

func (r *UserRepository) SaveFCMToken(ctx context.Context, userID int64, token string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET fcm_token = ? WHERE id = ?`, token, userID)
	return err
}

// SetPayoutAccount stores the resolved transfer recipient for a worker
// together with a bcrypt hash of the access code guarding payout changes.
func (r *UserRepository) SetPayoutAccount(ctx context.Context, userID int64, recipientCode, accessCode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE users SET recipient_code = ?, payout_code_hash = ? WHERE id = ?`, recipientCode, hash, userID)
	return err
}

// CheckPayoutCode verifies the payout access code for a worker.
func (r *UserRepository) CheckPayoutCode(ctx context.Context, userID int64, accessCode string) error {
	var hash []byte
	err := r.DB.QueryRowContext(ctx, `SELECT payout_code_hash FROM users WHERE id = ?`, userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(accessCode)) != nil {
		return models.ErrUnauthorized
	}
	return nil
}
