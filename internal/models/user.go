package models

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

type User struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	Email         string     `json:"email,omitempty"`
	City          string     `json:"city"`
	Role          string     `json:"role"`
	RecipientCode string     `json:"recipient_code,omitempty"`
	FCMToken      string     `json:"fcm_token,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// UserContact is the subset of user data the notification and payout
// paths need.
type UserContact struct {
	ID            int64
	Name          string
	Phone         string
	Email         string
	RecipientCode string
	AuthCode      string
	FCMToken      string
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Session struct {
	UserID       int64     `json:"user_id"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
