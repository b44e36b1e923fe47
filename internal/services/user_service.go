package services

import (
	"context"
	"fmt"
	"log"

	"hyreBack/internal/models"
)

// UserStore is the slice of user persistence the profile flows need.
type UserStore interface {
	GetContact(ctx context.Context, userID int64) (models.UserContact, error)
	SaveFCMToken(ctx context.Context, userID int64, token string) error
	SetPayoutAccount(ctx context.Context, userID int64, recipientCode, accessCode string) error
	CheckPayoutCode(ctx context.Context, userID int64, accessCode string) error
}

// RecipientCreator resolves a bank account into a gateway transfer
// recipient.
type RecipientCreator interface {
	CreateRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error)
}

// UserService covers the profile details the booking flows depend on:
// push tokens and worker payout accounts.
type UserService struct {
	Users    UserStore
	Gateway  RecipientCreator
	ErrorLog *log.Logger
}

// SaveFCMToken stores the device token used for push notifications.
func (s *UserService) SaveFCMToken(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty fcm token", models.ErrValidation)
	}
	return s.Users.SaveFCMToken(ctx, userID, token)
}

// SetPayoutAccount resolves the worker's bank account with the gateway
// and stores the recipient code. Changing an existing account requires
// the access code set the first time.
func (s *UserService) SetPayoutAccount(ctx context.Context, userID int64, accountNumber, bankCode, accessCode string) error {
	if accountNumber == "" || bankCode == "" {
		return fmt.Errorf("%w: account number and bank code are required", models.ErrValidation)
	}
	if len(accessCode) < 4 {
		return fmt.Errorf("%w: access code must be at least 4 characters", models.ErrValidation)
	}
	contact, err := s.Users.GetContact(ctx, userID)
	if err != nil {
		return err
	}
	if contact.RecipientCode != "" {
		if err := s.Users.CheckPayoutCode(ctx, userID, accessCode); err != nil {
			return err
		}
	}
	recipientCode, err := s.Gateway.CreateRecipient(ctx, contact.Name, accountNumber, bankCode)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}
	return s.Users.SetPayoutAccount(ctx, userID, recipientCode, accessCode)
}
