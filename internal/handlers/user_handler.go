package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"hyreBack/internal/models"
	"hyreBack/internal/services"
)

type UserHandler struct {
	Service  *services.UserService
	ErrorLog *log.Logger
}

type fcmTokenRequest struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"fcm_token"`
}

func (h *UserHandler) SaveFCMToken(w http.ResponseWriter, r *http.Request) {
	var req fcmTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.SaveFCMToken(r.Context(), req.UserID, req.Token); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "token saved"})
}

type payoutAccountRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	AccessCode    string `json:"access_code"`
}

func (h *UserHandler) SetPayoutAccount(w http.ResponseWriter, r *http.Request) {
	var req payoutAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.SetPayoutAccount(r.Context(), req.UserID, req.AccountNumber, req.BankCode, req.AccessCode); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "payout account saved"})
}
