package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hyreBack/internal/models"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, errorLog *log.Logger, err error) {
	var te *models.TransitionError
	switch {
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: userMessage(err)})
	case errors.Is(err, models.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "you are not allowed to do that"})
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrEscrowNotFound),
		errors.Is(err, models.ErrDisputeNotFound),
		errors.Is(err, models.ErrApplicationNotFound),
		errors.Is(err, models.ErrJobNotFound),
		errors.Is(err, models.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: userMessage(err)})
	case errors.Is(err, models.ErrDisputeExists),
		errors.Is(err, models.ErrAlreadyResponded),
		errors.Is(err, models.ErrEscrowExists),
		errors.Is(err, models.ErrAlreadyReviewed),
		errors.Is(err, models.ErrWindowExpired),
		errors.Is(err, models.ErrNotSelected),
		errors.Is(err, models.ErrCannotCancel):
		writeJSON(w, http.StatusConflict, errorResponse{Message: userMessage(err)})
	case errors.As(err, &te):
		writeJSON(w, http.StatusConflict, errorResponse{Message: userMessage(err)})
	case errors.Is(err, models.ErrPaymentFailed):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{Message: "payment could not be charged"})
	case errors.Is(err, models.ErrTransferFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: "payout failed, please try again"})
	default:
		if errorLog != nil {
			errorLog.Printf("handler: %v", err)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "something went wrong"})
	}
}

// userMessage strips the internal package prefix off sentinel errors.
func userMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "models: ")
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(getParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrValidation
	}
	return id, nil
}
