package handlers

import (
	"log"
	"net/http"
	"strconv"

	"hyreBack/internal/services"
)

type NotificationHandler struct {
	Service  *services.NotificationService
	ErrorLog *log.Logger
}

func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "user_id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Service.ListForUser(r.Context(), userID, limit)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
