package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"hyreBack/internal/models"
	"hyreBack/internal/services"
	"hyreBack/utils"
)

// maxEvidenceSize caps dispute evidence uploads at 10 MB.
const maxEvidenceSize = 10 << 20

type DisputeHandler struct {
	Service  *services.DisputeService
	Bookings *services.BookingService
	Storage  *utils.Storage
	ErrorLog *log.Logger
}

type createDisputeRequest struct {
	BookingID int64  `json:"booking_id"`
	ClientID  int64  `json:"client_id"`
	Category  string `json:"category"`
	Statement string `json:"statement"`
}

func (h *DisputeHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	var req createDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	dispute, err := h.Bookings.RaiseDispute(r.Context(), req.BookingID, req.ClientID, req.Category, req.Statement)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "dispute opened, the booking is frozen until it is resolved",
		"dispute": dispute,
	})
}

type workerResponseRequest struct {
	WorkerID int64  `json:"worker_id"`
	Response string `json:"response"`
}

func (h *DisputeHandler) AddWorkerResponse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req workerResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.AddWorkerResponse(r.Context(), id, req.WorkerID, req.Response); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "response recorded"})
}

// UploadEvidence stores a multipart file and links it to the dispute.
func (h *DisputeHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	if h.Storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "evidence uploads are disabled"})
		return
	}
	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	clientID, err := strconv.ParseInt(r.FormValue("client_id"), 10, 64)
	if err != nil || clientID <= 0 {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	file, header, err := r.FormFile("evidence")
	if err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxEvidenceSize))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	fileName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(header.Filename))
	url, err := h.Storage.Upload(data, fileName, "dispute-evidence", header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	if err := h.Service.AttachEvidence(r.Context(), id, clientID, url); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "evidence_url": url})
}

func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	userID, err := idParam(r, "user_id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	dispute, err := h.Service.Get(r.Context(), id, userID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

// Admin endpoints.

func (h *DisputeHandler) ListOpenDisputes(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.Service.ListOpen(r.Context())
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, disputes)
}

func (h *DisputeHandler) ReviewDispute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	dispute, err := h.Service.GetForReview(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
	AdminNotes string `json:"admin_notes"`
}

func (h *DisputeHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	dispute, err := h.Service.Resolve(r.Context(), id, req.Resolution, req.AdminNotes)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "dispute resolved",
		"dispute": dispute,
	})
}
