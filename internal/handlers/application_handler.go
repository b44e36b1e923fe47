package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"hyreBack/internal/models"
	"hyreBack/internal/services"
)

type ApplicationHandler struct {
	Service  *services.ApplicationService
	ErrorLog *log.Logger
}

type applyRequest struct {
	JobID     int64  `json:"job_id"`
	WorkerID  int64  `json:"worker_id"`
	CoverNote string `json:"cover_note"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	app, err := h.Service.Apply(r.Context(), req.JobID, req.WorkerID, req.CoverNote)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

type selectRequest struct {
	ClientID int64 `json:"client_id"`
}

func (h *ApplicationHandler) SelectWorker(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.SelectWorker(r.Context(), id, req.ClientID); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "worker selected, acceptance window started"})
}

type respondRequest struct {
	WorkerID int64  `json:"worker_id"`
	Reason   string `json:"reason"`
}

func (h *ApplicationHandler) AcceptSelection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.Accept(r.Context(), id, req.WorkerID); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "job accepted"})
}

func (h *ApplicationHandler) DeclineSelection(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	if err := h.Service.Decline(r.Context(), id, req.WorkerID, req.Reason); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "selection declined"})
}

// WindowStatus reports how much of the acceptance window remains.
func (h *ApplicationHandler) WindowStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	app, remaining, open, err := h.Service.Status(r.Context(), id)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      app.Status,
		"can_respond": open,
		"remaining":   remaining,
	})
}
