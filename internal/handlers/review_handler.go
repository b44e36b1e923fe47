package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"hyreBack/internal/models"
	"hyreBack/internal/services"
)

type ReviewHandler struct {
	Service  *services.ReviewService
	ErrorLog *log.Logger
}

type createReviewRequest struct {
	BookingID int64  `json:"booking_id"`
	ClientID  int64  `json:"client_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.ErrorLog, models.ErrValidation)
		return
	}
	review, err := h.Service.Create(r.Context(), req.BookingID, req.ClientID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListWorkerReviews(w http.ResponseWriter, r *http.Request) {
	workerID, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	reviews, err := h.Service.ListForWorker(r.Context(), workerID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) WorkerRating(w http.ResponseWriter, r *http.Request) {
	workerID, err := idParam(r, "id")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	rating, err := h.Service.RatingForWorker(r.Context(), workerID)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}
