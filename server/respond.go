package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"adsbot/domain"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.WithError(err).Error("failed to encode response")
		}
	}
}

// respondError maps domain errors to HTTP statuses. Anything unmapped is an
// internal error and its detail stays out of the response body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrSelfReferral):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "self referral is not allowed"})
	case errors.Is(err, domain.ErrAlreadyReferred):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "account already has an inviter"})
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "insufficient balance"})
	case errors.Is(err, domain.ErrInsufficientPoints):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "insufficient points"})
	case errors.Is(err, domain.ErrRateLimitExceeded):
		respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "daily ad limit reached"})
	case errors.Is(err, domain.ErrTaskAlreadyCompleted):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "task already completed"})
	case errors.Is(err, domain.ErrDrawAlreadyConducted):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "draw already conducted for this period"})
	case errors.Is(err, domain.ErrNoParticipants):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "no participants for this period"})
	case errors.Is(err, domain.ErrNotPending):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "withdrawal is not pending"})
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "malformed JSON")
	}
	return nil
}
