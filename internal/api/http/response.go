package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/logger"
	"microfinance-backend/internal/security"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the real error goes to the log.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUserInactive):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrLoanNotActive),
		errors.Is(err, domain.ErrInstallmentPaid),
		errors.Is(err, domain.ErrMaintenanceActive),
		errors.Is(err, domain.ErrNoBackupAvailable):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDuplicateIDCard),
		errors.Is(err, domain.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
