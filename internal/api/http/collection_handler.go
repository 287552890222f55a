package http

import (
	"encoding/json"
	"net/http"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/service"
)

type CollectionHandler struct {
	collectionSvc service.CollectionService
}

func NewCollectionHandler(collectionSvc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionSvc: collectionSvc}
}

func (h *CollectionHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var visit domain.CollectionVisit
	if err := json.NewDecoder(r.Body).Decode(&visit); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if visit.LoanID == 0 {
		respondError(w, http.StatusBadRequest, "loan_id is required")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.collectionSvc.RecordVisit(r.Context(), actor.UserID, &visit); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, visit)
}

func (h *CollectionHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid visit id")
		return
	}

	var visit domain.CollectionVisit
	if err := json.NewDecoder(r.Body).Decode(&visit); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	visit.ID = id

	actor := claimsFromContext(r.Context())
	if err := h.collectionSvc.UpdateVisit(r.Context(), actor.UserID, &visit); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visit)
}
