package http

import (
	"encoding/json"
	"net/http"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/service"
)

type CustomerHandler struct {
	customerSvc service.CustomerService
}

func NewCustomerHandler(customerSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerSvc: customerSvc}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if customer.FullName == "" || customer.IDCard == "" {
		respondError(w, http.StatusBadRequest, "full_name and id_card are required")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.customerSvc.Create(r.Context(), actor.UserID, &customer); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.customerSvc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	customer.ID = id

	actor := claimsFromContext(r.Context())
	if err := h.customerSvc.Update(r.Context(), actor.UserID, &customer); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.customerSvc.Delete(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CustomerHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.customerSvc.Restore(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)
	search := r.URL.Query().Get("search")

	customers, total, err := h.customerSvc.List(r.Context(), search, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: customers, Total: total, Page: page})
}
