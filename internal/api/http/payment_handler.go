package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type registerPaymentRequest struct {
	InstallmentID int32           `json:"installment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaymentDate   string          `json:"payment_date,omitempty"` // YYYY-MM-DD, defaults to now
}

func (h *PaymentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		var err error
		if paymentDate, err = time.Parse("2006-01-02", req.PaymentDate); err != nil {
			respondError(w, http.StatusBadRequest, "payment_date must be YYYY-MM-DD")
			return
		}
	}

	actor := claimsFromContext(r.Context())
	payment, err := h.paymentSvc.Register(r.Context(), actor.UserID, req.InstallmentID, req.Amount, req.Method, paymentDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	payment, err := h.paymentSvc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payment)
}

// ListByCollector returns one collector's payments in a date range, for the
// daily cash reconciliation.
func (h *PaymentHandler) ListByCollector(w http.ResponseWriter, r *http.Request) {
	collectorID, err := strconv.ParseInt(r.URL.Query().Get("collector_id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "collector_id is required")
		return
	}

	from, ok := dateParam(r, "from")
	if !ok {
		respondError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, ok := dateParam(r, "to")
	if !ok {
		respondError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}

	payments, err := h.paymentSvc.ListByCollector(r.Context(), int32(collectorID), from, to.AddDate(0, 0, 1))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) Void(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.paymentSvc.Void(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
