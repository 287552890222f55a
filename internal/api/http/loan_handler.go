package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/service"
)

type LoanHandler struct {
	loanSvc       service.LoanService
	paymentSvc    service.PaymentService
	collectionSvc service.CollectionService
}

func NewLoanHandler(loanSvc service.LoanService, paymentSvc service.PaymentService, collectionSvc service.CollectionService) *LoanHandler {
	return &LoanHandler{
		loanSvc:       loanSvc,
		paymentSvc:    paymentSvc,
		collectionSvc: collectionSvc,
	}
}

type originateLoanRequest struct {
	CustomerID          int32           `json:"customer_id"`
	Amount              decimal.Decimal `json:"amount"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
	TermMonths          int32           `json:"term_months"`
	StartDate           string          `json:"start_date,omitempty"` // YYYY-MM-DD, defaults to today
}

type originateLoanResponse struct {
	Loan     *domain.Loan         `json:"loan"`
	Schedule []domain.Installment `json:"schedule"`
}

func (h *LoanHandler) Originate(w http.ResponseWriter, r *http.Request) {
	var req originateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loan := &domain.Loan{
		CustomerID:          req.CustomerID,
		Amount:              req.Amount,
		MonthlyInterestRate: req.MonthlyInterestRate,
		TermMonths:          req.TermMonths,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		loan.StartDate = start
	}

	actor := claimsFromContext(r.Context())
	loan.SellerID = actor.UserID

	schedule, err := h.loanSvc.Originate(r.Context(), actor.UserID, loan)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, originateLoanResponse{Loan: loan, Schedule: schedule})
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, err := h.loanSvc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loan)
}

func (h *LoanHandler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	installments, err := h.loanSvc.ListInstallments(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, installments)
}

func (h *LoanHandler) GetInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid installment id")
		return
	}

	installment, err := h.loanSvc.GetInstallment(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, installment)
}

type rescheduleInstallmentRequest struct {
	DueDate string `json:"due_date"` // YYYY-MM-DD
}

func (h *LoanHandler) RescheduleInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid installment id")
		return
	}

	var req rescheduleInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}

	actor := claimsFromContext(r.Context())
	installment, err := h.loanSvc.RescheduleInstallment(r.Context(), actor.UserID, id, dueDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, installment)
}

func (h *LoanHandler) DeleteInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid installment id")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.loanSvc.DeleteInstallment(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *LoanHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	payments, err := h.paymentSvc.ListByLoan(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *LoanHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	visits, err := h.collectionSvc.ListByLoan(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, visits)
}

func (h *LoanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.loanSvc.Cancel(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	actor := claimsFromContext(r.Context())
	if err := h.loanSvc.Delete(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	var customerID int32
	if v, err := strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 32); err == nil {
		customerID = int32(v)
	}
	status := domain.LoanStatus(r.URL.Query().Get("status"))

	loans, total, err := h.loanSvc.List(r.Context(), customerID, status, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: loans, Total: total, Page: page})
}
