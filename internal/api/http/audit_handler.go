package http

import (
	"net/http"
	"strconv"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/service"
)

type AuditHandler struct {
	auditSvc service.AuditService
}

func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paginationParams(r)

	filter := domain.AuditFilter{
		AffectedTable: r.URL.Query().Get("table"),
		Action:        domain.AuditAction(r.URL.Query().Get("action")),
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 32); err == nil {
		filter.UserID = int32(v)
	}
	if from, ok := dateParam(r, "from"); ok {
		filter.From = from
	}
	if to, ok := dateParam(r, "to"); ok {
		filter.To = to.AddDate(0, 0, 1)
	}

	entries, total, err := h.auditSvc.List(r.Context(), filter, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: entries, Total: total, Page: page})
}
