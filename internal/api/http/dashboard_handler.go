package http

import (
	"net/http"

	"microfinance-backend/internal/logger"
	"microfinance-backend/internal/service"
)

type DashboardHandler struct {
	dashboardSvc service.DashboardService
	reportSvc    service.ReportService
	renderer     service.ReportRenderer
}

func NewDashboardHandler(dashboardSvc service.DashboardService, reportSvc service.ReportService, renderer service.ReportRenderer) *DashboardHandler {
	return &DashboardHandler{
		dashboardSvc: dashboardSvc,
		reportSvc:    reportSvc,
		renderer:     renderer,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardSvc.Summary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *DashboardHandler) CollectionsReport(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.reportSvc.Collections(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.render(w, report)
}

func (h *DashboardHandler) PortfolioReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportSvc.Portfolio(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.render(w, report)
}

func (h *DashboardHandler) render(w http.ResponseWriter, report interface{}) {
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := h.renderer.Render(w, report); err != nil {
		// Headers are already written; nothing left to do but log.
		logger.Error("failed to render report", "error", err)
	}
}
