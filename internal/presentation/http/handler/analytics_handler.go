package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

// AnalyticsHandler serves billing aggregates
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Summary returns bill count, billed amount and tax
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}

// Monthly returns totals keyed by "YYYY-MM"
func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	months, err := h.analyticsService.Monthly(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly analytics retrieved successfully", months)
}

// MonthlyPDF exports the monthly totals as a PDF report
func (h *AnalyticsHandler) MonthlyPDF(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	pdf, err := h.analyticsService.MonthlyReportPDF(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="monthly-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
