package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/SscSPs/estate_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to estate-wide reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers routes related to reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports", middleware.RequireRoles(domain.RoleSuperAdmin, domain.RoleLandlord))
	{
		reportingGroup.GET("/accrual", h.getAccrualStatistics)
		reportingGroup.GET("/sweeps/latest", h.getLatestSweep)
	}
}

// getAccrualStatistics godoc
// @Summary Estate-wide payment standing
// @Description Evaluates every account live and aggregates current, behind, exempt and invalid counts
// @Tags reports
// @Produce json
// @Success 200 {object} dto.AccrualStatisticsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/accrual [get]
func (h *reportingHandler) getAccrualStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.GetAccrualStatistics(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute accrual statistics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAccrualStatisticsResponse(stats))
}

// getLatestSweep godoc
// @Summary Latest accrual sweep
// @Description Returns the summary of the most recent monthly accrual sweep
// @Tags reports
// @Produce json
// @Success 200 {object} dto.SweepRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "No sweep has run yet"
// @Failure 500 {object} map[string]string "Failed to load sweep"
// @Security BearerAuth
// @Router /reports/sweeps/latest [get]
func (h *reportingHandler) getLatestSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	run, err := h.reportingService.GetLatestSweepRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No sweep has run yet"})
			return
		}
		logger.Error("Failed to load latest sweep run", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sweep"})
		return
	}
	c.JSON(http.StatusOK, dto.ToSweepRunResponse(run))
}
