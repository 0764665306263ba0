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

// adminHandler exposes operator actions.
type adminHandler struct {
	sweepService portssvc.SweepSvc
}

// RegisterAdminRoutes registers SUPER_ADMIN-only routes.
func RegisterAdminRoutes(rg *gin.RouterGroup, sweepService portssvc.SweepSvc) {
	h := &adminHandler{sweepService: sweepService}

	admin := rg.Group("/admin", middleware.RequireRoles(domain.RoleSuperAdmin))
	admin.POST("/accrual/sweep", h.runSweep)
}

// runSweep godoc
// @Summary Run the monthly accrual sweep now
// @Description Re-evaluates every non-exempt account and persists flipped statuses. Runs synchronously.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.SweepResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "A sweep is already running"
// @Failure 500 {object} dto.SweepResponse "Sweep aborted; partial counts"
// @Security BearerAuth
// @Router /admin/accrual/sweep [post]
func (h *adminHandler) runSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Manual accrual sweep requested")

	result, err := h.sweepService.RunMonthlyCheck(c.Request.Context(), domain.SweepTriggerManual)
	if err != nil {
		if errors.Is(err, apperrors.ErrSweepInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "A sweep is already running"})
			return
		}
		logger.Error("Manual sweep aborted", slog.String("error", err.Error()))
		if result != nil {
			c.JSON(http.StatusInternalServerError, dto.ToSweepResponse(*result))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ToSweepResponse(*result))
}
