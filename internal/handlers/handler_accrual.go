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

const verifyStatusFailedMessage = "unable to verify payment status, try again"

// accrualHandler serves live payment standing and the eligibility gate.
type accrualHandler struct {
	accrualService portssvc.AccrualSvcFacade
}

func newAccrualHandler(as portssvc.AccrualSvcFacade) *accrualHandler {
	return &accrualHandler{accrualService: as}
}

// RegisterAccrualRoutes registers the per-account accrual routes.
func RegisterAccrualRoutes(rg *gin.RouterGroup, accrualService portssvc.AccrualSvcFacade) {
	h := newAccrualHandler(accrualService)

	account := rg.Group("/accounts/:accountID")
	{
		account.GET("/payment-status",
			middleware.RequireSelfOrRoles("accountID", domain.RoleSuperAdmin, domain.RoleLandlord, domain.RoleSecurity),
			h.getPaymentStatus)
		account.POST("/eligibility",
			middleware.RequireSelfOrRoles("accountID", domain.RoleSuperAdmin, domain.RoleSecurity),
			h.checkEligibility)
		account.POST("/recompute",
			middleware.RequireSelfOrRoles("accountID", domain.RoleSuperAdmin),
			h.recompute)
	}
}

// respondAccrualError maps accrual failures to a status code without leaking the cause.
func respondAccrualError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Account not found", slog.String("action", action))
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrInvalidAccountData):
		logger.Error("Account has invalid accrual data", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verifyStatusFailedMessage})
	default:
		logger.Error("Accrual operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": verifyStatusFailedMessage})
	}
}

// getPaymentStatus godoc
// @Summary Get live payment status
// @Description Evaluates the account's payment standing now. Does not write the cached snapshot.
// @Tags accrual
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.PaymentStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Account data cannot be evaluated"
// @Failure 503 {object} map[string]string "Unable to verify payment status"
// @Security BearerAuth
// @Router /accounts/{accountID}/payment-status [get]
func (h *accrualHandler) getPaymentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_account_id", c.Param("accountID")))

	status, err := h.accrualService.GetPaymentStatus(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondAccrualError(c, logger, err, "payment_status")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentStatusResponse(*status))
}

// checkEligibility godoc
// @Summary Check eligibility for a privileged action
// @Description Refreshes the account's accrual snapshot and allows the action only when the account is current.
// @Description A denial returns 402 with the status message as the reason.
// @Tags accrual
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.EligibilityResponse
// @Failure 402 {object} dto.EligibilityResponse "Payment required"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 503 {object} map[string]string "Unable to verify payment status"
// @Security BearerAuth
// @Router /accounts/{accountID}/eligibility [post]
func (h *accrualHandler) checkEligibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_account_id", c.Param("accountID")))

	decision, err := h.accrualService.CheckEligibility(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondAccrualError(c, logger, err, "eligibility")
		return
	}
	if !decision.Allowed {
		logger.Info("Privileged action denied", slog.String("reason", decision.Reason))
		c.JSON(http.StatusPaymentRequired, dto.ToEligibilityResponse(*decision))
		return
	}
	c.JSON(http.StatusOK, dto.ToEligibilityResponse(*decision))
}

// recompute godoc
// @Summary Recompute the cached accrual snapshot
// @Description Re-evaluates the account and persists isCurrent and lastAccrualCheckAt.
// @Tags accrual
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account changed concurrently"
// @Failure 503 {object} map[string]string "Unable to verify payment status"
// @Security BearerAuth
// @Router /accounts/{accountID}/recompute [post]
func (h *accrualHandler) recompute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_account_id", c.Param("accountID")))

	account, err := h.accrualService.RecomputeAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrConcurrentModification) {
			logger.Warn("Recompute lost a concurrent update")
			c.JSON(http.StatusConflict, gin.H{"error": "Account changed concurrently, try again"})
			return
		}
		respondAccrualError(c, logger, err, "recompute")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
