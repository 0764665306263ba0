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

// paymentHandler handles payment confirmations and payment history.
type paymentHandler struct {
	paymentService portssvc.PaymentSvc
}

func newPaymentHandler(ps portssvc.PaymentSvc) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// RegisterPaymentRoutes registers payment routes. limiter may be nil.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvc, limiter gin.HandlerFunc) {
	h := newPaymentHandler(paymentService)

	confirm := []gin.HandlerFunc{h.confirmPayment}
	if limiter != nil {
		confirm = append([]gin.HandlerFunc{limiter}, confirm...)
	}
	rg.POST("/payments/confirm", confirm...)
	rg.GET("/accounts/:accountID/payments",
		middleware.RequireSelfOrRoles("accountID", domain.RoleSuperAdmin, domain.RoleLandlord),
		h.listPayments)
}

// confirmPayment godoc
// @Summary Confirm a gateway payment
// @Description Credits the purchased plan's months to the account. Redelivery of the same gateway reference is a no-op that returns the original payment.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.ConfirmPaymentRequest true "Gateway confirmation"
// @Success 200 {object} dto.ConfirmPaymentResponse "Already confirmed"
// @Success 201 {object} dto.ConfirmPaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or plan mismatch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Gateway reference already used"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 503 {object} map[string]string "Payment could not be recorded"
// @Security BearerAuth
// @Router /payments/confirm [post]
func (h *paymentHandler) confirmPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetRoleFromContext(c)
	if callerID != req.AccountID && role != domain.RoleSuperAdmin {
		logger.Warn("Payment confirmation for another account rejected", slog.String("account_id", req.AccountID))
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
		return
	}

	logger = logger.With(slog.String("account_id", req.AccountID), slog.String("gateway_reference", req.GatewayReference))
	confirmation, err := h.paymentService.ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Payment confirmation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Gateway reference already used"})
		default:
			logger.Error("Failed to confirm payment", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment could not be recorded, try again"})
		}
		return
	}

	code := http.StatusCreated
	if confirmation.Duplicate {
		code = http.StatusOK
	}
	c.JSON(code, dto.ToConfirmPaymentResponse(confirmation))
}

// listPayments godoc
// @Summary List an account's payments
// @Description Lists confirmed payments, newest first
// @Tags payments
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /accounts/{accountID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.Param("accountID"), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments))
}
