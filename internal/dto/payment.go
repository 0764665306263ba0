package dto

import (
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConfirmPaymentRequest is sent by the payment-gateway webhook after a completed transaction.
type ConfirmPaymentRequest struct {
	AccountID        string          `json:"accountID" binding:"required,uuid"`
	PlanCode         string          `json:"planCode" binding:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency" binding:"required,len=3"`
	GatewayReference string          `json:"gatewayReference" binding:"required"`
}

// PaymentResponse defines the data returned for a confirmed payment.
type PaymentResponse struct {
	PaymentID        string          `json:"paymentID"`
	AccountID        string          `json:"accountID"`
	PlanCode         string          `json:"planCode"`
	MonthsPurchased  int             `json:"monthsPurchased"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	GatewayReference string          `json:"gatewayReference"`
	ConfirmedAt      time.Time       `json:"confirmedAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:        p.PaymentID,
		AccountID:        p.AccountID,
		PlanCode:         p.PlanCode,
		MonthsPurchased:  p.MonthsPurchased,
		Amount:           p.Amount,
		Currency:         p.Currency,
		GatewayReference: p.GatewayReference,
		ConfirmedAt:      p.ConfirmedAt,
	}
}

// ConfirmPaymentResponse is the outcome of a payment confirmation.
type ConfirmPaymentResponse struct {
	Payment   PaymentResponse       `json:"payment"`
	Status    PaymentStatusResponse `json:"status"`
	Duplicate bool                  `json:"duplicate"` // true when the gateway reference was already credited
}

// ToConfirmPaymentResponse converts a domain.PaymentConfirmation to its DTO.
func ToConfirmPaymentResponse(c *domain.PaymentConfirmation) ConfirmPaymentResponse {
	return ConfirmPaymentResponse{
		Payment:   ToPaymentResponse(&c.Payment),
		Status:    ToPaymentStatusResponse(c.Status),
		Duplicate: c.Duplicate,
	}
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListPaymentsResponse wraps the list of payments.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToListPaymentsResponse converts a slice of domain.Payment to ListPaymentsResponse.
func ToListPaymentsResponse(payments []domain.Payment) ListPaymentsResponse {
	res := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToPaymentResponse(&p)
	}
	return ListPaymentsResponse{Payments: res}
}
