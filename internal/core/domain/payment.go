package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan maps a purchasable plan to the number of months it credits.
type PaymentPlan struct {
	Code     string          `json:"code" validate:"required"`
	Months   int             `json:"months" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency" validate:"required,len=3"`
}

// Payment is a confirmed payment that credited months to an account.
type Payment struct {
	PaymentID        string          `json:"paymentID"`
	AccountID        string          `json:"accountID"`
	PlanCode         string          `json:"planCode"`
	MonthsPurchased  int             `json:"monthsPurchased"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	GatewayReference string          `json:"gatewayReference"` // Unique per gateway transaction
	ConfirmedAt      time.Time       `json:"confirmedAt"`
	AuditFields
}

// PaymentConfirmation is the outcome of confirming a gateway payment.
type PaymentConfirmation struct {
	Payment   Payment
	Status    PaymentStatus
	Duplicate bool
}
