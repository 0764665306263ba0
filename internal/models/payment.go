package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a row of the payments table.
type Payment struct {
	PaymentID        string          `db:"payment_id"`
	AccountID        string          `db:"account_id"`
	PlanCode         string          `db:"plan_code"`
	MonthsPurchased  int             `db:"months_purchased"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	GatewayReference string          `db:"gateway_reference"`
	ConfirmedAt      time.Time       `db:"confirmed_at"`
	AuditFields
}
