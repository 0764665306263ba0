package domain

import (
	"github.com/shopspring/decimal"
)

// AccrualStatistics aggregates payment standing across all accounts.
type AccrualStatistics struct {
	TotalAccounts         int             `json:"totalAccounts"`
	ExemptCount           int             `json:"exemptCount"`
	CurrentCount          int             `json:"currentCount"` // Includes exempt accounts
	BehindCount           int             `json:"behindCount"`
	InvalidCount          int             `json:"invalidCount"` // Skipped records with unusable data
	AverageMonthsCredited decimal.Decimal `json:"averageMonthsCredited"`
}
