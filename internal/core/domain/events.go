package domain

import "time"

// AccrualStatusChanged is emitted when an account's cached IsCurrent flips.
type AccrualStatusChanged struct {
	AccountID    string    `json:"accountID"`
	IsCurrent    bool      `json:"isCurrent"`
	MonthsBehind int       `json:"monthsBehind"`
	CheckedAt    time.Time `json:"checkedAt"`
}
