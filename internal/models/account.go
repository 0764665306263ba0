package models

import (
	"time"
)

// Role mirrors the accounts.role column.
type Role string

// Account represents a row of the accounts table.
type Account struct {
	AccountID             string     `db:"account_id"`
	Name                  string     `db:"name"`
	Email                 string     `db:"email"`
	Unit                  string     `db:"unit"`
	Role                  Role       `db:"role"`
	RegisteredAt          time.Time  `db:"registered_at"`
	PaymentMonthsCredited int        `db:"payment_months_credited"`
	IsCurrent             bool       `db:"is_current"`
	LastAccrualCheckAt    *time.Time `db:"last_accrual_check_at"` // Nullable until the first recompute
	Version               int64      `db:"version"`
	AuditFields
}
