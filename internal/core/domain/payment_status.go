package domain

import "time"

// PaymentStatus is a point-in-time evaluation of an account's payment standing.
type PaymentStatus struct {
	AccountID             string    `json:"accountID"`
	IsCurrent             bool      `json:"isCurrent"`
	Exempt                bool      `json:"exempt"`
	MonthsOwed            int       `json:"monthsOwed"`
	MonthsCredited        int       `json:"monthsCredited"`
	Unlimited             bool      `json:"unlimited"` // Exempt accounts carry unlimited credit
	MonthsBehind          int       `json:"monthsBehind"`
	MonthsAhead           int       `json:"monthsAhead"`
	Ratio                 string    `json:"ratio"`
	Message               string    `json:"message"`
	CanAccessPaidFeatures bool      `json:"canAccessPaidFeatures"`
	EvaluatedAt           time.Time `json:"evaluatedAt"`
}

// EligibilityDecision is the outcome of the eligibility gate for a privileged action.
type EligibilityDecision struct {
	AccountID string        `json:"accountID"`
	Allowed   bool          `json:"allowed"`
	Reason    string        `json:"reason,omitempty"`
	Status    PaymentStatus `json:"status"`
}
