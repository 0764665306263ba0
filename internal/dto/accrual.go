package dto

import (
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
)

// PaymentStatusResponse is the live payment standing of an account.
type PaymentStatusResponse struct {
	AccountID             string    `json:"accountID"`
	IsCurrent             bool      `json:"isCurrent"`
	Exempt                bool      `json:"exempt"`
	MonthsOwed            int       `json:"monthsOwed"`
	MonthsCredited        int       `json:"monthsCredited"`
	MonthsBehind          int       `json:"monthsBehind"`
	MonthsAhead           int       `json:"monthsAhead"`
	Ratio                 string    `json:"ratio"`
	Message               string    `json:"message"`
	CanAccessPaidFeatures bool      `json:"canAccessPaidFeatures"`
	EvaluatedAt           time.Time `json:"evaluatedAt"`
}

// ToPaymentStatusResponse converts a domain.PaymentStatus to its DTO.
func ToPaymentStatusResponse(s domain.PaymentStatus) PaymentStatusResponse {
	return PaymentStatusResponse{
		AccountID:             s.AccountID,
		IsCurrent:             s.IsCurrent,
		Exempt:                s.Exempt,
		MonthsOwed:            s.MonthsOwed,
		MonthsCredited:        s.MonthsCredited,
		MonthsBehind:          s.MonthsBehind,
		MonthsAhead:           s.MonthsAhead,
		Ratio:                 s.Ratio,
		Message:               s.Message,
		CanAccessPaidFeatures: s.CanAccessPaidFeatures,
		EvaluatedAt:           s.EvaluatedAt,
	}
}

// EligibilityResponse is returned by the eligibility gate.
type EligibilityResponse struct {
	AccountID string                `json:"accountID"`
	Allowed   bool                  `json:"allowed"`
	Reason    string                `json:"reason,omitempty"`
	Status    PaymentStatusResponse `json:"status"`
}

// ToEligibilityResponse converts a domain.EligibilityDecision to its DTO.
func ToEligibilityResponse(d domain.EligibilityDecision) EligibilityResponse {
	return EligibilityResponse{
		AccountID: d.AccountID,
		Allowed:   d.Allowed,
		Reason:    d.Reason,
		Status:    ToPaymentStatusResponse(d.Status),
	}
}

// SweepResponse reports the counts of an accrual sweep.
type SweepResponse struct {
	Checked    int       `json:"checked"`
	Changed    int       `json:"changed"`
	Errors     int       `json:"errors"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// ToSweepResponse converts a domain.SweepResult to its DTO.
func ToSweepResponse(r domain.SweepResult) SweepResponse {
	return SweepResponse{
		Checked:    r.Checked,
		Changed:    r.Changed,
		Errors:     r.Errors,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}
