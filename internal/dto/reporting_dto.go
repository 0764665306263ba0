package dto

import (
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccrualStatisticsResponse represents fleet-wide payment standing.
type AccrualStatisticsResponse struct {
	TotalAccounts         int             `json:"totalAccounts"`
	ExemptCount           int             `json:"exemptCount"`
	CurrentCount          int             `json:"currentCount"`
	BehindCount           int             `json:"behindCount"`
	InvalidCount          int             `json:"invalidCount"`
	AverageMonthsCredited decimal.Decimal `json:"averageMonthsCredited"`
}

// ToAccrualStatisticsResponse converts domain statistics to the response DTO
func ToAccrualStatisticsResponse(s *domain.AccrualStatistics) AccrualStatisticsResponse {
	return AccrualStatisticsResponse{
		TotalAccounts:         s.TotalAccounts,
		ExemptCount:           s.ExemptCount,
		CurrentCount:          s.CurrentCount,
		BehindCount:           s.BehindCount,
		InvalidCount:          s.InvalidCount,
		AverageMonthsCredited: s.AverageMonthsCredited,
	}
}

// SweepRunResponse represents a persisted sweep summary.
type SweepRunResponse struct {
	RunID   string `json:"runID"`
	Trigger string `json:"trigger"`
	SweepResponse
}

// ToSweepRunResponse converts a domain.SweepRun to its DTO.
func ToSweepRunResponse(r *domain.SweepRun) SweepRunResponse {
	return SweepRunResponse{
		RunID:         r.RunID,
		Trigger:       string(r.Trigger),
		SweepResponse: ToSweepResponse(r.SweepResult),
	}
}
