package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetAccrualStatistics(t *testing.T) {
	ts := newTestServices()
	ts.reporting.On("GetAccrualStatistics", mock.Anything).Return(&domain.AccrualStatistics{
		TotalAccounts:         10,
		ExemptCount:           1,
		CurrentCount:          7,
		BehindCount:           3,
		AverageMonthsCredited: decimal.RequireFromString("4.25"),
	}, nil).Once()

	w := ts.do(http.MethodGet, "/api/v1/reports/accrual", "", generateTestToken(uuid.NewString(), domain.RoleLandlord))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AccrualStatisticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.BehindCount)
	assert.True(t, resp.AverageMonthsCredited.Equal(decimal.RequireFromString("4.25")))
}

func TestGetAccrualStatistics_ResidentForbidden(t *testing.T) {
	ts := newTestServices()

	w := ts.do(http.MethodGet, "/api/v1/reports/accrual", "", generateTestToken(uuid.NewString(), domain.RoleResident))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetLatestSweep(t *testing.T) {
	started := time.Date(2026, 10, 1, 2, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		ts := newTestServices()
		ts.reporting.On("GetLatestSweepRun", mock.Anything).Return(&domain.SweepRun{
			RunID:       "run-1",
			Trigger:     domain.SweepTriggerCron,
			SweepResult: domain.SweepResult{Checked: 40, Changed: 2, StartedAt: started, FinishedAt: started.Add(time.Minute)},
		}, nil).Once()

		w := ts.do(http.MethodGet, "/api/v1/reports/sweeps/latest", "", generateTestToken(uuid.NewString(), domain.RoleSuperAdmin))

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.SweepRunResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "cron", resp.Trigger)
		assert.Equal(t, 40, resp.Checked)
	})

	t.Run("none yet", func(t *testing.T) {
		ts := newTestServices()
		ts.reporting.On("GetLatestSweepRun", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

		w := ts.do(http.MethodGet, "/api/v1/reports/sweeps/latest", "", generateTestToken(uuid.NewString(), domain.RoleSuperAdmin))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
