package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) RunMonthlyCheck(ctx context.Context, trigger domain.SweepTrigger) (*domain.SweepResult, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAccrualSweep_UsesCronTrigger(t *testing.T) {
	sweep := new(MockSweepService)
	sweep.On("RunMonthlyCheck", mock.Anything, domain.SweepTriggerCron).
		Return(&domain.SweepResult{Checked: 3, Changed: 1}, nil).Once()

	NewJobs(context.Background(), sweep, discardLogger()).RunAccrualSweep()

	sweep.AssertExpectations(t)
}

func TestRunAccrualSweep_ToleratesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "lease held elsewhere", err: apperrors.ErrSweepInProgress},
		{name: "store failure", err: assert.AnError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweep := new(MockSweepService)
			sweep.On("RunMonthlyCheck", mock.Anything, domain.SweepTriggerCron).Return(nil, tt.err).Once()

			assert.NotPanics(t, NewJobs(context.Background(), sweep, discardLogger()).RunAccrualSweep)
			sweep.AssertExpectations(t)
		})
	}
}

func TestScheduler_RejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(NewJobs(context.Background(), new(MockSweepService), discardLogger()), discardLogger(), "every full moon")
	assert.Error(t, s.Start())
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := NewScheduler(NewJobs(context.Background(), new(MockSweepService), discardLogger()), discardLogger(), "0 2 * * *")
	require.NoError(t, s.Start())
	assert.Equal(t, 1, s.Entries())

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
