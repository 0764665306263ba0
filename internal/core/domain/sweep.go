package domain

import "time"

// SweepTrigger records what started a sweep.
type SweepTrigger string

const (
	SweepTriggerCron   SweepTrigger = "cron"
	SweepTriggerManual SweepTrigger = "manual"
	SweepTriggerCLI    SweepTrigger = "cli"
)

// SweepResult summarises one pass of the monthly accrual check.
type SweepResult struct {
	Checked    int       `json:"checked"`
	Changed    int       `json:"changed"` // isCurrent flipped
	Errors     int       `json:"errors"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// SweepRun is a persisted SweepResult.
type SweepRun struct {
	RunID   string       `json:"runID"`
	Trigger SweepTrigger `json:"trigger"`
	SweepResult
}
