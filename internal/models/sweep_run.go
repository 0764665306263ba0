package models

import "time"

// SweepRun represents a row of the accrual_sweep_runs table.
type SweepRun struct {
	RunID      string    `db:"run_id"`
	Trigger    string    `db:"trigger"`
	Checked    int       `db:"checked"`
	Changed    int       `db:"changed"`
	Errors     int       `db:"errors"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}
