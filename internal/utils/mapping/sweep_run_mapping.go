package mapping

import (
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/models"
)

// ToModelSweepRun converts a domain SweepRun to a model SweepRun
func ToModelSweepRun(d domain.SweepRun) models.SweepRun {
	return models.SweepRun{
		RunID:      d.RunID,
		Trigger:    string(d.Trigger),
		Checked:    d.Checked,
		Changed:    d.Changed,
		Errors:     d.Errors,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
	}
}

// ToDomainSweepRun converts a model SweepRun to a domain SweepRun
func ToDomainSweepRun(m models.SweepRun) domain.SweepRun {
	return domain.SweepRun{
		RunID:   m.RunID,
		Trigger: domain.SweepTrigger(m.Trigger),
		SweepResult: domain.SweepResult{
			Checked:    m.Checked,
			Changed:    m.Changed,
			Errors:     m.Errors,
			StartedAt:  m.StartedAt,
			FinishedAt: m.FinishedAt,
		},
	}
}
