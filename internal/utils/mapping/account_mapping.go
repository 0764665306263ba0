package mapping

import (
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:             d.AccountID,
		Name:                  d.Name,
		Email:                 d.Email,
		Unit:                  d.Unit,
		Role:                  models.Role(d.Role),
		RegisteredAt:          d.RegisteredAt,
		PaymentMonthsCredited: d.PaymentMonthsCredited,
		IsCurrent:             d.Accrual.IsCurrent,
		LastAccrualCheckAt:    d.Accrual.LastCheckedAt,
		Version:               d.Version,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:             m.AccountID,
		Name:                  m.Name,
		Email:                 m.Email,
		Unit:                  m.Unit,
		Role:                  domain.Role(m.Role),
		RegisteredAt:          m.RegisteredAt,
		PaymentMonthsCredited: m.PaymentMonthsCredited,
		Accrual: domain.AccrualSnapshot{
			IsCurrent:     m.IsCurrent,
			LastCheckedAt: m.LastAccrualCheckAt,
		},
		Version:     m.Version,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
