package mapping

import (
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:        d.PaymentID,
		AccountID:        d.AccountID,
		PlanCode:         d.PlanCode,
		MonthsPurchased:  d.MonthsPurchased,
		Amount:           d.Amount,
		Currency:         d.Currency,
		GatewayReference: d.GatewayReference,
		ConfirmedAt:      d.ConfirmedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:        m.PaymentID,
		AccountID:        m.AccountID,
		PlanCode:         m.PlanCode,
		MonthsPurchased:  m.MonthsPurchased,
		Amount:           m.Amount,
		Currency:         m.Currency,
		GatewayReference: m.GatewayReference,
		ConfirmedAt:      m.ConfirmedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
