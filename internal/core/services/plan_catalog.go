package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// PlanCatalog maps purchasable plan codes to the months they credit.
type PlanCatalog struct {
	plans map[string]domain.PaymentPlan
}

// NewPlanCatalog validates plans and indexes them by code.
func NewPlanCatalog(plans []domain.PaymentPlan) (*PlanCatalog, error) {
	validate := validator.New()
	catalog := &PlanCatalog{plans: make(map[string]domain.PaymentPlan, len(plans))}
	for _, plan := range plans {
		plan.Currency = strings.ToUpper(plan.Currency)
		if err := validate.Struct(plan); err != nil {
			return nil, fmt.Errorf("%w: plan %q: %v", apperrors.ErrValidation, plan.Code, err)
		}
		if !plan.Price.IsPositive() {
			return nil, fmt.Errorf("%w: plan %q must have a positive price", apperrors.ErrValidation, plan.Code)
		}
		if _, exists := catalog.plans[plan.Code]; exists {
			return nil, fmt.Errorf("%w: plan %q defined twice", apperrors.ErrValidation, plan.Code)
		}
		catalog.plans[plan.Code] = plan
	}
	return catalog, nil
}

// Lookup returns the plan for code.
func (c *PlanCatalog) Lookup(code string) (domain.PaymentPlan, error) {
	plan, ok := c.plans[code]
	if !ok {
		return domain.PaymentPlan{}, fmt.Errorf("%w: unknown payment plan %q", apperrors.ErrValidation, code)
	}
	return plan, nil
}

// Plans lists the catalog ordered by months.
func (c *PlanCatalog) Plans() []domain.PaymentPlan {
	plans := make([]domain.PaymentPlan, 0, len(c.plans))
	for _, plan := range c.plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Months == plans[j].Months {
			return plans[i].Code < plans[j].Code
		}
		return plans[i].Months < plans[j].Months
	})
	return plans
}
