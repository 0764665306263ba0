package dto

import (
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to register a new estate account.
type CreateAccountRequest struct {
	Name  string      `json:"name" binding:"required"`
	Email string      `json:"email" binding:"required,email"`
	Unit  string      `json:"unit"` // Optional for staff roles
	Role  domain.Role `json:"role" binding:"required,estaterole"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID             string      `json:"accountID"`
	Name                  string      `json:"name"`
	Email                 string      `json:"email"`
	Unit                  string      `json:"unit"`
	Role                  domain.Role `json:"role"`
	RegisteredAt          time.Time   `json:"registeredAt"`
	PaymentMonthsCredited int         `json:"paymentMonthsCredited"`
	IsCurrent             bool        `json:"isCurrent"` // Cached; see payment-status for a live evaluation
	LastAccrualCheckAt    *time.Time  `json:"lastAccrualCheckAt,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
	CreatedBy             string      `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:             acc.AccountID,
		Name:                  acc.Name,
		Email:                 acc.Email,
		Unit:                  acc.Unit,
		Role:                  acc.Role,
		RegisteredAt:          acc.RegisteredAt,
		PaymentMonthsCredited: acc.PaymentMonthsCredited,
		IsCurrent:             acc.Accrual.IsCurrent,
		LastAccrualCheckAt:    acc.Accrual.LastCheckedAt,
		CreatedAt:             acc.CreatedAt,
		CreatedBy:             acc.CreatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken string `form:"nextToken"` // Opaque token from the previous page
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"` // Absent on the last page
}
