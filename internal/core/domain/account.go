package domain

import "time"

// Role is the estate role an account holds.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleLandlord   Role = "LANDLORD"
	RoleResident   Role = "RESIDENT"
	RoleSecurity   Role = "SECURITY"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleLandlord, RoleResident, RoleSecurity:
		return true
	}
	return false
}

// IsExemptFromAccrual reports whether the role is excluded from monthly payment accrual.
func (r Role) IsExemptFromAccrual() bool {
	return r == RoleSuperAdmin
}

// AccrualSnapshot is the cached projection of an account's payment standing.
// It is re-derivable from RegisteredAt, PaymentMonthsCredited and an evaluation instant,
// and is only ever written by accrual.Recompute.
type AccrualSnapshot struct {
	IsCurrent     bool       `json:"isCurrent"`
	LastCheckedAt *time.Time `json:"lastAccrualCheckAt,omitempty"`
}

// Account represents an estate member (resident, landlord, guard or admin).
type Account struct {
	AccountID             string          `json:"accountID"` // Primary Key (UUID)
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Unit                  string          `json:"unit"` // House / flat label, empty for staff
	Role                  Role            `json:"role"`
	RegisteredAt          time.Time       `json:"registeredAt"` // Immutable
	PaymentMonthsCredited int             `json:"paymentMonthsCredited"`
	Accrual               AccrualSnapshot `json:"accrual"`
	Version               int64           `json:"-"` // Bumped by the store on every write
	AuditFields
}

// IsExempt reports whether the account is excluded from accrual.
func (a Account) IsExempt() bool {
	return a.Role.IsExemptFromAccrual()
}
