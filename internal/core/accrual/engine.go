// Package accrual computes how many monthly payments an estate account owes.
//
// The first month is due at registration, so a freshly registered account owes one
// month and is not current until it has paid it. Everything here is pure: the
// evaluation instant is always passed in and nothing touches storage.
package accrual

import (
	"fmt"
	"time"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
)

const exemptMessage = "Super admin — no payment required"

// MonthsElapsed returns the whole calendar months between registeredAt and now, floored.
// A month is complete on the same day-of-month and time-of-day; anniversaries on days a
// shorter month lacks fall on that month's last day. A zero registeredAt or one after now
// (clock skew) yields 0.
func MonthsElapsed(registeredAt, now time.Time) int {
	if registeredAt.IsZero() || !now.After(registeredAt) {
		return 0
	}
	from := registeredAt.UTC()
	to := now.UTC()

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months > 0 && to.Before(addMonthsClamped(from, months)) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// RequiredPayments returns the number of months owed as of now: elapsed months plus the
// month that is due immediately on registration. Always at least 1.
func RequiredPayments(registeredAt, now time.Time) int {
	return MonthsElapsed(registeredAt, now) + 1
}

// Evaluate computes the payment status of account as of now. It has no side effects.
func Evaluate(account domain.Account, now time.Time) (domain.PaymentStatus, error) {
	if account.IsExempt() {
		return domain.PaymentStatus{
			AccountID:             account.AccountID,
			IsCurrent:             true,
			Exempt:                true,
			MonthsCredited:        account.PaymentMonthsCredited,
			Unlimited:             true,
			Ratio:                 "∞",
			Message:               exemptMessage,
			CanAccessPaidFeatures: true,
			EvaluatedAt:           now,
		}, nil
	}
	if account.RegisteredAt.IsZero() {
		return domain.PaymentStatus{}, fmt.Errorf("%w: account %s has no registration timestamp", apperrors.ErrInvalidAccountData, account.AccountID)
	}
	if account.PaymentMonthsCredited < 0 {
		return domain.PaymentStatus{}, fmt.Errorf("%w: account %s has negative months credited (%d)", apperrors.ErrInvalidAccountData, account.AccountID, account.PaymentMonthsCredited)
	}

	owed := RequiredPayments(account.RegisteredAt, now)
	credited := account.PaymentMonthsCredited
	isCurrent := credited >= owed

	return domain.PaymentStatus{
		AccountID:             account.AccountID,
		IsCurrent:             isCurrent,
		MonthsOwed:            owed,
		MonthsCredited:        credited,
		MonthsBehind:          max(0, owed-credited),
		MonthsAhead:           max(0, credited-owed),
		Ratio:                 fmt.Sprintf("%d/%d", credited, owed),
		Message:               statusMessage(owed-credited),
		CanAccessPaidFeatures: isCurrent,
		EvaluatedAt:           now,
	}, nil
}

// Recompute refreshes the cached accrual snapshot of account as of now and reports whether
// IsCurrent flipped. PaymentMonthsCredited is never modified. Calling it twice with the same
// now yields the same account.
func Recompute(account domain.Account, now time.Time) (domain.Account, bool, error) {
	status, err := Evaluate(account, now)
	if err != nil {
		return account, false, err
	}
	changed := account.Accrual.IsCurrent != status.IsCurrent
	checkedAt := now
	account.Accrual = domain.AccrualSnapshot{
		IsCurrent:     status.IsCurrent,
		LastCheckedAt: &checkedAt,
	}
	return account, changed, nil
}

// Credit adds monthsPurchased to the account's credited months. Callers recompute afterwards.
func Credit(account domain.Account, monthsPurchased int) (domain.Account, error) {
	if monthsPurchased <= 0 {
		return account, fmt.Errorf("%w: months purchased must be positive, got %d", apperrors.ErrValidation, monthsPurchased)
	}
	account.PaymentMonthsCredited += monthsPurchased
	return account, nil
}

// statusMessage renders the deterministic status text for a gap of owed-credited months.
func statusMessage(gap int) string {
	switch {
	case gap > 0:
		return fmt.Sprintf("%d month(s) behind, please pay to continue", gap)
	case gap < 0:
		return fmt.Sprintf("up to date, %d month(s) ahead", -gap)
	default:
		return "exactly up to date"
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
