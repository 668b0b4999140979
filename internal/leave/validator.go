// Package leave holds the leave arithmetic and request lifecycle rules.
// Everything here is pure; callers own storage and clocks.
package leave

import (
	"leavedesk-backend/internal/domain"
)

const day = 24 * 60 * 60

// Quote is the outcome of checking a draft application against a balance.
type Quote struct {
	Category  domain.LeaveCategory
	Days      int
	Available int
	Exceeds   bool
}

// ComputeDays returns the inclusive number of days from start to end.
// Empty or malformed input yields 0, as does an end before the start.
func ComputeDays(start, end string) int {
	if start == "" || end == "" {
		return 0
	}
	s, err := domain.ParseDate(start)
	if err != nil {
		return 0
	}
	e, err := domain.ParseDate(end)
	if err != nil {
		return 0
	}
	return DaysBetween(s, e)
}

// DaysBetween is ComputeDays for already parsed dates.
func DaysBetween(start, end domain.Date) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	n := int((end.Unix()-start.Unix())/day) + 1
	if n < 0 {
		return 0
	}
	return n
}

// RemainingFor returns the remaining days for category, 0 when there is no
// balance or the category has no counter.
func RemainingFor(b *domain.LeaveBalance, category domain.LeaveCategory) int {
	if b == nil {
		return 0
	}
	switch category {
	case domain.LeaveCasual:
		return b.CasualLeavesRemaining
	case domain.LeaveSick:
		return b.SickLeavesRemaining
	case domain.LeaveAnnual:
		return b.AnnualLeavesRemaining
	default:
		return 0
	}
}

// TotalFor mirrors RemainingFor for the yearly allowance.
func TotalFor(b *domain.LeaveBalance, category domain.LeaveCategory) int {
	if b == nil {
		return 0
	}
	switch category {
	case domain.LeaveCasual:
		return b.TotalCasualLeaves
	case domain.LeaveSick:
		return b.TotalSickLeaves
	case domain.LeaveAnnual:
		return b.TotalAnnualLeaves
	default:
		return 0
	}
}

// ExceedsLimit reports whether requested days are more than remaining.
// Equal counts fit.
func ExceedsLimit(requested, remaining int) bool {
	return requested > remaining
}

// Breakdown lists the tracked categories of b as balance card rows.
func Breakdown(b *domain.LeaveBalance) []domain.CategoryBalance {
	out := make([]domain.CategoryBalance, 0, 3)
	for _, c := range []domain.LeaveCategory{domain.LeaveCasual, domain.LeaveSick, domain.LeaveAnnual} {
		out = append(out, domain.CategoryBalance{Type: c, Remaining: RemainingFor(b, c), Total: TotalFor(b, c)})
	}
	return out
}

// Estimate quotes a draft without judging it; the form shows this while it is being filled.
func Estimate(b *domain.LeaveBalance, category domain.LeaveCategory, start, end domain.Date) Quote {
	days := DaysBetween(start, end)
	available := RemainingFor(b, category)
	return Quote{
		Category:  category,
		Days:      days,
		Available: available,
		Exceeds:   ExceedsLimit(days, available),
	}
}

// Check validates a draft application. It returns ErrInvalidDateRange for an
// empty span and an *InsufficientBalanceError when the days exceed the balance.
func Check(b *domain.LeaveBalance, category domain.LeaveCategory, start, end domain.Date) (Quote, error) {
	if !category.Valid() {
		return Quote{}, domain.ErrInvalidCategory
	}
	q := Estimate(b, category, start, end)
	if q.Days == 0 {
		return q, domain.ErrInvalidDateRange
	}
	if q.Exceeds {
		return q, &domain.InsufficientBalanceError{Category: category, Requested: q.Days, Available: q.Available}
	}
	return q, nil
}

// Deduct returns b after taking days from category. Untracked categories are
// returned unchanged; a deduction below zero is refused.
func Deduct(b domain.LeaveBalance, category domain.LeaveCategory, days int) (domain.LeaveBalance, error) {
	if !category.Tracked() || days <= 0 {
		return b, nil
	}
	remaining := RemainingFor(&b, category)
	if ExceedsLimit(days, remaining) {
		return b, &domain.InsufficientBalanceError{Category: category, Requested: days, Available: remaining}
	}
	switch category {
	case domain.LeaveCasual:
		b.CasualLeavesRemaining -= days
	case domain.LeaveSick:
		b.SickLeavesRemaining -= days
	case domain.LeaveAnnual:
		b.AnnualLeavesRemaining -= days
	}
	return b, nil
}
