package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailTaken             = errors.New("email already registered")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrInsufficientBalance    = errors.New("insufficient leave balance")
	ErrMissingRejectionReason = errors.New("please provide a reason for rejection")

	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotPending       = errors.New("leave request is not pending")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrInvalidCategory  = errors.New("unknown leave type")
	ErrStartInPast      = errors.New("start date must not be in the past")
	ErrValidation       = errors.New("validation failed")
)

// InsufficientBalanceError tells the caller which category was short and how many days remain.
type InsufficientBalanceError struct {
	Category  LeaveCategory
	Requested int
	Available int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("you only have %d %s leaves remaining", e.Available, strings.ToLower(string(e.Category)))
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// Validationf returns an error wrapping ErrValidation with a field-level message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
