package service

import (
	"context"
	"errors"
	"time"

	"leavedesk-backend/internal/domain"
)

// simulateLatency is the single suspension point of a user action. It stands
// in for a remote call and returns early if ctx is done.
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// outcome turns an error into a metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrInvalidDateRange), errors.Is(err, domain.ErrStartInPast),
		errors.Is(err, domain.ErrInvalidCategory), errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
