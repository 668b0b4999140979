package repository

import (
	"context"
	"fmt"
	"sync"

	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/ports"
)

const KeyLeaveBalances = "leaveBalances"

type BalanceRepository struct {
	kv    ports.KVStore
	mu    sync.RWMutex
	items []domain.LeaveBalance
}

func NewBalanceRepository(ctx context.Context, kv ports.KVStore, seed []domain.LeaveBalance) (*BalanceRepository, error) {
	r := &BalanceRepository{kv: kv, items: seed}
	var stored []domain.LeaveBalance
	found, err := db.LoadJSON(ctx, kv, KeyLeaveBalances, &stored)
	if err != nil {
		return nil, fmt.Errorf("load leave balances: %w", err)
	}
	if found {
		r.items = stored
	}
	return r, nil
}

// ForEmployee returns the employee's balance for the most recent year on record.
func (r *BalanceRepository) ForEmployee(_ context.Context, employeeID string) (domain.LeaveBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best  domain.LeaveBalance
		found bool
	)
	for _, b := range r.items {
		if b.EmployeeID != employeeID {
			continue
		}
		if !found || b.Year > best.Year {
			best, found = b, true
		}
	}
	if !found {
		return domain.LeaveBalance{}, domain.ErrNotFound
	}
	return best, nil
}

func (r *BalanceRepository) List(_ context.Context) []domain.LeaveBalance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LeaveBalance, len(r.items))
	copy(out, r.items)
	return out
}

// Save replaces the balance with the same id.
func (r *BalanceRepository) Save(ctx context.Context, b domain.LeaveBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := append([]domain.LeaveBalance(nil), r.items...)
	idx := -1
	for i, it := range next {
		if it.ID == b.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	if b.CasualLeavesRemaining < 0 || b.SickLeavesRemaining < 0 || b.AnnualLeavesRemaining < 0 {
		return domain.Validationf("balance %s would go negative", b.ID)
	}
	next[idx] = b
	if err := db.SaveJSON(ctx, r.kv, KeyLeaveBalances, next); err != nil {
		return err
	}
	r.items = next
	return nil
}
