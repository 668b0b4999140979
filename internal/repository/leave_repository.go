package repository

import (
	"context"
	"fmt"
	"sync"

	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/ports"
	"github.com/google/uuid"
)

// KeyLeaveRequests is the storage key of the request collection.
const KeyLeaveRequests = "leaveRequests"

// LeaveRepository owns the process-wide leave request collection. It is
// loaded once and snapshotted to the store after every mutation.
type LeaveRepository struct {
	kv    ports.KVStore
	mu    sync.RWMutex
	items []domain.LeaveRequest
}

func NewLeaveRepository(ctx context.Context, kv ports.KVStore, seed []domain.LeaveRequest) (*LeaveRepository, error) {
	r := &LeaveRepository{kv: kv, items: seed}
	var stored []domain.LeaveRequest
	found, err := db.LoadJSON(ctx, kv, KeyLeaveRequests, &stored)
	if err != nil {
		return nil, fmt.Errorf("load leave requests: %w", err)
	}
	if found {
		r.items = stored
	}
	return r, nil
}

// List returns a copy of the collection in insertion order.
func (r *LeaveRepository) List(_ context.Context) []domain.LeaveRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LeaveRequest, len(r.items))
	copy(out, r.items)
	return out
}

func (r *LeaveRepository) Get(_ context.Context, id string) (domain.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.LeaveRequest{}, domain.ErrNotFound
}

// Create appends req, assigning a fresh id when it has none.
func (r *LeaveRepository) Create(ctx context.Context, req domain.LeaveRequest) (domain.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	next := append(append([]domain.LeaveRequest(nil), r.items...), req)
	if err := db.SaveJSON(ctx, r.kv, KeyLeaveRequests, next); err != nil {
		return domain.LeaveRequest{}, err
	}
	r.items = next
	return req, nil
}

// Update replaces the request with the same id.
func (r *LeaveRepository) Update(ctx context.Context, req domain.LeaveRequest) error {
	_, err := r.Modify(ctx, req.ID, func(domain.LeaveRequest) (domain.LeaveRequest, func(), error) {
		return req, nil, nil
	})
	return err
}

// Modify reads, changes and persists one request while holding the write lock,
// so fn always sees the current stored state. When fn fails nothing is written.
// When the snapshot cannot be written the undo returned by fn, if any, runs
// before the lock is released.
func (r *LeaveRepository) Modify(ctx context.Context, id string, fn func(cur domain.LeaveRequest) (domain.LeaveRequest, func(), error)) (domain.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, it := range r.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.LeaveRequest{}, domain.ErrNotFound
	}
	updated, undo, err := fn(r.items[idx])
	if err != nil {
		return domain.LeaveRequest{}, err
	}
	updated.ID = id
	next := append([]domain.LeaveRequest(nil), r.items...)
	next[idx] = updated
	if err := db.SaveJSON(ctx, r.kv, KeyLeaveRequests, next); err != nil {
		if undo != nil {
			undo()
		}
		return domain.LeaveRequest{}, err
	}
	r.items = next
	return updated, nil
}
