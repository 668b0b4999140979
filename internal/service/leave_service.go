package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/leave"
	"leavedesk-backend/internal/metrics"
	"leavedesk-backend/internal/repository"
)

// Directory resolves identities. *session.Store satisfies it.
type Directory interface {
	Lookup(id string) (domain.Identity, error)
	Roster() []domain.Identity
}

type LeaveService struct {
	Requests   *repository.LeaveRepository
	Balances   *repository.BalanceRepository
	Identities Directory
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Latency    time.Duration
	// Writeback stores review decisions and deducts approved days. When false
	// a review is acknowledged but the stored request stays Pending.
	Writeback bool
	Now       func() time.Time
}

type ApplyInput struct {
	LeaveType string
	StartDate string
	EndDate   string
	Reason    string
}

type QuoteInput struct {
	LeaveType string
	StartDate string
	EndDate   string
}

// ReviewResult is the acknowledgment of an approve or reject action.
type ReviewResult struct {
	Request domain.LeaveRequest
	Stored  bool
}

func (s LeaveService) today() domain.Date {
	if s.Now != nil {
		return domain.DateOf(s.Now())
	}
	return domain.DateOf(time.Now())
}

// Balance returns the viewer's current balance, or false if none exists.
func (s LeaveService) Balance(ctx context.Context, employeeID string) (domain.LeaveBalance, bool, error) {
	b, err := s.Balances.ForEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LeaveBalance{}, false, nil
		}
		return domain.LeaveBalance{}, false, err
	}
	return b, true, nil
}

func (s LeaveService) balancePtr(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	b, ok, err := s.Balance(ctx, employeeID)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// Quote reports day count and availability for a draft without judging it.
// Unparseable dates count as zero days.
func (s LeaveService) Quote(ctx context.Context, viewerID string, in QuoteInput) (leave.Quote, error) {
	category := domain.LeaveCategory(in.LeaveType)
	if !category.Valid() {
		return leave.Quote{}, domain.ErrInvalidCategory
	}
	b, err := s.balancePtr(ctx, viewerID)
	if err != nil {
		return leave.Quote{}, err
	}
	start, _ := domain.ParseDate(in.StartDate)
	end, _ := domain.ParseDate(in.EndDate)
	return leave.Estimate(b, category, start, end), nil
}

// Apply validates a draft and records it as Pending. Nothing is stored when
// the request exceeds the balance.
func (s LeaveService) Apply(ctx context.Context, viewerID string, in ApplyInput) (domain.LeaveRequest, error) {
	req, err := s.apply(ctx, viewerID, in)
	label := in.LeaveType
	if !domain.LeaveCategory(label).Valid() {
		label = "unknown"
	}
	s.Metrics.Applications.WithLabelValues(label, outcome(err)).Inc()
	return req, err
}

func (s LeaveService) apply(ctx context.Context, viewerID string, in ApplyInput) (domain.LeaveRequest, error) {
	owner, err := s.Identities.Lookup(viewerID)
	if err != nil {
		return domain.LeaveRequest{}, err
	}
	category := domain.LeaveCategory(in.LeaveType)
	if !category.Valid() {
		return domain.LeaveRequest{}, domain.ErrInvalidCategory
	}
	start, err := domain.ParseDate(in.StartDate)
	if err != nil {
		return domain.LeaveRequest{}, domain.Validationf("startDate must be YYYY-MM-DD")
	}
	end, err := domain.ParseDate(in.EndDate)
	if err != nil {
		return domain.LeaveRequest{}, domain.Validationf("endDate must be YYYY-MM-DD")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.LeaveRequest{}, domain.Validationf("reason is required")
	}
	today := s.today()
	if start.Before(today.Time) {
		return domain.LeaveRequest{}, domain.ErrStartInPast
	}

	b, err := s.balancePtr(ctx, owner.ID)
	if err != nil {
		return domain.LeaveRequest{}, err
	}
	q, err := leave.Check(b, category, start, end)
	if err != nil {
		s.Logger.Info("leave application refused", "user_id", owner.ID, "category", category, "days", q.Days, "available", q.Available, "err", err)
		return domain.LeaveRequest{}, err
	}

	if err := simulateLatency(ctx, s.Latency); err != nil {
		return domain.LeaveRequest{}, err
	}

	created, err := s.Requests.Create(ctx, domain.LeaveRequest{
		EmployeeID:   owner.ID,
		EmployeeName: owner.Name,
		LeaveType:    category,
		StartDate:    start,
		EndDate:      end,
		Reason:       reason,
		Status:       domain.StatusPending,
		AppliedDate:  today,
		TotalDays:    q.Days,
	})
	if err != nil {
		return domain.LeaveRequest{}, fmt.Errorf("store leave request: %w", err)
	}
	s.Logger.Info("leave applied", "request_id", created.ID, "user_id", owner.ID, "category", category, "days", q.Days)
	return created, nil
}

// Visible returns what the viewer's role may see, optionally by status.
func (s LeaveService) Visible(ctx context.Context, viewerID string, status domain.LeaveStatus) ([]domain.LeaveRequest, error) {
	viewer, err := s.Identities.Lookup(viewerID)
	if err != nil {
		return nil, err
	}
	items, err := leave.RequestsFor(viewer, s.Identities.Roster(), s.Requests.List(ctx))
	if err != nil {
		return nil, err
	}
	if status != "" {
		items = leave.FilterStatus(items, status)
	}
	return items, nil
}

// History is the viewer's own requests, newest application first.
func (s LeaveService) History(ctx context.Context, viewerID string) ([]domain.LeaveRequest, error) {
	viewer, err := s.Identities.Lookup(viewerID)
	if err != nil {
		return nil, err
	}
	own, err := leave.RequestsFor(domain.Identity{ID: viewer.ID, Role: domain.RoleEmployee}, nil, s.Requests.List(ctx))
	if err != nil {
		return nil, err
	}
	return leave.SortByAppliedDesc(own), nil
}

// Pending lists requests awaiting the viewer's decision in collection order.
func (s LeaveService) Pending(ctx context.Context, viewerID string) ([]domain.LeaveRequest, error) {
	return s.Visible(ctx, viewerID, domain.StatusPending)
}

// TeamHistory lists every request in the viewer's scope, newest first.
func (s LeaveService) TeamHistory(ctx context.Context, viewerID string) ([]domain.LeaveRequest, error) {
	items, err := s.Visible(ctx, viewerID, "")
	if err != nil {
		return nil, err
	}
	return leave.SortByAppliedDesc(items), nil
}

func (s LeaveService) Approve(ctx context.Context, reviewerID, requestID, comment string) (ReviewResult, error) {
	return s.review(ctx, reviewerID, requestID, domain.StatusApproved, comment)
}

func (s LeaveService) Reject(ctx context.Context, reviewerID, requestID, comment string) (ReviewResult, error) {
	return s.review(ctx, reviewerID, requestID, domain.StatusRejected, comment)
}

func (s LeaveService) review(ctx context.Context, reviewerID, requestID string, to domain.LeaveStatus, comment string) (ReviewResult, error) {
	reviewer, err := s.Identities.Lookup(reviewerID)
	if err != nil {
		return ReviewResult{}, err
	}
	req, err := s.Requests.Get(ctx, requestID)
	if err != nil {
		return ReviewResult{}, err
	}
	owner, err := s.Identities.Lookup(req.EmployeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return ReviewResult{}, err
	}
	if !leave.CanReview(reviewer, owner) {
		return ReviewResult{}, domain.ErrForbidden
	}
	next, err := leave.Transition(req, reviewer, to, comment, s.today())
	if err != nil {
		return ReviewResult{}, err
	}

	if err := simulateLatency(ctx, s.Latency); err != nil {
		return ReviewResult{}, err
	}

	stored := false
	if s.Writeback {
		next, err = s.Requests.Modify(ctx, requestID, func(cur domain.LeaveRequest) (domain.LeaveRequest, func(), error) {
			return s.decide(ctx, cur, reviewer, to, comment)
		})
		if err != nil {
			return ReviewResult{}, err
		}
		stored = true
	}
	s.Metrics.Reviews.WithLabelValues(strings.ToLower(string(to)), fmt.Sprint(stored)).Inc()
	s.Logger.Info("leave reviewed", "request_id", next.ID, "reviewer_id", reviewer.ID, "status", next.Status, "stored", stored)
	return ReviewResult{Request: next, Stored: stored}, nil
}

// decide runs while the request collection is locked. It re-checks the
// transition against the stored request and applies the balance deduction,
// returning an undo that restores the previous balance.
func (s LeaveService) decide(ctx context.Context, cur domain.LeaveRequest, reviewer domain.Identity, to domain.LeaveStatus, comment string) (domain.LeaveRequest, func(), error) {
	next, err := leave.Transition(cur, reviewer, to, comment, s.today())
	if err != nil {
		return cur, nil, err
	}
	if to != domain.StatusApproved {
		return next, nil, nil
	}
	prev, ok, err := s.Balance(ctx, cur.EmployeeID)
	if err != nil || !ok {
		return next, nil, err
	}
	deducted, err := leave.Deduct(prev, cur.LeaveType, cur.TotalDays)
	if err != nil {
		return cur, nil, err
	}
	if deducted == prev {
		return next, nil, nil
	}
	if err := s.Balances.Save(ctx, deducted); err != nil {
		return cur, nil, fmt.Errorf("store balance: %w", err)
	}
	undo := func() {
		if err := s.Balances.Save(context.WithoutCancel(ctx), prev); err != nil {
			s.Logger.Error("restore balance after failed review", "request_id", cur.ID, "employee_id", cur.EmployeeID, "err", err)
		}
	}
	return next, undo, nil
}
