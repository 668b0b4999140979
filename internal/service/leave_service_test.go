package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedesk-backend/internal/domain"
)

func ids(items []domain.LeaveRequest) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestApplyStoresPendingRequest(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	req, err := f.leave.Apply(ctx, "3", ApplyInput{LeaveType: "Casual", StartDate: "2024-07-02", EndDate: "2024-07-11", Reason: " Trip "})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, 10, req.TotalDays)
	assert.Equal(t, "Trip", req.Reason)
	assert.Equal(t, "Sarah Employee", req.EmployeeName)
	assert.Equal(t, "2024-07-01", req.AppliedDate.String())

	stored, err := f.leave.Requests.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req, stored)
}

func TestApplyRejectsOverBalance(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.leave.Apply(ctx, "3", ApplyInput{LeaveType: "Casual", StartDate: "2024-07-02", EndDate: "2024-07-12", Reason: "Trip"})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "10")
	assert.Len(t, f.leave.Requests.List(ctx), 5)
}

func TestApplyValidation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ApplyInput
		want error
	}{
		{"unknown category", ApplyInput{LeaveType: "Sabbatical", StartDate: "2024-07-02", EndDate: "2024-07-02", Reason: "x"}, domain.ErrInvalidCategory},
		{"bad start", ApplyInput{LeaveType: "Sick", StartDate: "02/07/2024", EndDate: "2024-07-02", Reason: "x"}, domain.ErrValidation},
		{"missing reason", ApplyInput{LeaveType: "Sick", StartDate: "2024-07-02", EndDate: "2024-07-02", Reason: "  "}, domain.ErrValidation},
		{"start in past", ApplyInput{LeaveType: "Sick", StartDate: "2024-06-30", EndDate: "2024-07-02", Reason: "x"}, domain.ErrStartInPast},
		{"end before start", ApplyInput{LeaveType: "Sick", StartDate: "2024-07-05", EndDate: "2024-07-02", Reason: "x"}, domain.ErrInvalidDateRange},
		{"untracked category", ApplyInput{LeaveType: "Emergency", StartDate: "2024-07-02", EndDate: "2024-07-02", Reason: "x"}, domain.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.leave.Apply(ctx, "3", tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, f.leave.Requests.List(ctx), 5)
}

func TestQuote(t *testing.T) {
	f := newFixture(t, false)

	q, err := f.leave.Quote(context.Background(), "3", QuoteInput{LeaveType: "Annual", StartDate: "2024-08-01", EndDate: "2024-08-20"})
	require.NoError(t, err)
	assert.Equal(t, 20, q.Days)
	assert.Equal(t, 15, q.Available)
	assert.True(t, q.Exceeds)

	q, err = f.leave.Quote(context.Background(), "3", QuoteInput{LeaveType: "Annual"})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Days)
}

func TestRequestScopes(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	own, err := f.leave.Visible(ctx, "3", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(own))

	pending, err := f.leave.Pending(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5"}, ids(pending))

	team, err := f.leave.TeamHistory(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "1", "3", "2", "4"}, ids(team))

	history, err := f.leave.History(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "2"}, ids(history))

	approved, err := f.leave.Visible(ctx, "1", domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(approved))
}

func TestApproveWithoutWriteback(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	res, err := f.leave.Approve(ctx, "2", "1", "Enjoy")
	require.NoError(t, err)
	assert.False(t, res.Stored)
	assert.Equal(t, domain.StatusApproved, res.Request.Status)
	assert.Equal(t, "2", res.Request.ReviewedBy)
	assert.Equal(t, "Enjoy", res.Request.Comments)

	stored, err := f.leave.Requests.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)

	b, err := f.leave.Balances.ForEmployee(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 15, b.AnnualLeavesRemaining)
}

func TestApproveWithWriteback(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	res, err := f.leave.Approve(ctx, "2", "1", "")
	require.NoError(t, err)
	assert.True(t, res.Stored)

	stored, err := f.leave.Requests.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Equal(t, "2024-07-01", stored.ReviewedDate.String())

	b, err := f.leave.Balances.ForEmployee(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 9, b.AnnualLeavesRemaining)

	_, err = f.leave.Approve(ctx, "2", "1", "")
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.leave.Reject(ctx, "2", "5", "   ")
	assert.ErrorIs(t, err, domain.ErrMissingRejectionReason)

	res, err := f.leave.Reject(ctx, "2", "5", "Deadline")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, res.Request.Status)

	b, err := f.leave.Balances.ForEmployee(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, 10, b.AnnualLeavesRemaining)
}

func TestReviewAuthorization(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.leave.Approve(ctx, "3", "5", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.leave.Approve(ctx, "2", "missing", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.leave.Approve(ctx, "1", "5", "")
	assert.NoError(t, err)
}
