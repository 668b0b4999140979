package leave

import (
	"fmt"
	"sort"
	"strings"

	"leavedesk-backend/internal/domain"
)

// RequestsFor scopes requests to what viewer may see: their own as an
// Employee, their reports' as a Manager, everything as an Admin.
func RequestsFor(viewer domain.Identity, roster []domain.Identity, requests []domain.LeaveRequest) ([]domain.LeaveRequest, error) {
	switch viewer.Role {
	case domain.RoleEmployee:
		return filter(requests, func(r domain.LeaveRequest) bool { return r.EmployeeID == viewer.ID }), nil
	case domain.RoleManager:
		team := Subordinates(viewer.ID, roster)
		ids := make(map[string]struct{}, len(team))
		for _, t := range team {
			ids[t.ID] = struct{}{}
		}
		return filter(requests, func(r domain.LeaveRequest) bool {
			_, ok := ids[r.EmployeeID]
			return ok
		}), nil
	case domain.RoleAdmin:
		out := make([]domain.LeaveRequest, len(requests))
		copy(out, requests)
		return out, nil
	default:
		return nil, fmt.Errorf("unknown role %q", viewer.Role)
	}
}

// Subordinates returns the identities managed by managerID in roster order.
func Subordinates(managerID string, roster []domain.Identity) []domain.Identity {
	var out []domain.Identity
	for _, u := range roster {
		if managerID != "" && u.ManagerID == managerID {
			out = append(out, u)
		}
	}
	return out
}

// CanReview reports whether reviewer may decide on a request owned by owner.
func CanReview(reviewer, owner domain.Identity) bool {
	switch reviewer.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleManager:
		return owner.ManagerID != "" && owner.ManagerID == reviewer.ID
	default:
		return false
	}
}

// FilterStatus keeps the requests in status, preserving order.
func FilterStatus(requests []domain.LeaveRequest, status domain.LeaveStatus) []domain.LeaveRequest {
	return filter(requests, func(r domain.LeaveRequest) bool { return r.Status == status })
}

// SortByAppliedDesc returns a copy ordered most recent application first.
// Requests applied on the same day keep their relative order.
func SortByAppliedDesc(requests []domain.LeaveRequest) []domain.LeaveRequest {
	out := make([]domain.LeaveRequest, len(requests))
	copy(out, requests)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppliedDate.After(out[j].AppliedDate.Time)
	})
	return out
}

// Summarize counts requests by status. Total includes every request.
func Summarize(requests []domain.LeaveRequest) domain.RequestCounts {
	c := domain.RequestCounts{Total: len(requests)}
	for _, r := range requests {
		switch r.Status {
		case domain.StatusPending:
			c.Pending++
		case domain.StatusApproved:
			c.Approved++
		case domain.StatusRejected:
			c.Rejected++
		}
	}
	return c
}

// Transition moves a Pending request to Approved or Rejected. A rejection
// needs a non-blank comment; approval comments are optional.
func Transition(req domain.LeaveRequest, reviewer domain.Identity, to domain.LeaveStatus, comment string, on domain.Date) (domain.LeaveRequest, error) {
	if !to.Terminal() {
		return req, fmt.Errorf("cannot transition to %q", to)
	}
	comment = strings.TrimSpace(comment)
	if to == domain.StatusRejected && comment == "" {
		return req, domain.ErrMissingRejectionReason
	}
	if req.Status != domain.StatusPending {
		return req, domain.ErrNotPending
	}
	req.Status = to
	req.ReviewedBy = reviewer.ID
	req.ReviewedDate = on
	req.Comments = comment
	return req, nil
}

func filter(requests []domain.LeaveRequest, keep func(domain.LeaveRequest) bool) []domain.LeaveRequest {
	out := make([]domain.LeaveRequest, 0, len(requests))
	for _, r := range requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
