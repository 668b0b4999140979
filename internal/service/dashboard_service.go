package service

import (
	"context"
	"fmt"

	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/leave"
)

const recentLimit = 5

// Dashboard carries exactly one role-specific view.
type Dashboard struct {
	Role     domain.Role
	Admin    *AdminDashboard
	Manager  *ManagerDashboard
	Employee *EmployeeDashboard
}

type AdminDashboard struct {
	TotalEmployees int
	TotalManagers  int
	Requests       domain.RequestCounts
}

type ManagerDashboard struct {
	TeamSize int
	Requests domain.RequestCounts
	Pending  []domain.LeaveRequest
	Team     []TeamMember
}

type TeamMember struct {
	Identity     domain.Identity
	RequestCount int
	Latest       *domain.LeaveRequest
}

type EmployeeDashboard struct {
	Balance   *domain.LeaveBalance
	Breakdown []domain.CategoryBalance
	Requests  domain.RequestCounts
	Recent    []domain.LeaveRequest
}

type DashboardService struct {
	Leave LeaveService
}

func (s DashboardService) For(ctx context.Context, viewerID string) (Dashboard, error) {
	viewer, err := s.Leave.Identities.Lookup(viewerID)
	if err != nil {
		return Dashboard{}, err
	}
	switch viewer.Role {
	case domain.RoleAdmin:
		d, err := s.admin(ctx)
		return Dashboard{Role: viewer.Role, Admin: d}, err
	case domain.RoleManager:
		d, err := s.manager(ctx, viewer)
		return Dashboard{Role: viewer.Role, Manager: d}, err
	case domain.RoleEmployee:
		d, err := s.employee(ctx, viewer)
		return Dashboard{Role: viewer.Role, Employee: d}, err
	default:
		return Dashboard{}, fmt.Errorf("unknown role %q", viewer.Role)
	}
}

func (s DashboardService) admin(ctx context.Context) (*AdminDashboard, error) {
	d := &AdminDashboard{}
	for _, u := range s.Leave.Identities.Roster() {
		switch u.Role {
		case domain.RoleEmployee:
			d.TotalEmployees++
		case domain.RoleManager:
			d.TotalManagers++
		}
	}
	d.Requests = leave.Summarize(s.Leave.Requests.List(ctx))
	return d, nil
}

func (s DashboardService) manager(ctx context.Context, viewer domain.Identity) (*ManagerDashboard, error) {
	roster := s.Leave.Identities.Roster()
	scoped, err := leave.RequestsFor(viewer, roster, s.Leave.Requests.List(ctx))
	if err != nil {
		return nil, err
	}
	d := &ManagerDashboard{
		Requests: leave.Summarize(scoped),
		Pending:  leave.FilterStatus(scoped, domain.StatusPending),
	}
	for _, sub := range leave.Subordinates(viewer.ID, roster) {
		var own []domain.LeaveRequest
		for _, req := range scoped {
			if req.EmployeeID == sub.ID {
				own = append(own, req)
			}
		}
		m := TeamMember{Identity: sub, RequestCount: len(own)}
		if sorted := leave.SortByAppliedDesc(own); len(sorted) > 0 {
			latest := sorted[0]
			m.Latest = &latest
		}
		d.Team = append(d.Team, m)
	}
	d.TeamSize = len(d.Team)
	return d, nil
}

func (s DashboardService) employee(ctx context.Context, viewer domain.Identity) (*EmployeeDashboard, error) {
	b, err := s.Leave.balancePtr(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.Leave.History(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	recent := history
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return &EmployeeDashboard{
		Balance:   b,
		Breakdown: leave.Breakdown(b),
		Requests:  leave.Summarize(history),
		Recent:    recent,
	}, nil
}
