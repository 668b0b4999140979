package handler

import (
	"net/http"

	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Service *service.DashboardService
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

func (h DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.Service.For(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := map[string]any{"role": d.Role}
	switch {
	case d.Admin != nil:
		resp["totalEmployees"] = d.Admin.TotalEmployees
		resp["totalManagers"] = d.Admin.TotalManagers
		resp["requests"] = toCounts(d.Admin.Requests)
	case d.Manager != nil:
		team := make([]map[string]any, 0, len(d.Manager.Team))
		for _, m := range d.Manager.Team {
			team = append(team, map[string]any{
				"member":       m.Identity,
				"requestCount": m.RequestCount,
				"latest":       m.Latest,
			})
		}
		resp["teamSize"] = d.Manager.TeamSize
		resp["requests"] = toCounts(d.Manager.Requests)
		resp["pending"] = nonNil(d.Manager.Pending)
		resp["team"] = team
	case d.Employee != nil:
		resp["balance"] = d.Employee.Balance
		resp["breakdown"] = toBreakdown(d.Employee.Breakdown)
		resp["requests"] = toCounts(d.Employee.Requests)
		resp["recent"] = nonNil(d.Employee.Recent)
	}
	writeJSON(w, http.StatusOK, resp)
}

func nonNil(items []domain.LeaveRequest) []domain.LeaveRequest {
	if items == nil {
		return []domain.LeaveRequest{}
	}
	return items
}
