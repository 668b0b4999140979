package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/leave"
	"leavedesk-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler struct {
	Service *service.LeaveService
}

// RegisterRoutes mounts routes open to every signed-in role.
func (h LeaveHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leave/balance", h.balance)
	r.Get("/leave/quote", h.quote)
	r.Post("/leave/requests", h.apply)
	r.Get("/leave/requests", h.list)
	r.Get("/leave/history", h.history)
	r.Get("/leave/history/export", h.exportHistory)
}

// RegisterReviewRoutes mounts routes for reviewers only.
func (h LeaveHandler) RegisterReviewRoutes(r chi.Router) {
	r.Get("/leave/pending", h.pending)
	r.Get("/leave/team/history", h.teamHistory)
	r.Post("/leave/requests/{id}/approve", h.approve)
	r.Post("/leave/requests/{id}/reject", h.reject)
}

func (h LeaveHandler) balance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	b, found, err := h.Service.Balance(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var bp *domain.LeaveBalance
	if found {
		bp = &b
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":   bp,
		"breakdown": toBreakdown(leave.Breakdown(bp)),
	})
}

func (h LeaveHandler) quote(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	res, err := h.Service.Quote(r.Context(), user.ID, service.QuoteInput{
		LeaveType: q.Get("leaveType"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leaveType": res.Category,
		"days":      res.Days,
		"available": res.Available,
		"exceeds":   res.Exceeds,
	})
}

func (h LeaveHandler) apply(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		LeaveType string `json:"leaveType"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	created, err := h.Service.Apply(r.Context(), user.ID, service.ApplyInput{
		LeaveType: req.LeaveType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h LeaveHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	status := domain.LeaveStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.StatusPending, domain.StatusApproved, domain.StatusRejected:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	items, err := h.Service.Visible(r.Context(), user.ID, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h LeaveHandler) history(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	rng, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	items, err := h.Service.History(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rng.apply(items))
}

func (h LeaveHandler) pending(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := h.Service.Pending(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h LeaveHandler) teamHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	rng, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	items, err := h.Service.TeamHistory(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rng.apply(items))
}

func (h LeaveHandler) approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.Approve)
}

func (h LeaveHandler) reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.Reject)
}

type reviewFunc func(ctx context.Context, reviewerID, requestID, comment string) (service.ReviewResult, error)

func (h LeaveHandler) review(w http.ResponseWriter, r *http.Request, do reviewFunc) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Comments string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := do(r.Context(), user.ID, chi.URLParam(r, "id"), req.Comments)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"request": res.Request,
		"stored":  res.Stored,
	})
}

func toBreakdown(rows []domain.CategoryBalance) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"type":      row.Type,
			"remaining": row.Remaining,
			"total":     row.Total,
		})
	}
	return out
}

func toCounts(c domain.RequestCounts) map[string]int {
	return map[string]int{
		"total":    c.Total,
		"pending":  c.Pending,
		"approved": c.Approved,
		"rejected": c.Rejected,
	}
}
