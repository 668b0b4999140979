package handler

import (
	"net/http"

	"leavedesk-backend/internal/domain"
)

// dateRange is an optional inclusive filter on a request's start date.
type dateRange struct {
	From *domain.Date
	To   *domain.Date
}

func parseDateQuery(r *http.Request, key string) (*domain.Date, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateRange reads startDate and endDate. It writes the error response
// itself and reports false on bad input.
func parseDateRange(w http.ResponseWriter, r *http.Request) (dateRange, bool) {
	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return dateRange{}, false
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return dateRange{}, false
	}
	if from != nil && to != nil && from.After(to.Time) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return dateRange{}, false
	}
	return dateRange{From: from, To: to}, true
}

func (d dateRange) apply(items []domain.LeaveRequest) []domain.LeaveRequest {
	if d.From == nil && d.To == nil {
		return items
	}
	out := make([]domain.LeaveRequest, 0, len(items))
	for _, it := range items {
		if d.From != nil && it.StartDate.Before(d.From.Time) {
			continue
		}
		if d.To != nil && it.StartDate.After(d.To.Time) {
			continue
		}
		out = append(out, it)
	}
	return out
}
