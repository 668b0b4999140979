package handler

import (
	"net/http"

	"leavedesk-backend/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Roster lists identities without credentials.
type Roster interface {
	Roster() []domain.Identity
}

type AdminHandler struct {
	Identities Roster
}

func (h AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/identities", h.listIdentities)
}

func (h AdminHandler) listIdentities(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	items := h.Identities.Roster()
	resp := make([]domain.Identity, 0, len(items))
	for _, u := range items {
		if role != "" && u.Role != role {
			continue
		}
		resp = append(resp, u)
	}
	writeJSON(w, http.StatusOK, resp)
}
