package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/signup", h.signup)
	r.Post("/auth/refresh", h.refresh)
}

func (h AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/session", h.session)
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Login(r.Context(), service.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, http.StatusOK, res)
}

func (h AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Signup(r.Context(), service.SignupInput{
		Email:           strings.TrimSpace(req.Email),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, http.StatusCreated, res)
}

func (h AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Refresh(r.Context(), service.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeAuthResponse(w, http.StatusOK, res)
}

func (h AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// session reports the persisted signed-in identity, which may differ from the
// token holder when another client signed in since.
func (h AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	current, signedIn := h.Service.Current()
	var payload *domain.Identity
	if signedIn {
		payload = &current
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"signedIn": signedIn,
		"current":  payload,
		"isSelf":   signedIn && current.ID == user.ID,
	})
}

func writeAuthResponse(w http.ResponseWriter, status int, res *service.AuthResult) {
	writeJSON(w, status, map[string]any{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
		"expiresAt":    res.ExpiresAt.UTC().Format(time.RFC3339),
		"user":         res.User,
	})
}
