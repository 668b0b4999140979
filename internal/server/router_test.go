package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedesk-backend/internal/config"
	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/handler"
	"leavedesk-backend/internal/metrics"
	"leavedesk-backend/internal/repository"
	"leavedesk-backend/internal/service"
	"leavedesk-backend/internal/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	cfg := config.Config{
		JWTSecret:       testSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
		CORSOrigins:     []string{"*"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := db.NewMemory()
	m := metrics.Nop()

	store, err := session.Open(ctx, kv, repository.SeedIdentities())
	require.NoError(t, err)
	requests, err := repository.NewLeaveRepository(ctx, kv, repository.SeedLeaveRequests())
	require.NoError(t, err)
	balances, err := repository.NewBalanceRepository(ctx, kv, repository.SeedLeaveBalances())
	require.NoError(t, err)

	authSvc := service.AuthService{Config: cfg, Session: store, Logger: logger, Metrics: m}
	leaveSvc := service.LeaveService{Requests: requests, Balances: balances, Identities: store, Logger: logger, Metrics: m}
	dash := service.DashboardService{Leave: leaveSvc}

	return NewRouter(cfg, logger, Handlers{
		Health:    handler.HealthHandler{Store: kv},
		Docs:      handler.DocsHandler{OpenAPIPath: "../../api/openapi.yaml"},
		Auth:      handler.AuthHandler{Service: &authSvc},
		Dashboard: handler.DashboardHandler{Service: &dash},
		Leave:     handler.LeaveHandler{Service: &leaveSvc},
		Admin:     handler.AdminHandler{Identities: store},
	})
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data.Token
}

func get(router http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterRoleGates(t *testing.T) {
	router := newTestRouter(t)
	admin := login(t, router, "admin@company.com", "admin123")
	manager := login(t, router, "john.manager@company.com", "manager123")
	employee := login(t, router, "sarah.employee@company.com", "employee123")

	tests := []struct {
		path  string
		token string
		want  int
	}{
		{"/dashboard", "", http.StatusUnauthorized},
		{"/dashboard", employee, http.StatusOK},
		{"/leave/pending", employee, http.StatusForbidden},
		{"/leave/pending", manager, http.StatusOK},
		{"/leave/team/history", admin, http.StatusOK},
		{"/admin/identities", manager, http.StatusForbidden},
		{"/admin/identities", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, get(router, tt.path, tt.token).Code)
		})
	}
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := get(router, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	rec = get(router, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(router, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = get(router, "/docs", "")
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}
