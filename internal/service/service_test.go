package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leavedesk-backend/internal/config"
	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/metrics"
	"leavedesk-backend/internal/ports"
	"leavedesk-backend/internal/repository"
	"leavedesk-backend/internal/session"
)

type fixture struct {
	kv        ports.KVStore
	session   *session.Store
	auth      AuthService
	leave     LeaveService
	dashboard DashboardService
}

var fixedNow = time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, writeback bool) fixture {
	t.Helper()
	return newFixtureOn(t, db.NewMemory(), writeback)
}

func newFixtureOn(t *testing.T, kv ports.KVStore, writeback bool) fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.Nop()

	store, err := session.Open(ctx, kv, repository.SeedIdentities(), session.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	requests, err := repository.NewLeaveRepository(ctx, kv, repository.SeedLeaveRequests())
	require.NoError(t, err)
	balances, err := repository.NewBalanceRepository(ctx, kv, repository.SeedLeaveBalances())
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
	ls := LeaveService{
		Requests:   requests,
		Balances:   balances,
		Identities: store,
		Logger:     logger,
		Metrics:    m,
		Writeback:  writeback,
		Now:        func() time.Time { return fixedNow },
	}
	return fixture{
		kv:        kv,
		session:   store,
		auth:      AuthService{Config: cfg, Session: store, Logger: logger, Metrics: m},
		leave:     ls,
		dashboard: DashboardService{Leave: ls},
	}
}
