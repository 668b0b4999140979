package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"leavedesk-backend/internal/config"
	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/handler"
	"leavedesk-backend/internal/metrics"
	"leavedesk-backend/internal/repository"
	"leavedesk-backend/internal/server"
	"leavedesk-backend/internal/service"
	"leavedesk-backend/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// state
	sessions, err := session.Open(ctx, store, repository.SeedIdentities())
	if err != nil {
		logger.Error("failed to load session", "err", err)
		os.Exit(1)
	}
	unsubscribe := sessions.Subscribe(func(e session.Event) {
		if e.Current != nil {
			logger.Debug("session changed", "kind", e.Kind, "user_id", e.Current.ID)
			return
		}
		logger.Debug("session changed", "kind", e.Kind)
	})
	defer unsubscribe()

	leaveRepo, err := repository.NewLeaveRepository(ctx, store, repository.SeedLeaveRequests())
	if err != nil {
		logger.Error("failed to load leave requests", "err", err)
		os.Exit(1)
	}
	balanceRepo, err := repository.NewBalanceRepository(ctx, store, repository.SeedLeaveBalances())
	if err != nil {
		logger.Error("failed to load leave balances", "err", err)
		os.Exit(1)
	}

	// services
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	authSvc := service.AuthService{Config: cfg, Session: sessions, Logger: logger, Metrics: m}
	leaveSvc := service.LeaveService{
		Requests:   leaveRepo,
		Balances:   balanceRepo,
		Identities: sessions,
		Logger:     logger,
		Metrics:    m,
		Latency:    cfg.SimulatedLatency,
		Writeback:  cfg.ApprovalWriteback,
	}
	dashboardSvc := service.DashboardService{Leave: leaveSvc}

	// handlers
	router := server.NewRouter(cfg, logger, server.Handlers{
		Health:    handler.HealthHandler{Store: store},
		Docs:      handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath},
		Auth:      handler.AuthHandler{Service: &authSvc},
		Dashboard: handler.DashboardHandler{Service: &dashboardSvc},
		Leave:     handler.LeaveHandler{Service: &leaveSvc},
		Admin:     handler.AdminHandler{Identities: sessions},
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	logger.Info("leave desk ready", "writeback", cfg.ApprovalWriteback, "latency", cfg.SimulatedLatency)
	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
