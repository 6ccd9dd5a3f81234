package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "tredgate-loan-portal/internal/adapter/http"
	"tredgate-loan-portal/internal/adapter/storage/rediskv"
	"tredgate-loan-portal/internal/adapter/storage/sqlitekv"
	"tredgate-loan-portal/internal/config"
	"tredgate-loan-portal/internal/storage"
	auditUC "tredgate-loan-portal/internal/usecase/audit"
	loanUC "tredgate-loan-portal/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	var kv storage.Store
	switch cfg.StorageBackend {
	case config.BackendRedis:
		kv, err = rediskv.Open(cfg.RedisAddr, cfg.RedisDB)
	default:
		kv, err = sqlitekv.Open(cfg.SQLitePath)
	}
	if err != nil {
		logger.Fatal("open storage backend", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}

	auditLog := auditUC.NewLog(kv, logger)
	loanStore := loanUC.NewStore(kv, auditLog, logger)

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loanStore)
	ah := httpadp.NewAuditHandler(auditLog)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	e.GET("/health", h.Health)
	e.GET("/loans", lh.ListLoans)
	e.POST("/loans", lh.CreateLoan)
	e.POST("/loans/:id/approve", lh.ApproveLoan)
	e.POST("/loans/:id/reject", lh.RejectLoan)
	e.POST("/loans/:id/auto-decide", lh.AutoDecideLoan)
	e.DELETE("/loans/:id", lh.DeleteLoan)
	e.GET("/audit-log", ah.ListEntries)
	e.DELETE("/audit-log", ah.ClearEntries)

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr), zap.String("backend", cfg.StorageBackend))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
