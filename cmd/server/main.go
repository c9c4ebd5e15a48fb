// Package main is the retailpos API server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailpos/internal/config"
	"retailpos/internal/domain/auth"
	"retailpos/internal/domain/backup"
	"retailpos/internal/domain/cashbox"
	"retailpos/internal/domain/catalogs/brand"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/model"
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/documents/purchase"
	"retailpos/internal/domain/documents/returns"
	"retailpos/internal/domain/documents/sale"
	"retailpos/internal/domain/registers/balance"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/internal/domain/reports"
	"retailpos/internal/domain/settings"
	"retailpos/internal/infrastructure/cache"
	v1 "retailpos/internal/infrastructure/http/v1"
	"retailpos/internal/infrastructure/storage/postgres"
	"retailpos/internal/infrastructure/storage/postgres/catalog_repo"
	"retailpos/internal/infrastructure/storage/postgres/document_repo"
	"retailpos/internal/infrastructure/storage/postgres/register_repo"
	"retailpos/internal/infrastructure/storage/postgres/report_repo"
	"retailpos/pkg/logger"
	"retailpos/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	// --- Storage ---
	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFromApp(&cfg))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	numbers := numerator.New(txManager.NumeratorProvider())

	// --- Repositories ---
	brandRepo := catalog_repo.NewBrandRepo(txManager)
	modelRepo := catalog_repo.NewModelRepo(txManager)
	variantRepo := catalog_repo.NewVariantRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	userRepo := catalog_repo.NewUserRepo(txManager)
	settingsRepo := catalog_repo.NewSettingsRepo(txManager)

	saleRepo := document_repo.NewSaleRepo(txManager)
	purchaseRepo := document_repo.NewPurchaseRepo(txManager)
	returnRepo := document_repo.NewReturnRepo(txManager)
	shiftRepo := document_repo.NewShiftRepo(txManager)

	stockRepo := register_repo.NewStockMoveRepo(txManager)
	paymentRepo := register_repo.NewPaymentRepo(txManager)
	balanceRepo := register_repo.NewBalanceRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)
	backupStore := postgres.NewBackupStore(txManager)

	// --- Optional search cache ---
	var searchCache variant.SearchCache
	if cfg.RedisEnabled() {
		rc, err := cache.NewSearchCache(ctx, &cfg)
		if err != nil {
			log.Warnw("redis unavailable, variant search runs uncached", "error", err)
		} else {
			defer rc.Close()
			searchCache = rc
			log.Infow("search cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.SearchTTL)
		}
	}

	// --- Services ---
	jwtCfg := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtCfg.TokenTTL = cfg.TokenTTL
	authService := auth.NewService(userRepo, txManager, auth.NewJWTService(jwtCfg))

	settingsService := settings.NewService(settingsRepo, txManager)
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		log.Fatalw("failed to ensure default settings", "error", err)
	}

	stockService := stockledger.NewService(stockRepo)
	if searchCache != nil {
		stockService.SetCacheInvalidator(searchCache)
	}

	brandService := brand.NewService(brandRepo, txManager)
	modelService := model.NewService(modelRepo, brandRepo, txManager)
	variantService := variant.NewService(variantRepo, modelRepo, stockService, searchCache, txManager)
	customerService := customer.NewService(customerRepo, txManager)
	supplierService := supplier.NewService(supplierRepo, txManager)

	cashboxService := cashbox.NewService(shiftRepo, paymentRepo, txManager)

	saleService := sale.NewService(
		saleRepo, variantRepo, customerRepo,
		stockService, paymentRepo, cashboxService, settingsService,
		numbers, txManager,
	)
	purchaseService := purchase.NewService(
		purchaseRepo, variantRepo, supplierRepo,
		stockService, numbers, txManager,
	)
	returnsService := returns.NewService(
		returnRepo, saleRepo, variantRepo, customerRepo,
		stockService, paymentRepo, cashboxService,
		numbers, txManager,
	)

	balanceService := balance.NewService(
		balanceRepo, paymentRepo, customerRepo, supplierRepo,
		cashboxService, txManager,
	)
	reportsService := reports.NewService(reportRepo)
	backupService := backup.NewService(backupStore, txManager)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		AllowedOrigin: cfg.AllowedOrigin,

		Auth:      authService,
		Brands:    brandService,
		Models:    modelService,
		Variants:  variantService,
		Customers: customerService,
		Suppliers: supplierService,

		Sales:     saleService,
		Purchases: purchaseService,
		Returns:   returnsService,

		Stock:    stockService,
		Balances: balanceService,
		Shifts:   cashboxService,

		ShiftPayments: paymentRepo,

		Settings: settingsService,
		Backup:   backupService,
		Reports:  reportsService,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
