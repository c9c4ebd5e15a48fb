// Package main provides a CLI tool for seeding the database with
// initial data: default settings, the first admin account and an
// optional set of demo catalog records with opening stock.
package main

import (
	"context"
	"fmt"
	"os"

	"retailpos/internal/config"
	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
	"retailpos/internal/domain/auth"
	"retailpos/internal/domain/catalogs/brand"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/model"
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/internal/domain/settings"
	"retailpos/internal/infrastructure/storage/postgres"
	"retailpos/internal/infrastructure/storage/postgres/catalog_repo"
	"retailpos/internal/infrastructure/storage/postgres/register_repo"
	"retailpos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFromApp(&cfg))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	settingsService := settings.NewService(catalog_repo.NewSettingsRepo(txManager), txManager)
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		log.Fatalw("failed to seed default settings", "error", err)
	}
	log.Info("default settings in place")

	authService := auth.NewService(
		catalog_repo.NewUserRepo(txManager),
		txManager,
		auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret)),
	)
	if err := seedAdminUser(ctx, authService, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, authService *auth.Service, log *logger.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	u, err := authService.CreateUser(ctx, auth.CreateUserInput{
		Username: username,
		Password: password,
		FullName: "Store Administrator",
		Role:     "admin",
	})
	if apperror.IsCode(err, apperror.CodeDuplicate) {
		log.Infow("admin user already exists", "username", username)
		return nil
	}
	if err != nil {
		return err
	}

	log.Infow("admin user created", "user_id", u.ID, "username", u.Username)
	return nil
}

// seedDemoData creates a small phone-store catalog with opening stock
// so a fresh install has something to sell.
func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	brandRepo := catalog_repo.NewBrandRepo(txManager)
	modelRepo := catalog_repo.NewModelRepo(txManager)
	variantRepo := catalog_repo.NewVariantRepo(txManager)

	stockRepo := register_repo.NewStockMoveRepo(txManager)
	stockService := stockledger.NewService(stockRepo)

	brands := brand.NewService(brandRepo, txManager)
	models := model.NewService(modelRepo, brandRepo, txManager)
	variants := variant.NewService(variantRepo, modelRepo, stockService, nil, txManager)
	customers := customer.NewService(catalog_repo.NewCustomerRepo(txManager), txManager)
	suppliers := supplier.NewService(catalog_repo.NewSupplierRepo(txManager), txManager)

	b := brand.New("Samsung")
	b.Country = "South Korea"
	if err := brands.Create(ctx, b); err != nil {
		return fmt.Errorf("create brand: %w", err)
	}

	m := model.New(b.ID, "Galaxy A15")
	m.Category = "smartphone"
	if err := models.Create(ctx, m); err != nil {
		return fmt.Errorf("create model: %w", err)
	}

	demo := []struct {
		color string
		sku   string
		price string
		cost  string
		qty   int64
	}{
		{"Black", "SAM-A15-BLK-128", "165.00", "130.00", 10},
		{"Blue", "SAM-A15-BLU-128", "165.00", "130.00", 6},
	}
	for _, d := range demo {
		v := variant.New(m.ID, d.sku)
		v.Color = d.color
		v.SalePrice = types.MustMoney(d.price)
		v.CostPrice = types.MustMoney(d.cost)
		if err := variants.Create(ctx, v); err != nil {
			return fmt.Errorf("create variant %s: %w", d.sku, err)
		}
		if _, err := stockService.PostOpening(ctx, v.ID, d.qty, v.CostPrice); err != nil {
			return fmt.Errorf("opening stock %s: %w", d.sku, err)
		}
	}

	c := customer.New("Walk-in Customer")
	if err := customers.Create(ctx, c); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	s := supplier.New("City Wholesale")
	s.Phone = "+20-100-000-0000"
	if err := suppliers.Create(ctx, s); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	log.Infow("demo data created",
		"brand", b.Name, "model", m.Name, "variants", len(demo))
	return nil
}
