// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

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
	"retailpos/internal/infrastructure/http/v1/handlers"
	"retailpos/internal/infrastructure/http/v1/middleware"
	"retailpos/internal/infrastructure/storage/postgres"
)

// RouterConfig wires the already-constructed services into the router.
// Everything is a singleton; the store runs one terminal against one
// database.
type RouterConfig struct {
	Pool          *postgres.Pool
	AllowedOrigin string

	Auth      *auth.Service
	Brands    *brand.Service
	Models    *model.Service
	Variants  *variant.Service
	Customers *customer.Service
	Suppliers *supplier.Service

	Sales     *sale.Service
	Purchases *purchase.Service
	Returns   *returns.Service

	Stock    *stockledger.Service
	Balances *balance.Service
	Shifts   *cashbox.Service

	ShiftPayments handlers.ShiftPayments

	Settings *settings.Service
	Backup   *backup.Service
	Reports  *reports.Service
}

// NewRouter creates and configures the gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Order matters: recovery outermost, then tracing so the logger and
	// error handler see request IDs.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(base, cfg.Auth)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.Me)

		registerCatalogRoutes(protected, base, cfg)
		registerDocumentRoutes(protected, base, cfg)
		registerRegisterRoutes(protected, base, cfg)
		registerAdminRoutes(protected, base, cfg, authHandler)
	}

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	RegisterCatalogRoutes(rg.Group("/brands"), handlers.NewBrandHandler(base, cfg.Brands))

	modelHandler := handlers.NewModelHandler(base, cfg.Models)
	RegisterCatalogRoutes(rg.Group("/models"), modelHandler)
	rg.GET("/models/by-brand/:id", modelHandler.ListByBrand)

	variantHandler := handlers.NewVariantHandler(base, cfg.Variants, cfg.Stock)
	variants := rg.Group("/variants")
	variants.GET("/search", variantHandler.Search)
	variants.GET("/by-model/:id", variantHandler.ListByModel)
	variants.GET("/:id/stock", variantHandler.GetStock)
	variants.GET("/:id/moves", variantHandler.StockHistory)
	RegisterCatalogRoutes(variants, variantHandler)

	statementHandler := handlers.NewStatementHandler(base, cfg.Balances)

	customers := rg.Group("/customers")
	RegisterCatalogRoutes(customers, handlers.NewCustomerHandler(base, cfg.Customers))
	customers.GET("/:id/statement", statementHandler.CustomerStatement)
	customers.GET("/:id/balance/verify", statementHandler.VerifyCustomer)
	customers.POST("/:id/payments", statementHandler.PayCustomer)

	suppliers := rg.Group("/suppliers")
	RegisterCatalogRoutes(suppliers, handlers.NewSupplierHandler(base, cfg.Suppliers))
	suppliers.GET("/:id/statement", statementHandler.SupplierStatement)
	suppliers.GET("/:id/balance/verify", statementHandler.VerifySupplier)
	suppliers.POST("/:id/payments", statementHandler.PaySupplier)
}

func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	saleHandler := handlers.NewSaleHandler(base, cfg.Sales)
	sales := rg.Group("/sales")
	sales.GET("", saleHandler.List)
	sales.POST("", saleHandler.Create)
	sales.GET("/by-number/:number", saleHandler.GetByNumber)
	sales.GET("/:id", saleHandler.Get)

	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.Purchases)
	purchases := rg.Group("/purchases")
	purchases.GET("", purchaseHandler.List)
	purchases.POST("", purchaseHandler.Create)
	purchases.GET("/:id", purchaseHandler.Get)

	returnsHandler := handlers.NewReturnsHandler(base, cfg.Returns)
	ret := rg.Group("/returns")
	ret.GET("", returnsHandler.List)
	ret.POST("", returnsHandler.Process)
	ret.GET("/:id", returnsHandler.Get)
}

func registerRegisterRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	shiftHandler := handlers.NewShiftHandler(base, cfg.Shifts, cfg.ShiftPayments)
	shifts := rg.Group("/shifts")
	shifts.GET("", shiftHandler.List)
	shifts.POST("/open", shiftHandler.Open)
	shifts.POST("/close", shiftHandler.Close)
	shifts.GET("/current", shiftHandler.Current)
	shifts.POST("/movements", shiftHandler.RecordMovement)
	shifts.GET("/:id", shiftHandler.Get)
	shifts.GET("/:id/movements", shiftHandler.Movements)

	stockHandler := handlers.NewStockHandler(base, cfg.Stock)
	stock := rg.Group("/stock")
	stock.POST("/adjustments", stockHandler.Adjust)
	stock.POST("/opening", stockHandler.Opening)

	reportsHandler := handlers.NewReportsHandler(base, cfg.Reports, cfg.Variants)
	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/sales-summary", reportsHandler.SalesSummary)
	reportsGroup.GET("/low-stock", reportsHandler.LowStock)
}

func registerAdminRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig, authHandler *handlers.AuthHandler) {
	settingsHandler := handlers.NewSettingsHandler(base, cfg.Settings)
	settingsGroup := rg.Group("/settings")
	settingsGroup.GET("", settingsHandler.GetAll)
	settingsGroup.GET("/:key", settingsHandler.Get)
	settingsGroup.PUT("", middleware.RequireAdmin(), settingsHandler.SetAll)
	settingsGroup.PUT("/:key", middleware.RequireAdmin(), settingsHandler.Set)

	users := rg.Group("/users")
	users.POST("/:id/password", authHandler.ChangePassword)
	users.Use(middleware.RequireAdmin())
	users.GET("", authHandler.ListUsers)
	users.POST("", authHandler.CreateUser)
	users.GET("/:id", authHandler.GetUser)
	users.POST("/:id/active", authHandler.SetActive)

	backupHandler := handlers.NewBackupHandler(base, cfg.Backup)
	backupGroup := rg.Group("/backup")
	backupGroup.Use(middleware.RequireAdmin())
	backupGroup.GET("/export", backupHandler.Export)
	backupGroup.POST("/import", backupHandler.Import)
}
