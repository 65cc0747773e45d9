package router

import (
	"github.com/bizdesk/backend/internal/infrastructure/auth"
	"github.com/bizdesk/backend/internal/infrastructure/cache"
	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/telemetry"
	"github.com/bizdesk/backend/internal/interfaces/http/handler"
	"github.com/bizdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	System         *handler.SystemHandler
	Auth           *handler.AuthHandler
	Clients        *handler.ClientHandler
	Products       *handler.ProductHandler
	Sales          *handler.SaleHandler
	Purchases      *handler.PurchaseHandler
	Warehouses     *handler.WarehouseHandler
	BankOperations *handler.BankOperationHandler
	Accounts       *handler.AccountHandler
	Settlements    *handler.SettlementHandler
	Stats          *handler.StatsHandler
	Exports        *handler.ExportHandler
}

// Dependencies are the infrastructure pieces the middleware chain needs
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	// APILimiter and AuthLimiter are used when the matching limit is enabled
	APILimiter  cache.RateLimiter
	AuthLimiter cache.RateLimiter
	Metrics     *telemetry.Metrics
	// TracerProvider enables otelgin spans when non-nil
	TracerProvider trace.TracerProvider
	Profiling      bool
}

// NewEngine builds the gin engine with the full middleware chain and every
// route of the API
func NewEngine(deps Dependencies, h Handlers) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// request id, recovery, tracing, access log, metrics, profiling,
	// security headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if deps.TracerProvider != nil {
		engine.Use(
			middleware.Tracing(cfg.Telemetry.ServiceName, deps.TracerProvider),
			middleware.SpanAttributes(),
			middleware.SpanErrorMarker(),
		)
	}
	engine.Use(logger.GinMiddleware(log))
	if deps.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(deps.Metrics))
	}
	if deps.Profiling {
		engine.Use(middleware.Profiling())
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.SecureWithConfig(security))

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled && deps.APILimiter != nil {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Name:    "api",
			Limiter: deps.APILimiter,
			Metrics: deps.Metrics,
			Logger:  log,
		}))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}

	// Public endpoints
	engine.GET("/health", h.System.Health)
	if cfg.Swagger.Enabled && !cfg.App.IsProduction() {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     deps.JWTService,
		TokenBlacklist: deps.TokenBlacklist,
		Logger:         log,
	})
	authLimit := func(c *gin.Context) { c.Next() }
	if cfg.HTTP.AuthRateLimitEnabled && deps.AuthLimiter != nil {
		authLimit = middleware.RateLimit(middleware.RateLimitConfig{
			Name:    "auth",
			Limiter: deps.AuthLimiter,
			Metrics: deps.Metrics,
			Logger:  log,
		})
	}

	r := NewRouter(engine)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.Info)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authLimit, h.Auth.Register)
	authRoutes.POST("/login", authLimit, h.Auth.Login)
	authRoutes.POST("/forgot-password", authLimit, h.Auth.ForgotPassword)
	authRoutes.POST("/reset-password", authLimit, h.Auth.ResetPassword)
	authRoutes.GET("/verify-email/:token", h.Auth.VerifyEmail)
	authRoutes.POST("/resend-verification", authLimit, h.Auth.ResendVerification)
	authRoutes.GET("/me", jwtAuth, h.Auth.Me)
	authRoutes.POST("/logout", jwtAuth, h.Auth.Logout)
	authRoutes.PUT("/password", jwtAuth, h.Auth.ChangePassword)

	r.Register(system, authRoutes)

	// Owner scoped resources
	partnerRoutes := NewDomainGroup("partner", "").Use(jwtAuth)
	clients := partnerRoutes.Group("clients", "/clients")
	clients.GET("", h.Clients.List).
		POST("", h.Clients.Create).
		GET("/:id", h.Clients.GetByID).
		PUT("/:id", h.Clients.Update).
		DELETE("/:id", h.Clients.Delete).
		POST("/:id/copy", h.Clients.Copy)
	warehouses := partnerRoutes.Group("warehouses", "/warehouses")
	warehouses.GET("", h.Warehouses.List).
		POST("", h.Warehouses.Create).
		GET("/:id", h.Warehouses.GetByID).
		PUT("/:id", h.Warehouses.Update).
		DELETE("/:id", h.Warehouses.Delete).
		GET("/:id/stock", h.Warehouses.Stock).
		PUT("/:id/stock/:productId", h.Warehouses.SetStock)

	catalogRoutes := NewDomainGroup("catalog", "/products").Use(jwtAuth)
	catalogRoutes.GET("", h.Products.List).
		POST("", h.Products.Create).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Delete)

	tradeRoutes := NewDomainGroup("trade", "").Use(jwtAuth)
	sales := tradeRoutes.Group("sales", "/sales")
	sales.GET("", h.Sales.List).
		POST("", h.Sales.Create).
		GET("/:id", h.Sales.GetByID).
		PUT("/:id", h.Sales.Update).
		PATCH("/:id/status", h.Sales.ChangeStatus).
		DELETE("/:id", h.Sales.Delete)
	purchases := tradeRoutes.Group("purchases", "/purchases")
	purchases.GET("", h.Purchases.List).
		POST("", h.Purchases.Create).
		GET("/:id", h.Purchases.GetByID).
		PUT("/:id", h.Purchases.Update).
		PATCH("/:id/status", h.Purchases.ChangeStatus).
		DELETE("/:id", h.Purchases.Delete)

	financeRoutes := NewDomainGroup("finance", "").Use(jwtAuth)
	bankOps := financeRoutes.Group("bank-operations", "/bank-operations")
	bankOps.GET("", h.BankOperations.List).
		POST("", h.BankOperations.Create).
		GET("/:id", h.BankOperations.GetByID).
		PUT("/:id", h.BankOperations.Update).
		DELETE("/:id", h.BankOperations.Delete)
	accounts := financeRoutes.Group("chart-of-accounts", "/chart-of-accounts")
	accounts.GET("", h.Accounts.List).
		POST("", h.Accounts.Create).
		GET("/:id", h.Accounts.GetByID).
		PUT("/:id", h.Accounts.Update).
		DELETE("/:id", h.Accounts.Delete)
	settlements := financeRoutes.Group("doc-settlements", "/doc-settlements")
	settlements.GET("", h.Settlements.List).
		POST("", h.Settlements.Create).
		GET("/:id", h.Settlements.GetByID).
		PUT("/:id", h.Settlements.Update).
		PATCH("/:id/status", h.Settlements.ChangeStatus).
		DELETE("/:id", h.Settlements.Delete)

	reportRoutes := NewDomainGroup("report", "/stats").Use(jwtAuth)
	reportRoutes.GET("/database-stats", h.Stats.DatabaseStats).
		GET("/sales-stats", h.Stats.SalesStats).
		GET("/purchase-stats", h.Stats.PurchaseStats).
		GET("/bank-stats", h.Stats.BankStats).
		GET("/warehouse-stats", h.Stats.WarehouseStats).
		GET("/top-clients", h.Stats.TopClients).
		GET("/financial-summary", h.Stats.FinancialSummary).
		GET("/documents-summary", h.Stats.DocumentsSummary).
		GET("/warehouse-detailed", h.Stats.WarehouseDetailed)

	exportRoutes := NewDomainGroup("export", "/exports").Use(jwtAuth)
	exportRoutes.GET("/:resource", h.Exports.Export)

	r.Register(partnerRoutes, catalogRoutes, tradeRoutes, financeRoutes, reportRoutes, exportRoutes)
	r.Setup()

	return engine
}
