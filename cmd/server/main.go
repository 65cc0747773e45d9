package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bizdesk/backend/internal/application/catalog"
	exportapp "github.com/bizdesk/backend/internal/application/export"
	financeapp "github.com/bizdesk/backend/internal/application/finance"
	identityapp "github.com/bizdesk/backend/internal/application/identity"
	partnerapp "github.com/bizdesk/backend/internal/application/partner"
	reportapp "github.com/bizdesk/backend/internal/application/report"
	tradeapp "github.com/bizdesk/backend/internal/application/trade"
	"github.com/bizdesk/backend/internal/infrastructure/auth"
	"github.com/bizdesk/backend/internal/infrastructure/cache"
	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/mail"
	"github.com/bizdesk/backend/internal/infrastructure/migration"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/bizdesk/backend/internal/infrastructure/storage"
	"github.com/bizdesk/backend/internal/infrastructure/telemetry"
	"github.com/bizdesk/backend/internal/interfaces/http/handler"
	"github.com/bizdesk/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/bizdesk/backend/docs"
)

//	@title			BizDesk API
//	@version		1.0
//	@description	Back-office API for small businesses: partners, catalog, trade documents, banking and reports.

//	@contact.name	API Support
//	@contact.url	https://github.com/bizdesk/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.ForEnvironment(cfg.App.Env, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	log := logger.New(logCfg)

	ctx := context.Background()
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs != nil {
		// Tee application logs into the OTLP log pipeline
		log = logger.New(logCfg, providers.ZapCore())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	db, err := persistence.NewDatabase(cfg.Database, persistence.WithLogger(
		logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowThreshold),
	))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if cfg.Telemetry.DBTraceEnabled && providers.TracingEnabled() {
		if err := telemetry.InstrumentGorm(db.DB, cfg.Database.DBName, providers.Traces); err != nil {
			log.Warn("Failed to instrument database", zap.Error(err))
		}
	}

	if err := migrateSchema(cfg.Database, db, log); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var (
		blacklist   auth.TokenBlacklist
		apiLimiter  cache.RateLimiter
		authLimiter cache.RateLimiter
	)
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		apiLimiter = cache.NewRedisRateLimiter(redisClient, "ratelimit:api:", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		authLimiter = cache.NewRedisRateLimiter(redisClient, "ratelimit:auth:", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		apiLimiter = cache.NewMemoryRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		authLimiter = cache.NewMemoryRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	var metrics *telemetry.Metrics
	if providers.Metrics != nil {
		metrics, err = telemetry.NewMetrics(providers.Metrics.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("Failed to create metrics", zap.Error(err))
		}
	}

	mailer, err := mail.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}
	templates := mail.NewTemplates(cfg.App.FrontendURL)

	// A nil store makes exports stream the workbook back instead
	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ObjectStorage(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		store = s3Store
		log.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	bankOpRepo := persistence.NewGormBankOperationRepository(db.DB)
	accountRepo := persistence.NewGormChartOfAccountRepository(db.DB)
	settlementRepo := persistence.NewGormDocSettlementRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, mailer, templates,
		identityapp.AuthServiceConfig{
			RequireEmailVerification: cfg.Auth.RequireEmailVerification,
			AutoVerifyEmail:          cfg.Auth.AutoVerifyEmail,
		}, log).WithMetrics(metrics)
	clientService := partnerapp.NewClientService(clientRepo)
	warehouseService := partnerapp.NewWarehouseService(warehouseRepo, clientRepo, productRepo, userRepo)
	productService := catalogapp.NewProductService(productRepo)
	saleService := tradeapp.NewSaleService(saleRepo, clientRepo, warehouseRepo)
	purchaseService := tradeapp.NewPurchaseService(purchaseRepo, clientRepo, warehouseRepo)
	bankOpService := financeapp.NewBankOperationService(bankOpRepo, accountRepo, clientRepo)
	accountService := financeapp.NewAccountService(accountRepo)
	settlementService := financeapp.NewSettlementService(settlementRepo, clientRepo)
	statsService := reportapp.NewStatsService(statsRepo, db)
	exportService := exportapp.NewService(exportapp.Repositories{
		Clients:        clientRepo,
		Products:       productRepo,
		Sales:          saleRepo,
		Purchases:      purchaseRepo,
		BankOperations: bankOpRepo,
		Settlements:    settlementRepo,
	}, store, cfg.Storage.PresignExpiration, log)

	// Handlers
	base := handler.NewBaseHandler(log, !cfg.App.IsProduction())
	handlers := router.Handlers{
		System:         handler.NewSystemHandler(base, statsService, version),
		Auth:           handler.NewAuthHandler(base, authService),
		Clients:        handler.NewClientHandler(base, clientService),
		Products:       handler.NewProductHandler(base, productService),
		Sales:          handler.NewSaleHandler(base, saleService),
		Purchases:      handler.NewPurchaseHandler(base, purchaseService),
		Warehouses:     handler.NewWarehouseHandler(base, warehouseService),
		BankOperations: handler.NewBankOperationHandler(base, bankOpService),
		Accounts:       handler.NewAccountHandler(base, accountService),
		Settlements:    handler.NewSettlementHandler(base, settlementService),
		Stats:          handler.NewStatsHandler(base, statsService),
		Exports:        handler.NewExportHandler(base, exportService),
	}

	deps := router.Dependencies{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		APILimiter:     apiLimiter,
		AuthLimiter:    authLimiter,
		Metrics:        metrics,
		Profiling:      providers.ProfilingEnabled(),
	}
	if providers.TracingEnabled() {
		deps.TracerProvider = providers.Traces
	}
	engine := router.NewEngine(deps, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush telemetry", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrateSchema brings the schema up to date: GORM auto-migration when
// configured, embedded SQL migrations otherwise on postgres
func migrateSchema(cfg config.DatabaseConfig, db *persistence.Database, log *zap.Logger) error {
	if cfg.AutoMigrate || db.Driver == "sqlite" {
		log.Info("Running auto-migration")
		return db.AutoMigrate()
	}
	sqlDB, err := migration.Open(cfg.DSN())
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, cfg.MigrationsPath, log)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}
