package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pos/backend/internal/application/bootstrap"
	catalogapp "github.com/pos/backend/internal/application/catalog"
	identityapp "github.com/pos/backend/internal/application/identity"
	partnerapp "github.com/pos/backend/internal/application/partner"
	posapp "github.com/pos/backend/internal/application/pos"
	supervisionapp "github.com/pos/backend/internal/application/supervision"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Token revocation and checkout idempotency both prefer Redis but
	// degrade to in-memory stores on a single instance.
	var blacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		_ = redisClient.Close()
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host))
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer func() {
			_ = redisClient.Close()
		}()
	}

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		return fmt.Errorf("create idempotency store: %w", err)
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	alertRepo := persistence.NewGormStockAlertRepository(db.DB)
	registerRepo := persistence.NewGormRegisterRepository(db.DB)
	registerSettingsRepo := persistence.NewGormRegisterSettingsRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	proformaRepo := persistence.NewGormProformaRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	validationRepo := persistence.NewGormValidationRepository(db.DB)
	validationSettingsRepo := persistence.NewGormValidationSettingsRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Seed settings singletons and the initial admin account
	seeder := bootstrap.NewSeeder(userRepo, registerSettingsRepo, validationSettingsRepo, cfg.Bootstrap, log)
	if err := seeder.Run(ctx); err != nil {
		return fmt.Errorf("bootstrap seed: %w", err)
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	userService := identityapp.NewUserService(userRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, movementRepo, validationRepo, validationSettingsRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	saleService := posapp.NewSaleService(scope, orderRepo, validationSettingsRepo, idempotencyStore)
	registerService := posapp.NewRegisterService(scope, registerRepo, registerSettingsRepo, validationSettingsRepo)
	stockService := posapp.NewStockService(scope, movementRepo, alertRepo, validationSettingsRepo)
	proformaService := posapp.NewProformaService(scope, proformaRepo, productRepo)
	validationService := supervisionapp.NewValidationService(validationRepo, validationSettingsRepo, userRepo)

	engine := router.New(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		Blacklist:  blacklist,

		System:     handler.NewSystemHandler(db.DB, version),
		Auth:       handler.NewAuthHandler(authService, blacklist, log),
		User:       handler.NewUserHandler(userService),
		Product:    handler.NewProductHandler(productService),
		Category:   handler.NewCategoryHandler(categoryService),
		Customer:   handler.NewCustomerHandler(customerService),
		Stock:      handler.NewStockHandler(stockService),
		Register:   handler.NewRegisterHandler(registerService),
		Sale:       handler.NewSaleHandler(saleService),
		Proforma:   handler.NewProformaHandler(proformaService),
		Validation: handler.NewValidationHandler(validationService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sweepDone := startProformaSweep(ctx, proformaService, cfg.Proforma.SweepInterval, log)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	<-sweepDone

	log.Info("Shutdown complete")
	return nil
}

// startProformaSweep expires overdue quotes in the background so stale
// price snapshots cannot be converted into sales.
func startProformaSweep(ctx context.Context, svc *posapp.ProformaService, interval time.Duration, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := svc.ExpireProformas(ctx)
				if err != nil {
					log.Error("Proforma expiry sweep failed", zap.Error(err))
					continue
				}
				if expired > 0 {
					log.Info("Expired overdue proformas", zap.Int("count", expired))
				}
			}
		}
	}()
	return done
}
