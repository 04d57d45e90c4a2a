package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caixa-be/internal/cache"
	"caixa-be/internal/category"
	"caixa-be/internal/config"
	"caixa-be/internal/db"
	"caixa-be/internal/handler"
	"caixa-be/internal/logger"
	"caixa-be/internal/middleware"
	"caixa-be/internal/order"
	"caixa-be/internal/ordernumber"
	"caixa-be/internal/product"
	"caixa-be/internal/report"
	"caixa-be/internal/storage"
	"caixa-be/internal/user"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = listenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	// Zone-less sale timestamps are read in the store's time zone.
	time.Local = cfg.Location()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv("MIGRATE_ON_START") == "true" {
		if err := db.Migrate(ctx, database, db.MigrateUp, "migrations"); err != nil {
			return err
		}
	}

	srv := newServer(ctx, cfg, database)

	logger.L().Info("caixa api listening", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, ":"+cfg.AppPort, srv)
}

// newServer wires every dependency and returns the full handler chain.
// Redis and object storage are optional; the server starts without them.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	log := logger.L()

	checks := map[string]func(context.Context) error{
		"postgres": database.PingContext,
	}

	var reportCache report.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "caixa:",
		})
		if err != nil {
			log.Warn("redis unavailable, report cache disabled", zap.Error(err))
		} else {
			reportCache = rc
			checks["redis"] = rc.Ping
		}
	}

	var (
		images product.ImageStorage
		exports report.ObjectStore
	)
	storageCfg := &storage.Config{
		Endpoint:      cfg.StorageEndpoint,
		Region:        cfg.StorageRegion,
		Bucket:        cfg.StorageBucket,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		UsePathStyle:  cfg.StoragePathStyle,
		PresignExpiry: cfg.PresignExpiry,
	}
	if storageCfg.Enabled() {
		s3, err := storage.NewS3ObjectStorage(storageCfg)
		if err != nil {
			log.Warn("object storage disabled", zap.Error(err))
		} else {
			if err := s3.EnsureBucket(ctx); err != nil {
				log.Warn("could not ensure bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
			}
			images, exports = s3, s3
		}
	}

	tx := db.NewTxRunner(database)

	categoryRepo := category.NewRepository(database)
	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database)
	numberRepo := ordernumber.NewRepository(database)
	userRepo := user.NewRepository(database)

	reportSvc := report.NewService(report.Deps{
		Products:   productRepo,
		Categories: categoryRepo,
		Sales:      orderRepo,
		Cache:      reportCache,
		Store:      exports,
		CacheTTL:   cfg.ReportTTL,
		Location:   cfg.Location(),
	})

	categorySvc := category.NewService(categoryRepo, reportSvc)
	productSvc := product.NewService(productRepo, categoryRepo, images, tx, reportSvc)
	numberSvc := ordernumber.NewService(numberRepo)
	userSvc := user.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	orderSvc := order.NewService(order.Deps{
		Repo:        orderRepo,
		Products:    productRepo,
		Categories:  categoryRepo,
		Numbers:     numberSvc,
		Tx:          tx,
		Invalidator: reportSvc,
	})

	engine := handler.NewRouter(&handler.Handler{
		Categories: categorySvc,
		Products:   productSvc,
		Orders:     orderSvc,
		Numbers:    numberSvc,
		Reports:    reportSvc,
		Users:      userSvc,
		Checks:     checks,
		Location:   cfg.Location(),

		SecureCookies: cfg.AppEnv == "production",
	}, handler.RouterConfig{CORSOrigins: cfg.CORSOrigins})

	limiter := middleware.NewRateLimiter(ctx, os.Getenv("INTERNAL_SERVICE_KEY"))
	return setupRouter(engine, cfg.JWTSecret, limiter)
}

// setupRouter applies RequestID -> Logging -> Auth -> RateLimit, outermost
// first.
func setupRouter(app http.Handler, jwtSecret string, limiter *middleware.RateLimiter) http.Handler {
	h := limiter.Middleware(app)
	h = middleware.AuthMiddleware(jwtSecret)(h)
	h = logger.LoggingMiddleware(h)
	return logger.RequestIDMiddleware(h)
}

func listenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
