package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/cache"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := errors.Join(
		config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL"),
		config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET"),
	); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(ctx, db, models.All()...); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}

	productSvc := &service.ProductService{Store: &repo.ProductRepo{DB: db}}
	var publisher events.Publisher
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = producer
		productSvc.Events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	if cfg.ESURL != "" {
		idx, err := search.NewClient(ctx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Error("search_disabled", "error", err)
		} else {
			productSvc.Index = idx
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("cache_disabled", "error", err)
		} else {
			productSvc.Cache = cache.NewProductCache(rdb, cfg.CacheTTL)
		}
	}
	cancel()

	userSvc := &service.UserService{Repo: &repo.UserRepo{DB: db}, JWTSecret: cfg.JWTSecret, JWTExpires: cfg.JWTExpires}
	orderSvc := &service.OrderService{Store: &repo.OrderRepo{DB: db}, Events: publisher}

	categorySvc := service.NewCategoryService(&repo.NamedRepo[models.Category]{DB: db}, publisher)
	categorySvc.OnChange = productSvc.RefreshCategory
	tagSvc := service.NewTagService(&repo.NamedRepo[models.Tag]{DB: db}, publisher)
	tagSvc.OnChange = productSvc.RefreshTag

	e := httpserver.New(&httpserver.Deps{
		Logger:     logger,
		Auth:       middleware.NewAuthMiddleware(cfg.JWTSecret, userSvc.Role),
		Users:      &httpserver.UserHTTP{Svc: userSvc},
		Orders:     &httpserver.OrderHTTP{Svc: orderSvc},
		Products:   &httpserver.ProductHTTP{Svc: productSvc},
		Categories: &httpserver.NamedHTTP[models.Category]{Svc: categorySvc, Kind: "category"},
		Tags:       &httpserver.NamedHTTP[models.Tag]{Svc: tagSvc, Kind: "tag"},
		Ready:      func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if producer != nil {
		_ = producer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = pkgdb.Close(db)

	logger.Info("stopped")
}
