package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/storefront/internal/auth"
	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/events"
	"github.com/fjod/storefront/internal/feed"
	h "github.com/fjod/storefront/internal/http"
	"github.com/fjod/storefront/internal/logger"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		// logger config is not loaded yet
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	log.Info().Str("database", cfg.MongoDBName).Msg("connected to MongoDB")

	if err := repository.RunMigrations(cfg.MongoURI, cfg.MongoDBName); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	users := repository.NewUserRepository(mongoDB)
	products := repository.NewProductRepository(mongoDB)
	orders := repository.NewOrderRepository(mongoDB)

	var catalogCache cache.CatalogCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("Redis ping succeeded")
		catalogCache = cache.NewRedisCache(redisClient, cfg.CatalogCacheTTL)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, catalog cache disabled")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.OrderTopic, brokers...)
		log.Info().Strs("brokers", brokers).Str("topic", cfg.OrderTopic).Msg("publishing order events")
	}

	feedClient := feed.NewClient(feed.Config{
		URL:     cfg.FeedURL,
		Limit:   cfg.FeedLimit,
		Timeout: cfg.FeedTimeout,
	}, log)

	tokens := auth.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := service.NewAuthService(users, tokens, log)
	catalogSvc := service.NewCatalogService(products, catalogCache, feedClient, log)
	cartSvc := service.NewCartService(users, products, log)
	orderSvc := service.NewOrderService(orders, users, publisher, log)

	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail); err != nil {
		log.Error().Err(err).Str("email", cfg.AdminEmail).Msg("failed to promote configured admin")
	}

	router := h.NewRouter(h.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins(),
		RequestTimeout: cfg.RequestTimeout,
		Cookies:        auth.CookieFactory{Production: cfg.IsProduction()},
	}, h.Services{
		Auth:    authSvc,
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  orderSvc,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("env", cfg.AppEnv).Msg("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close event publisher")
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect MongoDB")
	}

	log.Info().Msg("server exited")
}
