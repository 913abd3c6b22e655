package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intercity-transit/service-reservation/internal/application"
	"github.com/intercity-transit/service-reservation/internal/cache"
	"github.com/intercity-transit/service-reservation/internal/config"
	"github.com/intercity-transit/service-reservation/internal/database"
	"github.com/intercity-transit/service-reservation/internal/events"
	"github.com/intercity-transit/service-reservation/internal/handler"
	"github.com/intercity-transit/service-reservation/internal/logger"
	"github.com/intercity-transit/service-reservation/internal/middleware"
	"github.com/intercity-transit/service-reservation/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-reservation")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-reservation", zap.String("port", cfg.Port))

	// Connect to database
	db, err := database.Connect(cfg.Database.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.RouteModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.Database.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to redis for the route snapshot cache. A dead redis only
	// disables caching, it never blocks startup.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	var routeCache *cache.RouteCache
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, route cache disabled", zap.Error(err))
	} else {
		routeCache = cache.NewRouteCache(redisClient, cfg.Redis.TTL, log)
	}
	pingCancel()

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize repositories
	routeRepo := repository.NewGormRouteRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	// Initialize application services
	var routeService *application.RouteService
	if routeCache != nil {
		routeService = application.NewRouteService(routeRepo, routeCache, producer, log)
	} else {
		routeService = application.NewRouteService(routeRepo, nil, producer, log)
	}
	inventoryService := application.NewInventoryService(bookingRepo, routeRepo, producer, log)

	// Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(routeService)
	bookingHandler := handler.NewBookingHandler(inventoryService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "service-reservation"})
	})

	routeHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-reservation...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		log.Error("failed to close redis client", zap.Error(err))
	}

	log.Info("service-reservation stopped")
}
