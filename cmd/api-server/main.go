package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"movierater/internal/config"
	"movierater/internal/detect"
	"movierater/internal/messaging"
	"movierater/internal/microservices/http-api/handler"
	"movierater/internal/microservices/http-api/middleware"
	"movierater/internal/microservices/http-api/repository"
	"movierater/internal/microservices/http-api/service"
	"movierater/internal/microservices/websocket"
	"movierater/internal/pkg/logger"
	"movierater/internal/storage"
	"movierater/internal/trending"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLog); err != nil {
		appLog.Fatal("API server stopped with error", "error", err)
	}
}

// loadConfig reads and validates the server configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, appLog *logger.Logger) error {
	store, err := storage.Open(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLog.Warn("Failed to close storage", "error", err)
		}
	}()

	// Ratings and settings
	ratingRepo := repository.NewRatingRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)
	opts := service.Options{
		CustomFields:    cfg.FeatureCustomFields,
		CategoryToggles: cfg.FeatureCategoryToggles,
	}
	ratingService := service.NewRatingService(ratingRepo, settingsRepo, opts)
	settingsService := service.NewSettingsService(settingsRepo, opts)

	// Detection
	detector := detect.NewDetector(nil, detect.Options{GenreDetection: cfg.FeatureGenreDetection})
	fetcher := detect.NewFetcher(detect.FetcherConfig{
		Timeout:   cfg.FetchTimeout,
		RateLimit: cfg.FetchRateLimit,
		UserAgent: cfg.FetchUserAgent,
	}, appLog)

	g, gctx := errgroup.WithContext(ctx)

	// Tabs, messaging and the watch stream
	bridge := messaging.NewBridge(0, appLog)
	tabs := messaging.NewTabs(gctx, bridge, detector, appLog)
	defer tabs.CloseAll()
	hub := websocket.NewHub(gctx, tabs, bridge, appLog)

	// Trending
	trendingClient := trending.NewClient(trending.Options{
		BaseURL:  cfg.TMDBAPIURL,
		APIKey:   cfg.TMDBAPIKey,
		Cache:    trendingCache(ctx, cfg, appLog),
		CacheTTL: cfg.CacheDuration(),
	}, appLog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is alive", "storage": cfg.StorageDriver})
	})

	api := r.Group("/api")
	handler.NewRatingHandler(ratingService).RegisterRoutes(api)
	handler.NewSettingsHandler(settingsService).RegisterRoutes(api)
	handler.NewDetectHandler(detector, fetcher, cfg.DetectWorkers, appLog).RegisterRoutes(api)
	handler.NewTrendingHandler(handler.TrendingFromClient(trendingClient), appLog).RegisterRoutes(api)
	handler.NewTabsHandler(tabs, bridge).RegisterRoutes(api)
	api.GET("/tabs/:tab_id/watch", websocket.WatchHandler(hub, cfg.CORSOrigins))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		hub.Run()
		return nil
	})
	g.Go(func() error {
		appLog.Info("Server running", "addr", server.Addr, "tls", cfg.TLSEnabled, "storage", cfg.StorageDriver)
		var err error
		if cfg.TLSEnabled {
			err = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	appLog.Info("Server stopped")
	return err
}

// trendingCache connects the optional trending cache. Redis being
// unreachable only disables caching.
func trendingCache(ctx context.Context, cfg *config.Config, appLog *logger.Logger) *redis.Client {
	if cfg.RedisURL == "" || cfg.CacheTTL == 0 {
		return nil
	}
	client, err := storage.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		appLog.Warn("Trending cache disabled", "error", err)
		return nil
	}
	return client
}
