package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"bmgrades.app/tracker/common/id"
	"bmgrades.app/tracker/common/llm"
	"bmgrades.app/tracker/common/logger"
	"bmgrades.app/tracker/common/otel"
	"bmgrades.app/tracker/core/config"
	"bmgrades.app/tracker/core/db"
	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/extraction"
	"bmgrades.app/tracker/internal/http/middleware"
	httprouter "bmgrades.app/tracker/internal/http/router"
	"bmgrades.app/tracker/internal/service"
	"bmgrades.app/tracker/internal/snapshot"
	"bmgrades.app/tracker/internal/store"
)

// scanEnvelope is the room left in the scan body limit for the JSON around
// the encoded image.
const scanEnvelope = 16 << 10

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "tracker starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "prefix", cfg.Redis.KeyPrefix)

	catalog, err := curriculum.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load curricula", "error", err)
		os.Exit(1)
	}

	extractor, err := newExtractor(cfg, redisClient)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create vision client", "error", err)
		os.Exit(1)
	}
	if extractor == nil {
		slog.WarnContext(ctx, "scanning disabled (no vision model API key configured)")
	}

	stores := store.NewStores(database.Queries())
	services := service.NewServices(service.Deps{
		Stores:        stores,
		TxRunner:      service.NewTxRunner(database),
		Catalog:       catalog,
		Snapshots:     snapshot.NewRedisStore(redisClient, cfg.Redis.KeyPrefix, cfg.DefaultBMType),
		Extractor:     extractor,
		DefaultBMType: cfg.DefaultBMType,
		MaxImageBytes: cfg.Scan.MaxImageBytes,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Scans wait on the vision model.
		WriteTimeout: cfg.Scan.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// newExtractor returns a nil Extractor when no vision model is configured.
func newExtractor(cfg config.Config, rdb redis.Cmdable) (extraction.Extractor, error) {
	if !cfg.VisionLLM.Enabled() {
		return nil, nil
	}
	client, err := llm.NewVisionClient(llm.Config{
		Provider:  cfg.VisionLLM.Provider,
		APIKey:    cfg.VisionLLM.APIKey,
		BaseURL:   cfg.VisionLLM.BaseURL,
		Model:     cfg.VisionLLM.Model,
		MaxTokens: cfg.VisionLLM.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	cache := extraction.NewRedisCache(rdb, cfg.Redis.KeyPrefix+"scan:", cfg.Redis.ScanCacheTTL)
	return extraction.NewExtractor(client, cache, cfg.Scan.Timeout), nil
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		ScanBodyLimit: int64(base64.StdEncoding.EncodedLen(cfg.Scan.MaxImageBytes)) + scanEnvelope,
	})

	return router
}

const banner = `
 ____  __  __    ____               _
| __ )|  \/  |  / ___|_ __ __ _  __| | ___  ___
|  _ \| |\/| | | |  _| '__/ _' |/ _' |/ _ \/ __|
| |_) | |  | | | |_| | | | (_| | (_| |  __/\__ \
|____/|_|  |_|  \____|_|  \__,_|\__,_|\___||___/
`
