package main

import (
	"context"
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

	"dealyard.app/market/common/id"
	"dealyard.app/market/common/llm"
	"dealyard.app/market/common/logger"
	"dealyard.app/market/common/otel"
	"dealyard.app/market/core/config"
	"dealyard.app/market/internal/archive"
	"dealyard.app/market/internal/events"
	"dealyard.app/market/internal/http/middleware"
	httprouter "dealyard.app/market/internal/http/router"
	"dealyard.app/market/internal/market"
	"dealyard.app/market/internal/phrase"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "dealyard starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	marketCfg := market.Config{
		MaxConcurrentNegotiations: cfg.Market.MaxConcurrentNegotiations,
		MaxRounds:                 cfg.Market.MaxRounds,
		RoundDelay:                cfg.Market.RoundDelay,
		DefaultListingDuration:    cfg.Market.DefaultListingDuration,
		DealConfirmWindow:         cfg.Market.DealConfirmWindow,
	}

	if cfg.Events.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Events.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Events.Stream)

		publisher := events.NewRedisPublisher(redisClient, cfg.Events.Stream, slog.Default())
		defer publisher.Close()
		marketCfg.Publisher = publisher
	}

	if cfg.Archive.Enabled() {
		salesArchive, err := archive.New(ctx, cfg.Archive)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to sales archive", "error", err)
			os.Exit(1)
		}
		defer salesArchive.Close()
		slog.InfoContext(ctx, "sales archive connected")
		marketCfg.Sales = salesArchive
	}

	if cfg.Phrase.Enabled() {
		llmClient, err := llm.New(llm.Config{
			APIKey:  cfg.Phrase.APIKey,
			BaseURL: cfg.Phrase.BaseURL,
			Model:   cfg.Phrase.Model,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to initialize llm client", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "llm composer enabled", "model", llmClient.Model())
		marketCfg.Composer = phrase.NewLLMComposer(llmClient)
	} else {
		marketCfg.Composer = phrase.NewTemplateComposer()
	}

	engine := market.New(marketCfg)

	reaper := market.NewReaper(engine, cfg.Market.ReaperInterval)
	go reaper.Run(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, engine)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
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

	reaper.Stop()

	if err := engine.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "market shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, engine *market.Market) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, engine)

	return router
}

const banner = `
██████╗ ███████╗ █████╗ ██╗  ██╗   ██╗ █████╗ ██████╗ ██████╗
██╔══██╗██╔════╝██╔══██╗██║  ╚██╗ ██╔╝██╔══██╗██╔══██╗██╔══██╗
██║  ██║█████╗  ███████║██║   ╚████╔╝ ███████║██████╔╝██║  ██║
██║  ██║██╔══╝  ██╔══██║██║    ╚██╔╝  ██╔══██║██╔══██╗██║  ██║
██████╔╝███████╗██║  ██║███████╗██║   ██║  ██║██║  ██║██████╔╝
╚═════╝ ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`
