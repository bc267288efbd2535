package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ideal-gateway/config"
	"ideal-gateway/internal/adapter/acquirer"
	httpHandler "ideal-gateway/internal/adapter/http/handler"
	"ideal-gateway/internal/adapter/http/middleware"
	redisStorage "ideal-gateway/internal/adapter/storage/redis"
	"ideal-gateway/internal/core/ports"
	"ideal-gateway/internal/service"
	"ideal-gateway/pkg/ideal"
	"ideal-gateway/pkg/ideal/xmldsig"
	"ideal-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("IDG_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log zerolog.Logger
	if cfg.Log.File != "" {
		var closer io.Closer
		log, closer = logger.NewWithFile(cfg.Log.Level, logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  100,
			MaxAgeDays: 30,
			MaxBackups: 10,
			Compress:   true,
		})
		defer closer.Close()
	} else {
		log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting iDEAL Gateway")

	ctx := context.Background()

	// Load merchant key material and build the protocol client
	merchant, idealCfg, err := ideal.LoadOptions(cfg.IdealOptions(), cfg.IdealConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid merchant configuration")
	}
	if idealCfg.DisableVerification {
		log.Warn().Msg("Acquirer TLS and signature verification disabled")
	}
	idealClient, err := ideal.New(idealCfg, merchant, xmldsig.NewSigner(), xmldsig.NewVerifier(),
		ideal.WithLogger(log.With().Str("component", "ideal").Logger()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize iDEAL client")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize business services
	paymentSvc := service.NewPaymentService(
		acquirer.NewIdealClient(idealClient, log),
		redisStorage.NewDirectoryCache(rdb),
		service.PaymentConfig{
			ReturnURL:    cfg.Merchant.ReturnURL,
			DirectoryTTL: cfg.Directory.CacheTTL,
		},
		log,
	)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	gin.SetMode(cfg.Server.Mode)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:  paymentSvc,
		RateLimiter: redisStorage.NewRateLimitStore(rdb),
		RateLimit: middleware.RateLimitRule{
			Limit:  cfg.RateLimit.Requests,
			Window: cfg.RateLimit.Window,
		},
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
