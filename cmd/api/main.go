package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Devour6/agent-staking-api-sub000/config"
	httpHandler "github.com/Devour6/agent-staking-api-sub000/internal/adapter/http/handler"
	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/solana"
	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/storage/memory"
	pgStorage "github.com/Devour6/agent-staking-api-sub000/internal/adapter/storage/postgres"
	redisStorage "github.com/Devour6/agent-staking-api-sub000/internal/adapter/storage/redis"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/internal/service"
	"github.com/Devour6/agent-staking-api-sub000/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting staking API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	tenantRepo := pgStorage.NewTenantRepo(pool)
	subscriptionRepo := pgStorage.NewSubscriptionRepo(pool)
	deliveryRepo := pgStorage.NewDeliveryRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	nonceStore := redisStorage.NewNonceStore(rdb)
	blockhashCache := redisStorage.NewBlockhashCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// RPC endpoint manager with health probes and failover
	rpcManager := solana.NewEndpointManager(cfg.Solana, blockhashCache, log)
	rpcManager.ProbeOnce(ctx)

	// Business services
	authSvc := service.NewAuthService(cfg.Operator, hashSvc, tokenSvc)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, deliveryRepo, encSvc, log)
	dispatcher := service.NewDispatcherService(
		subscriptionRepo,
		deliveryRepo,
		transactor,
		encSvc,
		sigSvc,
		&http.Client{Timeout: cfg.Webhook.DeliveryTimeout},
		cfg.Webhook,
		log,
	)
	monitorSvc := service.NewMonitorService(memory.NewSubmissionStore(), rpcManager, dispatcher, cfg.Monitor, log)

	// Background loops
	dispatcher.Start()
	defer dispatcher.Stop()

	loops := []*service.Loop{
		service.NewLoop("endpoint_probe", cfg.Solana.ProbeInterval, cfg.Solana.ProbeTimeout*2, rpcManager.ProbeOnce, log),
		service.NewLoop("monitor_poll", cfg.Monitor.PollInterval, cfg.Monitor.PollInterval, monitorSvc.RunQueueOnce, log),
		service.NewLoop("validator_check", cfg.Monitor.ValidatorInterval, cfg.Monitor.PollInterval, monitorSvc.CheckValidatorsOnce, log),
		service.NewLoop("delivery_sweep", cfg.Webhook.SweepInterval, cfg.Webhook.SweepInterval, dispatcher.SweepOnce, log),
	}
	for _, l := range loops {
		l.Start()
	}
	defer func() {
		for _, l := range loops {
			l.Stop()
		}
	}()

	// Health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:         authSvc,
		MonitorSvc:      monitorSvc,
		SubscriptionSvc: subscriptionSvc,
		ConnProvider:    rpcManager,
		DeliveryRepo:    deliveryRepo,
		TenantRepo:      tenantRepo,
		EncSvc:          encSvc,
		SigSvc:          sigSvc,
		NonceStore:      nonceStore,
		TokenSvc:        tokenSvc,
		RateLimitStore:  rateLimitStore,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
