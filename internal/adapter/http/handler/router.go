package handler

import (
	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/http/middleware"
	redisStore "github.com/Devour6/agent-staking-api-sub000/internal/adapter/storage/redis"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc         ports.AuthService
	MonitorSvc      ports.MonitorService
	SubscriptionSvc ports.SubscriptionService
	ConnProvider    ports.ConnectionProvider
	DeliveryRepo    ports.DeliveryRepository
	TenantRepo      ports.TenantRepository
	EncSvc          ports.EncryptionService
	SigSvc          ports.SignatureService
	NonceStore      ports.NonceStore
	TokenSvc        ports.TokenService
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- HMAC-authenticated routes (tenant API) ---
	hmacAuth := middleware.HMACAuth(deps.TenantRepo, deps.EncSvc, deps.SigSvc, deps.NonceStore, deps.Logger)

	stakeHandler := NewStakeHandler(deps.MonitorSvc)
	stakes := v1.Group("/stakes", hmacAuth)
	{
		stakes.POST("/track", rl("stakes"), stakeHandler.Track)
		stakes.GET("/:id", rl("stakes"), stakeHandler.GetSubmission)
	}

	webhookHandler := NewWebhookHandler(deps.SubscriptionSvc)
	webhooks := v1.Group("/webhooks", hmacAuth)
	{
		webhooks.POST("", rl("webhooks"), webhookHandler.Register)
		webhooks.GET("", rl("webhooks"), webhookHandler.List)
		webhooks.DELETE("/:id", rl("webhooks"), webhookHandler.Delete)
		webhooks.GET("/:id/deliveries", rl("webhooks"), webhookHandler.Deliveries)
	}

	// --- JWT-authenticated routes (operator status) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	statusHandler := NewStatusHandler(deps.MonitorSvc, deps.ConnProvider, deps.DeliveryRepo)

	status := v1.Group("/status", jwtAuth)
	{
		status.GET("/monitor", rl("status"), statusHandler.Monitor)
		status.GET("/endpoints", rl("status"), statusHandler.Endpoints)
		status.GET("/deliveries", rl("status"), statusHandler.Deliveries)
	}

	return r
}
