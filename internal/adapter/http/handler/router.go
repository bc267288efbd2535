package handler

import (
	"ideal-gateway/internal/adapter/http/middleware"
	"ideal-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	RateLimiter    ports.RateLimiter // nil = rate limiting disabled
	RateLimit      middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10)) // payment requests are small

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules(deps.RateLimit)

	// Helper: return rate limiter middleware if a store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		rule := rules[group]
		if deps.RateLimiter == nil || rule.Limit <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimiter, group, rule, deps.Logger)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/issuers", rl(middleware.GroupIssuers), paymentHandler.ListIssuers)
		v1.POST("/transactions", rl(middleware.GroupTransactions), paymentHandler.StartTransaction)
		v1.GET("/transactions/:id/status", rl(middleware.GroupStatus), paymentHandler.GetStatus)
	}

	return r
}
