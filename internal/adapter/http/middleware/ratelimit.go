package middleware

import (
	"fmt"
	"strconv"
	"time"

	"ideal-gateway/internal/core/ports"
	"ideal-gateway/pkg/apperror"
	"ideal-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int
	Window time.Duration
}

// Endpoint groups with their own counters.
const (
	GroupIssuers      = "issuers"
	GroupTransactions = "transactions"
	GroupStatus       = "status"
)

// DefaultRateLimitRules derives the per group limits from the configured
// base rule. Status polling gets twice the budget of the other groups.
func DefaultRateLimitRules(base RateLimitRule) map[string]RateLimitRule {
	return map[string]RateLimitRule{
		GroupIssuers:      base,
		GroupTransactions: base,
		GroupStatus:       {Limit: base.Limit * 2, Window: base.Window},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Store failures let the request through.
func RateLimiter(store ports.RateLimiter, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", c.ClientIP(), group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		resetAt := result.ResetAt.Unix()
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))

		if !result.Allowed {
			retryAfter := resetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}
