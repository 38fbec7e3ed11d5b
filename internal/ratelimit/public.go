package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/introaqua/waterworks/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PublicLimiter throttles the unauthenticated endpoints (bill lookup,
// article likes) per client IP. When rate limiting is disabled the
// limiter is a pass-through.
type PublicLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
	cfg    config.RateLimitConfig
}

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

func NewRedisClient(cfg config.Config) *redis.Client {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})
}

func NewPublicLimiter(p Params, client *redis.Client) *PublicLimiter {
	return &PublicLimiter{
		bucket: NewTokenBucket(client),
		log:    p.Log.Named("ratelimit"),
		cfg:    p.Cfg.RateLimit,
	}
}

// LookupMiddleware throttles the public bill lookup.
func (l *PublicLimiter) LookupMiddleware() gin.HandlerFunc {
	return l.middleware("lookup", l.cfg.LookupRate, l.cfg.LookupBurst)
}

// LikeMiddleware throttles public like/share counting.
func (l *PublicLimiter) LikeMiddleware() gin.HandlerFunc {
	return l.middleware("like", l.cfg.LikeRate, l.cfg.LikeBurst)
}

func (l *PublicLimiter) middleware(scope string, rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.bucket == nil {
			c.Next()
			return
		}

		key := "rl:" + scope + ":" + c.ClientIP()
		result, err := l.bucket.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			// Redis being down must not take the endpoint with it.
			l.log.Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"type":    "rate_limited",
					"message": "too many requests",
				},
			})
			return
		}
		c.Next()
	}
}
