package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per authenticated user, or per client IP
// before authentication. Redis holds the shared window; when Redis is absent
// or failing, an in-process token bucket takes over.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	limit    redis_rate.Limit
	logger   *zap.SugaredLogger
}

func NewRateLimiter(rdb *redis.Client, limit redis_rate.Limit, logger *zap.SugaredLogger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		limit:    limit,
		logger:   logger,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateLimitKey(c)
			res := rl.allow(c.Request().Context(), key)

			setRateLimitHeaders(c.Response().Header(), res, rl.limit)
			if res.Allowed == 0 {
				retryAfter := int(res.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"success": false,
					"error": echo.Map{
						"code":    "RATE_LIMITED",
						"message": fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
					},
				})
			}
			return next(c)
		}
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.limiter != nil {
		res, err := rl.limiter.Allow(ctx, key, rl.limit)
		if err == nil {
			return res
		}
		rl.logger.Warnw("rate limiter error, using local limiter", "error", err, "key", key)
	}
	return rl.fallback.allow(key, rl.limit)
}

func rateLimitKey(c echo.Context) string {
	if userID := UserID(c); userID != "" {
		return "ratelimit:user:" + userID
	}
	return "ratelimit:ip:" + c.RealIP()
}

func setRateLimitHeaders(h http.Header, res *redis_rate.Result, limit redis_rate.Limit) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type localLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	lastCleanup time.Time
}

const entryTTL = 10 * time.Minute

func newLocalLimiter() *localLimiter {
	return &localLimiter{limiters: make(map[string]*limiterEntry), lastCleanup: time.Now()}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > entryTTL {
		for k, e := range l.limiters {
			if now.Sub(e.lastAccess) > entryTTL {
				delete(l.limiters, k)
			}
		}
		l.lastCleanup = now
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(ratePerSec), limit.Burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now

	allowed := entry.limiter.AllowN(now, 1)
	remaining := int(entry.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: time.Duration(float64(time.Second) / ratePerSec),
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = time.Duration(float64(time.Second) / ratePerSec)
	}
	return res
}
