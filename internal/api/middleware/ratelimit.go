package middleware

import (
	"context"
	"customer-service/internal/config"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const tooManyRequestsStatus = "Too Many Requests"

// RateLimiterMiddleware limits requests per client IP. With a Redis client the
// count is shared across instances in fixed one-second windows; without one,
// or when Redis fails, a token bucket per IP is kept in process.
type RateLimiterMiddleware struct {
	limiters    sync.Map
	redisClient *redis.Client
	cfg         config.RateLimitConfig
	logger      *slog.Logger
	window      time.Duration
	now         func() time.Time
}

func NewRateLimiterMiddleware(
	cfg config.RateLimitConfig,
	redisClient *redis.Client,
	logger *slog.Logger,
) *RateLimiterMiddleware {
	logger = logger.With("component", "RateLimiter")

	switch {
	case !cfg.Enabled:
		logger.Info("Rate limiting is disabled via configuration.")
	case redisClient == nil:
		logger.Info("Rate limiter using in-process token buckets", "rps", cfg.RPS, "burst", cfg.Burst)
	default:
		logger.Info("Rate limiter using Redis counters", "rps", cfg.RPS, "burst", cfg.Burst, "window", time.Second)
	}

	return &RateLimiterMiddleware{
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
		window:      time.Second,
		now:         time.Now,
	}
}

func (rl *RateLimiterMiddleware) IsEnabled() bool {
	return rl.cfg.Enabled
}

// windowLimit is the number of requests one IP may make per Redis window.
func (rl *RateLimiterMiddleware) windowLimit() int64 {
	limit := int64(math.Ceil(rl.cfg.RPS * rl.window.Seconds()))
	if int64(rl.cfg.Burst) > limit {
		limit = int64(rl.cfg.Burst)
	}
	return limit
}

func (rl *RateLimiterMiddleware) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := rl.limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst))
	return limiter.(*rate.Limiter)
}

// Cleanup drops idle in-process limiters every interval until ctx is done.
func (rl *RateLimiterMiddleware) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.pruneIdle()
		}
	}
}

func (rl *RateLimiterMiddleware) pruneIdle() {
	rl.limiters.Range(func(key, value interface{}) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(rl.cfg.Burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiterMiddleware) allowRedis(ctx context.Context, ip string) (bool, error) {
	windowID := rl.now().UnixNano() / int64(rl.window)
	key := fmt.Sprintf("ratelimit:%s:%d", ip, windowID)

	pipe := rl.redisClient.TxPipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	count, err := incrCmd.Result()
	if err != nil {
		return false, err
	}
	return count <= rl.windowLimit(), nil
}

func (rl *RateLimiterMiddleware) allow(ctx context.Context, ip string) bool {
	if rl.redisClient != nil {
		allowed, err := rl.allowRedis(ctx, ip)
		if err == nil {
			return allowed
		}
		rl.logger.Error("Redis rate limit check failed, falling back to in-process limiter", "error", err, "ip", ip)
	}
	return rl.getLimiter(ip).Allow()
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.IsEnabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		if !rl.allow(r.Context(), ip) {
			rl.logger.Warn("Rate limit exceeded", "ip", ip)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.window.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": tooManyRequestsStatus})
			return
		}

		next.ServeHTTP(w, r)
	})
}
