package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hrpayroll/internal/requestctx"
	"hrpayroll/internal/transport/http/api"
	"hrpayroll/internal/transport/http/shared"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu       sync.Mutex
	perMin   int
	every    time.Duration
	idleTTL  time.Duration
	clients  map[string]*clientLimiter
	lastScan time.Time
}

// RateLimit applies a per-client token bucket refilled at perMinute tokens a
// minute with a burst of perMinute. A non-positive limit disables it.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	rl := newRateLimiter(perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRateLimiter(perMinute int) *rateLimiter {
	rl := &rateLimiter{
		perMin:  perMinute,
		idleTTL: 10 * time.Minute,
		clients: map[string]*clientLimiter{},
	}
	if perMinute > 0 {
		rl.every = time.Minute / time.Duration(perMinute)
	}
	return rl
}

func (rl *rateLimiter) get(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastScan) > rl.idleTTL {
		for k, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.idleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastScan = now
	}

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Every(rl.every), rl.perMin)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.perMin <= 0 {
		return true
	}

	key := shared.ClientIP(r)
	now := time.Now()
	limiter := rl.get(key, now)
	allowed := limiter.AllowN(now, 1)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.perMin))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(math.Floor(limiter.TokensAt(now))), 0)))

	if !allowed {
		retry := int(math.Ceil(rl.every.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
		requestctx.Logger(r.Context()).Warn("rate limit exceeded",
			zap.String("key", key),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Int("perMinute", rl.perMin),
		)
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		return false
	}
	return true
}
