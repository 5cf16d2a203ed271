package middleware

import (
	"net/http"
	"sync"
	"time"

	"metro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a map of client keys to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*limiterEntry
	perMin   int
	mu       sync.Mutex
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 200
	}
	return &rateLimiterStore{limiters: make(map[string]*limiterEntry), perMin: perMin}
}

// getLimiter returns the limiter for a key, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.limiters[key]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// sweep drops limiters idle for longer than maxIdle.
func (s *rateLimiterStore) sweep(now time.Time, maxIdle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.limiters {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(s.limiters, k)
		}
	}
}

// RateLimitMiddleware limits requests per client IP to perMin a minute. The IP comes
// from forwarding headers only when the engine trusts the sending proxy.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	var lastSweep time.Time
	var sweepMu sync.Mutex

	return func(c *gin.Context) {
		now := time.Now()
		sweepMu.Lock()
		if now.Sub(lastSweep) > 10*time.Minute {
			lastSweep = now
			go store.sweep(now, 10*time.Minute)
		}
		sweepMu.Unlock()

		ip := c.ClientIP()
		if !store.getLimiter(ip, now).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.JSONError(c, http.StatusTooManyRequests, "RateLimited", "Rate limit exceeded. Try again later.")
			return
		}
		c.Next()
	}
}
