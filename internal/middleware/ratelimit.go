package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/monitoring"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/netutil"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ttlLimiterCache is a simple TTL map for per-key limiters with opportunistic sweeping.
type ttlLimiterCache struct {
	mu        sync.Mutex
	items     map[string]*limiterEntry
	ttl       time.Duration
	lastSweep time.Time
}

func newTTLLimiterCache(ttl time.Duration) *ttlLimiterCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ttlLimiterCache{items: make(map[string]*limiterEntry), ttl: ttl}
}

func (c *ttlLimiterCache) get(key string, makeFn func() *rate.Limiter) *rate.Limiter {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.lastSeen = now
		return e.lim
	}
	lim := makeFn()
	c.items[key] = &limiterEntry{lim: lim, lastSeen: now}
	// opportunistic sweep every ~2 minutes
	if c.lastSweep.IsZero() || now.Sub(c.lastSweep) > 2*time.Minute {
		c.sweepLocked(now)
		c.lastSweep = now
	}
	monitoring.MockRateLimitKeys.Set(float64(len(c.items)))
	return lim
}

func (c *ttlLimiterCache) sweepLocked(now time.Time) {
	for k, e := range c.items {
		if now.Sub(e.lastSeen) > c.ttl {
			delete(c.items, k)
		}
	}
}

func (c *ttlLimiterCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// RateLimiter limits each caller, keyed by bearer token or client IP, to
// rps requests per second. Rejections are 429 with Retry-After. rps <= 0
// disables the limiter.
func RateLimiter(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = int(math.Ceil(rps))
	}
	cache := newTTLLimiterCache(15 * time.Minute)
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(1/rps))))
	return func(c *gin.Context) {
		key := callerKey(c)
		li := cache.get(key, func() *rate.Limiter { return rate.NewLimiter(rate.Limit(rps), burst) })
		if !li.Allow() {
			monitoring.MockRateLimitedTotal.Inc()
			c.Header(constants.HeaderRetryAfter, retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Rate limit exceeded",
				"data":    nil,
			})
			return
		}
		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if tok := bearerToken(c); tok != "" {
		return "tok:" + tok
	}
	return "ip:" + netutil.IPString(netutil.ClientIP(c.Request))
}

func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader(constants.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
