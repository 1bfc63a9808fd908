package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// IdleTTL drops a client's limiter after this long without requests.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the limits applied to submission routes.
// Every evaluation can hold a sandbox for up to the execution deadline, so
// these are far lower than a typical API.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 20,
		Burst:             40,
		IdleTTL:           10 * time.Minute,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clients tracks one limiter per address.
type clients struct {
	cfg       RateLimitConfig
	now       func() time.Time
	mu        sync.Mutex
	byIP      map[string]*client
	lastSweep time.Time
}

func newClients(cfg RateLimitConfig) *clients {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultRateLimitConfig().IdleTTL
	}
	return &clients{cfg: cfg, now: time.Now, byIP: make(map[string]*client)}
}

func (cs *clients) get(ip string) *rate.Limiter {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	if now.Sub(cs.lastSweep) >= cs.cfg.IdleTTL {
		for key, c := range cs.byIP {
			if now.Sub(c.lastSeen) >= cs.cfg.IdleTTL {
				delete(cs.byIP, key)
			}
		}
		cs.lastSweep = now
	}

	c, ok := cs.byIP[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(cs.cfg.RequestsPerSecond), cs.cfg.Burst)}
		cs.byIP[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (cs *clients) len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.byIP)
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	return rateLimit(newClients(cfg))
}

func rateLimit(cs *clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := cs.get(c.ClientIP())
		if !limiter.Allow() {
			reject(c, limiter)
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			reject(c, limiter)
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, limiter *rate.Limiter) {
	retry := 1
	if limit := float64(limiter.Limit()); limit > 0 {
		retry = int(math.Ceil(1 / limit))
	}
	c.Header("Retry-After", strconv.Itoa(retry))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": "rate limit exceeded",
	})
}
