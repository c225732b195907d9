package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter applies a fixed-window request budget per client IP,
// matching the historical 100 requests per 15 minutes default.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow

	maxRequests int
	window      time.Duration
}

type clientWindow struct {
	count       int
	windowStart time.Time
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:     make(map[string]*clientWindow),
		maxRequests: maxRequests,
		window:      window,
	}
	// A disabled limiter is built with a zero window; the ticker panics
	// on a non-positive interval, so cleanup only runs for real windows.
	if window > 0 {
		go rl.cleanup()
	}
	return rl
}

// Allow records a request for ip and reports whether it fits the budget.
// With a non-positive window every request starts a fresh window, so an
// unconfigured limiter never blocks.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, exists := rl.clients[ip]
	if !exists || now.Sub(cw.windowStart) >= rl.window {
		rl.clients[ip] = &clientWindow{count: 1, windowStart: now}
		return true
	}

	cw.count++
	return cw.count <= rl.maxRequests
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, cw := range rl.clients {
			if now.Sub(cw.windowStart) >= rl.window {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Handler returns the gin middleware for this limiter.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
