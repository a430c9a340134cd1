package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// visitor tracks the token bucket of one client IP.
type visitor struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter throttles reception-desk clients per IP with a token bucket.
// The agenda endpoints are polled aggressively by the grid UI, so the burst
// should cover one full grid refresh.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	perSec   float64
	burst    int
}

// NewRateLimiter creates a limiter allowing perSec requests per second with
// the given burst per IP.
func NewRateLimiter(perSec float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		perSec:   perSec,
		burst:    burst,
	}
	go rl.evictIdle()
	return rl
}

// Allow reports whether the request from ip fits in its bucket.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{tokens: float64(rl.burst), lastSeen: now}
		rl.visitors[ip] = v
	}

	v.tokens += now.Sub(v.lastSeen).Seconds() * rl.perSec
	if v.tokens > float64(rl.burst) {
		v.tokens = float64(rl.burst)
	}
	v.lastSeen = now

	if v.tokens < 1 {
		return false
	}
	v.tokens--
	return true
}

func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns an HTTP middleware that rejects requests above the
// configured rate with 429 Too Many Requests.
func RateLimit(perSec float64, burst int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(perSec, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the address resolved by chi's RealIP middleware and falls
// back to the connection peer without its port.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
