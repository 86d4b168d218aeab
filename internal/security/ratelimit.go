package security

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter throttles requests per client IP over a fixed window. It
// guards the credential endpoints (login and register) against brute
// forcing; normal API traffic never passes through it.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
}

type clientWindow struct {
	count   int
	started time.Time
}

// NewRateLimiter allows limit requests per client per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*clientWindow),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

// Allow records a request from ip and reports whether it is within the
// limit. Counting restarts when the client's window expires.
func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)

	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.started) >= rl.window {
		rl.clients[ip] = &clientWindow{count: 1, started: now}
		return true
	}
	cw.count++
	return cw.count <= rl.limit
}

// sweep drops expired windows, at most once per window. Piggybacking on
// Allow keeps the limiter goroutine-free; at login-endpoint traffic rates
// the map stays small between sweeps.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for ip, cw := range rl.clients {
		if now.Sub(cw.started) >= rl.window {
			delete(rl.clients, ip)
		}
	}
	rl.lastSweep = now
}

// GetClientIP resolves the client address used as the limiter key. Proxy
// headers win over the socket address; X-Forwarded-For may carry a chain
// of hops, of which the first is the original client.
func GetClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
