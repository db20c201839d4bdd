package playground

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter admits at most max requests per client inside a sliding
// window.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		window: window,
		max:    limit,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a request from client and reports whether it is admitted.
// Rejected requests are not recorded.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	hits := rl.hits[client]
	drop := 0
	for drop < len(hits) && now.Sub(hits[drop]) > rl.window {
		drop++
	}
	hits = hits[drop:]
	if len(hits) >= rl.max {
		rl.hits[client] = hits
		return false
	}
	rl.hits[client] = append(hits, now)
	return true
}

// Prune forgets clients whose requests all fell out of the window.
func (rl *RateLimiter) Prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for client, hits := range rl.hits {
		if len(hits) == 0 || now.Sub(hits[len(hits)-1]) > rl.window {
			delete(rl.hits, client)
		}
	}
}

// clientIP prefers the first X-Forwarded-For entry, as set by a reverse
// proxy, over the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
