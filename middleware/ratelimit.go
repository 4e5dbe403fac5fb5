package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter allows each client at most limit hits in any sliding window.
// Clients with no hit inside the window are forgotten.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	hits      map[string][]time.Time // oldest first
	lastSweep time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a hit for client unless that would exceed the limit.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	recent := l.recent(l.hits[client], now)
	if len(recent) >= l.limit {
		l.hits[client] = recent
		return false
	}
	l.hits[client] = append(recent, now)
	return true
}

// recent drops the hits that fell out of the window ending at now.
func (l *Limiter) recent(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	first := sort.Search(len(hits), func(i int) bool { return hits[i].After(cutoff) })
	return hits[first:]
}

// sweep forgets idle clients, at most once per window.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for client, hits := range l.hits {
		if len(l.recent(hits, now)) == 0 {
			delete(l.hits, client)
		}
	}
}

func (l *Limiter) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// RateLimit throttles form submissions per client IP; rendering the form is
// free. The IP comes from gin's ClientIP, so forwarding headers only count
// when the engine trusts the proxy that set them.
func RateLimit(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if !l.Allow(c.ClientIP()) {
			c.String(http.StatusTooManyRequests, "Too many attempts. Please wait a minute and try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}
