package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/forgo/gildr/internal/model"
)

// RateLimiter admits at most Limit requests per key in any Window-long
// interval. It keeps the time of each admitted request, at most Limit per
// key; a key idle for a whole Window is dropped.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits *gocache.Cache // key -> []time.Time, oldest first
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Limit  int           // requests per window, default 10
	Window time.Duration // default one minute
}

// NewRateLimiter creates a sliding window rate limiter
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &RateLimiter{
		limit:  cfg.Limit,
		window: cfg.Window,
		now:    time.Now,
		hits:   gocache.New(cfg.Window, cfg.Window),
	}
}

// Limit returns the number of requests admitted per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Allow counts a request for key if the key is under its limit. remaining is
// how many more requests the window admits; reset is when the oldest counted
// request stops counting.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, reset time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	var recent []time.Time
	if v, ok := rl.hits.Get(key); ok {
		recent = v.([]time.Time)
	}

	cutoff := now.Add(-rl.window)
	for len(recent) > 0 && !recent[0].After(cutoff) {
		recent = recent[1:]
	}

	if len(recent) >= rl.limit {
		return false, 0, recent[0].Add(rl.window)
	}
	recent = append(recent, now)
	rl.hits.Set(key, recent, rl.window)
	return true, rl.limit - len(recent), recent[0].Add(rl.window)
}

// RateLimit limits requests per client IP. It guards routes that run before
// authentication, where the address is the only identity available.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, reset := limiter.Allow(clientIP(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				wait := max(1, int(math.Ceil(reset.Sub(limiter.now()).Seconds())))
				h.Set("Retry-After", strconv.Itoa(wait))
				model.NewRateLimitError(wait).WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of the peer address. Forwarding headers are not
// trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
