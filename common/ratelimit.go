package common // import "github.com/CarlosBertoldo/acervo-educacional/common"

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/CarlosBertoldo/acervo-educacional/store"
)

// RateLimiter throttles requests per client address. Limiters for idle
// clients expire out of the backing cache and are swept at most once per
// idle window.
type RateLimiter struct {
	// TrustProxy keys requests on X-Forwarded-For and X-Real-Ip. Leave it
	// off unless a proxy in front of the server rewrites those headers.
	TrustProxy bool

	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	swept    time.Time
	now      func() time.Time
	limiters store.Cache
}

// NewRateLimiter allows limit requests per second with the given burst
// for each client. A limit of zero or less disables throttling.
func NewRateLimiter(limit rate.Limit, burst int, idle time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	rl := &RateLimiter{limit: limit, burst: burst, idle: idle, now: time.Now}
	rl.limiters = store.NewMemoryCache(&store.Options{
		DefaultTTL: idle,
		Clock:      func() time.Time { return rl.now() },
	})
	return rl
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now := rl.now(); now.Sub(rl.swept) >= rl.idle {
		rl.limiters.Purge()
		rl.swept = now
	}

	var limiter *rate.Limiter
	if v, err := rl.limiters.Get(key); err == nil {
		limiter, _ = v.(*rate.Limiter)
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	// refresh the idle window on every request
	_ = rl.limiters.Set(key, limiter)
	return limiter.Allow()
}

func (rl *RateLimiter) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	key := RemoteIP(r)
	if rl.TrustProxy {
		key = ClientIP(r)
	}
	if rl.Allow(key) {
		next(w, r)
		return
	}
	if rl.limit != rate.Inf && rl.limit > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(1/float64(rl.limit))+1))
	}
	JSONStatusResponse(http.StatusTooManyRequests, w, Message{Message: "too many requests"})
}
