package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"tilepath/internal/config"
)

// RateLimitConfig configures the per-client query limiter
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// Limiters idle for two intervals are dropped.
	CleanupInterval time.Duration
}

// DefaultRateLimitConfig is used when a router is built without limits.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 20,
	Burst:             40,
	CleanupInterval:   5 * time.Minute,
}

// RateLimitConfigFrom maps resource limits onto a limiter config.
func RateLimitConfigFrom(limits config.ResourceLimits) RateLimitConfig {
	cfg := DefaultRateLimitConfig
	if limits.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = limits.RequestsPerSecond
	}
	if limits.Burst > 0 {
		cfg.Burst = limits.Burst
	}
	if limits.CleanupInterval > 0 {
		cfg.CleanupInterval = limits.CleanupInterval
	}
	return cfg
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// IPRateLimiter keeps one token bucket per client address. Every API route
// sits behind it, so a client flooding FindPath cannot starve the rest.
type IPRateLimiter struct {
	buckets sync.Map // client ip -> *clientBucket
	cfg     RateLimitConfig
	stop    chan struct{}
	once    sync.Once
}

// NewIPRateLimiter starts a limiter and its cleanup loop. Call Stop to end
// the loop.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	rl := &IPRateLimiter{cfg: cfg, stop: make(chan struct{})}
	go rl.sweepEvery(cfg.CleanupInterval)
	return rl
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *IPRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *IPRateLimiter) bucket(ip string, now time.Time) *rate.Limiter {
	v, ok := rl.buckets.Load(ip)
	if !ok {
		v, _ = rl.buckets.LoadOrStore(ip, &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		})
	}
	b := v.(*clientBucket)
	b.lastSeen.Store(now.UnixNano())
	return b.limiter
}

func (rl *IPRateLimiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

// cleanup drops buckets idle for more than two cleanup intervals.
func (rl *IPRateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-2 * rl.cfg.CleanupInterval).UnixNano()
	rl.buckets.Range(func(key, value any) bool {
		if value.(*clientBucket).lastSeen.Load() < cutoff {
			rl.buckets.Delete(key)
		}
		return true
	})
}

// Allow takes one token from the client's bucket.
func (rl *IPRateLimiter) Allow(ip string) bool {
	return rl.bucket(ip, time.Now()).Allow()
}

// Middleware rejects requests over the client's rate with 429.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			writeError(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP from an HTTP request.
// X-Forwarded-For and X-Real-IP are trusted, so run behind a proxy that
// overwrites them.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SocketSlots caps concurrent query sockets per client address.
type SocketSlots struct {
	mu     sync.Mutex
	inUse  map[string]int
	perKey int
}

// NewSocketSlots allows perKey open sockets for each address.
func NewSocketSlots(perKey int) *SocketSlots {
	return &SocketSlots{inUse: make(map[string]int), perKey: perKey}
}

// Acquire reserves a slot for ip, or reports false when ip is at its cap.
func (s *SocketSlots) Acquire(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inUse[ip] >= s.perKey {
		return false
	}
	s.inUse[ip]++
	return true
}

// Release frees a slot taken by Acquire.
func (s *SocketSlots) Release(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch n := s.inUse[ip]; {
	case n > 1:
		s.inUse[ip] = n - 1
	case n == 1:
		delete(s.inUse, ip)
	}
}

// InUse returns the number of slots ip holds.
func (s *SocketSlots) InUse(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inUse[ip]
}

// OriginPolicy decides which browser origins may open a websocket. Patterns
// use the same form as the CORS list: an exact origin, or a trailing ":*"
// for any port.
type OriginPolicy struct {
	patterns []string
}

// NewOriginPolicy builds a policy from origin patterns.
func NewOriginPolicy(patterns []string) OriginPolicy {
	return OriginPolicy{patterns: append([]string(nil), patterns...)}
}

// Allowed checks if an origin matches the policy. Requests without an
// Origin header come from non-browser clients and are allowed.
func (p OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, pattern := range p.patterns {
		if pattern == "*" || pattern == origin {
			return true
		}
		if base, ok := strings.CutSuffix(pattern, ":*"); ok {
			if origin == base || strings.HasPrefix(origin, base+":") {
				return true
			}
		}
	}
	return false
}
