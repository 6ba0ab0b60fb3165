package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	liberrors "github.com/tendant/simple-library/pkg/errors"
	"github.com/tendant/simple-library/pkg/principal"
	"github.com/tendant/simple-library/pkg/response"
)

// Config holds rate limiting configuration
type Config struct {
	// Per-IP rate limiting
	PerIPPerMinute float64
	PerIPBurst     int

	// Per-account rate limiting (for authenticated requests)
	PerAccountPerMinute float64
	PerAccountBurst     int

	// How long to keep inactive buckets in memory
	BucketTTL time.Duration
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		PerIPPerMinute:      100,
		PerIPBurst:          20,
		PerAccountPerMinute: 200,
		PerAccountBurst:     40,
		BucketTTL:           time.Hour,
	}
}

// Middleware holds the rate limiting middleware state
type Middleware struct {
	config         Config
	ipLimiter      *RateLimiter
	accountLimiter *RateLimiter
}

func NewMiddleware(config Config) *Middleware {
	return &Middleware{
		config:         config,
		ipLimiter:      NewRateLimiter(config.PerIPPerMinute, config.PerIPBurst, config.BucketTTL),
		accountLimiter: NewRateLimiter(config.PerAccountPerMinute, config.PerAccountBurst, config.BucketTTL),
	}
}

// Handler rejects requests over the per-IP budget, and for authenticated
// requests the per-account budget, with 429. Place it after the principal
// middleware so accounts are recognized.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !m.ipLimiter.Allow(ip) {
			m.rateLimitExceeded(w, r, "ip", ip)
			return
		}

		if p, ok := principal.FromContext(r.Context()); ok {
			if !m.accountLimiter.Allow(p.AccountID.String()) {
				m.rateLimitExceeded(w, r, "account", ip)
				return
			}
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.config.PerIPBurst))
		next.ServeHTTP(w, r)
	})
}

// Run evicts idle buckets until ctx is done.
func (m *Middleware) Run(ctx context.Context) {
	go m.ipLimiter.Run(ctx)
	m.accountLimiter.Run(ctx)
}

func (m *Middleware) rateLimitExceeded(w http.ResponseWriter, r *http.Request, limitType, ip string) {
	slog.Warn("Rate limit exceeded",
		"type", limitType,
		"ip", ip,
		"path", r.URL.Path,
		"method", r.Method,
	)

	w.Header().Set("Retry-After", "60")
	response.Error(w, r, liberrors.New(liberrors.ErrCodeRateLimited, "too many requests, please try again later").
		WithDetail("limit", limitType))
}

// clientIP uses RemoteAddr only; forwarded headers are client controlled.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
