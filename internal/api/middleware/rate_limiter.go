package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/pkg/logger"
)

// RateLimitStrategy selects how clients are told apart
type RateLimitStrategy string

const (
	// RateLimitIP limits by client IP address
	RateLimitIP RateLimitStrategy = "ip"
	// RateLimitRoute limits by client IP and request path
	RateLimitRoute RateLimitStrategy = "route"
)

// RateLimiterConfig holds the fixed window settings
type RateLimiterConfig struct {
	// Limit is the number of requests allowed per window
	Limit int
	// Period is the window length in seconds
	Period int
	// Strategy selects the counting key
	Strategy RateLimitStrategy
}

// WindowCounter increments a shared counter that expires after ttl
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimiter limits the request rate per client in fixed windows.
// Counters live in memory unless a shared WindowCounter is given.
type RateLimiter struct {
	config     RateLimiterConfig
	logger     logger.Logger
	shared     WindowCounter
	inMemLimit map[string]*limitInfo
	mu         sync.Mutex
	now        func() time.Time
}

type limitInfo struct {
	count     int
	resetTime time.Time
}

// NewRateLimiter creates a new RateLimiter; shared may be nil
func NewRateLimiter(config RateLimiterConfig, shared WindowCounter, logger logger.Logger) *RateLimiter {
	return &RateLimiter{
		config:     config,
		shared:     shared,
		logger:     logger,
		inMemLimit: make(map[string]*limitInfo),
		now:        time.Now,
	}
}

// Limit rejects requests over the configured rate with 429
func (m *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.getKey(r)

		remaining, resetTime, limited, err := m.isLimited(r.Context(), key)
		if err != nil {
			// a broken shared store must not take the listing down
			m.logger.Error("Rate limiter error, letting request through", err, map[string]interface{}{
				"key": key,
			})
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.config.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if limited {
			retryAfter := int(resetTime.Sub(m.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Message: "Rate limit exceeded",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimiter) getKey(r *http.Request) string {
	ip := getClientIP(r)
	if m.config.Strategy == RateLimitRoute {
		return fmt.Sprintf("rate_limit:route:%s:%s", ip, r.URL.Path)
	}
	return fmt.Sprintf("rate_limit:ip:%s", ip)
}

func (m *RateLimiter) isLimited(ctx context.Context, key string) (int, time.Time, bool, error) {
	if m.shared != nil {
		return m.isLimitedShared(ctx, key)
	}
	return m.isLimitedInMemory(key)
}

func (m *RateLimiter) period() time.Duration {
	return time.Duration(m.config.Period) * time.Second
}

// isLimitedShared counts in a window keyed by its start, shared across instances
func (m *RateLimiter) isLimitedShared(ctx context.Context, key string) (int, time.Time, bool, error) {
	now := m.now()
	window := now.Unix() / int64(m.config.Period)
	windowKey := fmt.Sprintf("%s:%d", key, window)

	count, err := m.shared.IncrWindow(ctx, windowKey, m.period())
	if err != nil {
		return 0, now, false, err
	}

	resetTime := time.Unix((window+1)*int64(m.config.Period), 0)
	remaining := m.config.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return remaining, resetTime, count > int64(m.config.Limit), nil
}

func (m *RateLimiter) isLimitedInMemory(key string) (int, time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	info, exists := m.inMemLimit[key]
	switch {
	case !exists:
		info = &limitInfo{count: 1, resetTime: now.Add(m.period())}
		m.inMemLimit[key] = info
	case now.After(info.resetTime):
		info.count = 1
		info.resetTime = now.Add(m.period())
	default:
		info.count++
	}

	remaining := m.config.Limit - info.count
	if remaining < 0 {
		remaining = 0
	}

	return remaining, info.resetTime, info.count > m.config.Limit, nil
}

// CleanupExpired drops in-memory windows that have already reset
// and returns how many were removed.
func (m *RateLimiter) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, info := range m.inMemLimit {
		if now.After(info.resetTime) {
			delete(m.inMemLimit, key)
			removed++
		}
	}
	return removed
}

// getClientIP returns the client IP, honouring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
