package middleware

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/cloo-solutions/supporthub/internal/api"
	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills the bucket for the elapsed time, then takes the
// requested tokens if available. Returns {allowed, remaining, retry_after_seconds}.
const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'updated_at')
local tokens = tonumber(bucket[1])
local updated_at = tonumber(bucket[2])

if tokens == nil or updated_at == nil then
    tokens = capacity
    updated_at = now
end

local elapsed = math.max(0, now - updated_at)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
local retry_after = 0

if tokens >= requested then
    tokens = tokens - requested
    allowed = 1
else
    retry_after = (requested - tokens) / rate
end

redis.call('HSET', key, 'tokens', tokens, 'updated_at', now)
redis.call('EXPIRE', key, 3600)

return {allowed, math.floor(tokens), math.ceil(retry_after)}
`

// Evaler runs a Lua script. *redis.Client satisfies it.
type Evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RateLimiter is a per-client token bucket stored in Redis. Capacity is twice
// the configured rate so short bursts pass.
type RateLimiter struct {
	redis    Evaler
	qps      int
	capacity int
	prefix   string
	now      func() time.Time
	// trusted lists the proxies whose X-Forwarded-For is believed.
	trusted []netip.Prefix
}

// NewRateLimiter creates a limiter allowing qps requests per second per client.
func NewRateLimiter(client Evaler, qps int) *RateLimiter {
	return &RateLimiter{
		redis:    client,
		qps:      qps,
		capacity: 2 * qps,
		prefix:   "supporthub:rate_limit:",
		now:      time.Now,
	}
}

// WithTrustedProxies makes the limiter key requests arriving from one of the
// given proxies on the client address they forwarded.
func (l *RateLimiter) WithTrustedProxies(proxies []netip.Prefix) *RateLimiter {
	l.trusted = proxies
	return l
}

// ParseTrustedProxies accepts CIDRs ("10.0.0.0/8") and bare addresses.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func (l *RateLimiter) isTrusted(addr netip.Addr) bool {
	for _, p := range l.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientKey is the TCP peer address. X-Forwarded-For is read only when the
// peer is a trusted proxy, walking right to left past further trusted hops.
func (l *RateLimiter) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	peer = peer.Unmap()
	if !l.isTrusted(peer) {
		return peer.String()
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		hop = hop.Unmap()
		if !l.isTrusted(hop) {
			return hop.String()
		}
		peer = hop
	}
	return peer.String()
}

// Handler rejects requests over the limit with 429. When Redis fails the
// request is let through.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := float64(l.now().UnixNano()) / 1e9
		result, err := l.redis.Eval(
			r.Context(),
			tokenBucketScript,
			[]string{l.prefix + l.clientKey(r)},
			l.capacity, l.qps, now, 1,
		).Result()
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		allowed := int64(0)
		remaining := l.capacity
		retryAfter := 0

		if arr, ok := result.([]interface{}); ok && len(arr) >= 3 {
			if v, ok := arr[0].(int64); ok {
				allowed = v
			}
			if v, ok := arr[1].(int64); ok {
				remaining = int(v)
			}
			if v, ok := arr[2].(int64); ok {
				retryAfter = int(v)
			}
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.capacity))
		if allowed == 0 {
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			api.Error(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}
