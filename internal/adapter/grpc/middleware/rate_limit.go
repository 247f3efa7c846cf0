package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// KeyPrefix namespaces token buckets in Redis.
const KeyPrefix = "ratelimit:tb:"

// tokenBucket refills at ARGV[1] tokens/s up to ARGV[2] and takes one token per call.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
	// TrustedProxies are the peers allowed to report the client IP in
	// x-forwarded-for or x-real-ip. Entries are IPs or CIDRs.
	TrustedProxies    []string
}

// RateLimiter is a Redis token bucket shared by the gRPC and HTTP transports.
type RateLimiter struct {
	client  *redis.Client
	config  RateLimiterConfig
	trusted []netip.Prefix
	log     *zap.Logger
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter.
// Trusted proxy entries that do not parse are logged and skipped.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
	for _, entry := range config.TrustedProxies {
		prefix, err := parsePrefix(entry)
		if err != nil {
			log.Warn("ignoring invalid trusted proxy", zap.String("proxy", entry), zap.Error(err))
			continue
		}
		rl.trusted = append(rl.trusted, prefix)
	}
	return rl
}

// Config returns the limiter settings. A nil limiter reports the zero config.
func (rl *RateLimiter) Config() RateLimiterConfig {
	if rl == nil {
		return RateLimiterConfig{}
	}
	return rl.config
}

// Enabled reports whether requests are being limited.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.client != nil && rl.config.Enabled
}

// Allow takes one token from the bucket stored under KeyPrefix+key.
// Redis failures are returned together with allowed=true so callers fail open.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !rl.Enabled() {
		return true, nil
	}

	now := float64(rl.now().UnixMicro()) / 1e6
	allowed, err := tokenBucket.Run(ctx, rl.client, []string{KeyPrefix + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		now,
		rl.bucketTTL(),
	).Int64()
	if err != nil {
		return true, err
	}

	return allowed == 1, nil
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.Enabled() {
			return handler(ctx, req)
		}

		clientIP := rl.clientIP(ctx)
		allowed, err := rl.Allow(ctx, fmt.Sprintf("%s:%s", info.FullMethod, clientIP))
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return handler(ctx, req)
		}

		if !allowed {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Float64("limit", rl.config.RequestsPerSecond),
				zap.Int("burst", rl.config.BurstCapacity),
			)
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %.2f requests/second (burst capacity: %d)",
				rl.config.RequestsPerSecond, rl.config.BurstCapacity)
		}

		return handler(ctx, req)
	}
}

// bucketTTL is how long an idle bucket must survive to refill completely, in seconds.
// An earlier expiry would hand the client a full bucket too soon.
func (rl *RateLimiter) bucketTTL() int64 {
	if rl.config.RequestsPerSecond <= 0 {
		return 1
	}
	ttl := math.Ceil(float64(rl.config.BurstCapacity)/rl.config.RequestsPerSecond) + 1
	if ttl < 1 || math.IsNaN(ttl) {
		return 1
	}
	if ttl > math.MaxInt32 {
		return math.MaxInt32
	}
	return int64(ttl)
}

// clientIP returns the IP a request is billed to. Forwarding metadata is
// honoured only when the connecting peer is a trusted proxy. The
// x-forwarded-for chain is walked from the right and the first hop that is
// not itself a trusted proxy wins, the same rule gin applies to HTTP.
func (rl *RateLimiter) clientIP(ctx context.Context) string {
	remote := "unknown"
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		remote = hostOnly(p.Addr.String())
	}
	if !rl.isTrusted(remote) {
		return remote
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return remote
	}

	var hops []string
	for _, v := range md.Get("x-forwarded-for") {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			break
		}
		if i == 0 || !rl.isTrusted(addr.String()) {
			return addr.Unmap().String()
		}
	}

	if xri := md.Get("x-real-ip"); len(xri) > 0 {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri[0])); err == nil {
			return addr.Unmap().String()
		}
	}

	return remote
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range rl.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// hostOnly drops the port so every connection from one host shares a bucket.
func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func parsePrefix(entry string) (netip.Prefix, error) {
	if strings.Contains(entry, "/") {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return netip.Prefix{}, err
		}
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
