// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured Activity logging (slog).
  - Guard: Rate limiting, body-size cap, and CORS validation.
  - Safe: Panic recovery to prevent server crashes.

This package ensures that domain handlers can focus purely on business logic
without worrying about infrastructure-level concerns.
*/
package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ngocdq/truyenhay/internal/platform/constants"
	"github.com/ngocdq/truyenhay/internal/platform/ctxutil"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing (using UUID v7 for time-sortable properties)
			if requestID == "" {
				uuidV7, err := uuid.NewV7()
				if err != nil {
					requestID = uuid.New().String()
				} else {
					requestID = uuidV7.String()
				}
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and performance metrics.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()
			rid := ctxutil.GetRequestID(request.Context())
			ip := RealIP(request)

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With(
				slog.String("request_id", rid),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", ip),
			)

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			// 3. Proceed to downstream handlers with the enriched context
			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			// 4. Final log entry after the request is finished
			latency := time.Since(startTime).Milliseconds()
			logLevel := slog.LevelInfo

			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished",
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", latency),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// # Payload Limits

// BodyLimit caps the request body at [constants.MaxRequestBodyBytes].
//
// Oversized bodies make json.Decoder fail with a *http.MaxBytesError, which
// surfaces through the normal invalid-payload path.
func BodyLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxRequestBodyBytes)
			next.ServeHTTP(writer, request)
		})
	}
}

// # Rate Limiting

// RateLimiter throttles clients to [constants.RateLimitMaxRequests] per
// [constants.RateLimitWindow], keyed by client IP.
//
// # Backends
//
// With a Redis client the counter is a fixed window (INCR + EXPIRE) shared by
// every API instance. Without one it degrades to an in-process token bucket
// shaped to the same average rate — per instance, but good enough for a
// single-node deployment.
//
// Throttled requests receive a plain-text Vietnamese message, not JSON; the
// reader frontend shows it verbatim.
type RateLimiter struct {
	client *redis.Client

	mu      sync.Mutex
	buckets map[string]*localBucket
	logger  *slog.Logger
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	// localBucketCleanupInterval is how often idle IP entries are removed from memory.
	localBucketCleanupInterval = 5 * time.Minute
	// localBucketTTL is how long a client must be idle before its entry is deleted.
	localBucketTTL = 2 * constants.RateLimitWindow
)

// NewRateLimiter constructs a [RateLimiter]. client may be nil.
func NewRateLimiter(client *redis.Client, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		client:  client,
		buckets: make(map[string]*localBucket),
		logger:  logger,
	}
}

// Handler returns the middleware function applying the limit.
func (limiter *RateLimiter) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			clientIP := RealIP(request)

			allowed, retryAfter := limiter.allow(request, clientIP)
			if !allowed {
				writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
				if retryAfter > 0 {
					writer.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				}
				writer.WriteHeader(http.StatusTooManyRequests)
				_, _ = writer.Write([]byte(constants.RateLimitMessage))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// allow reports whether the client may proceed and, when throttled, how long
// until the window resets.
func (limiter *RateLimiter) allow(request *http.Request, clientIP string) (bool, time.Duration) {
	if limiter.client != nil {
		return limiter.allowRedis(request, clientIP)
	}
	return limiter.allowLocal(clientIP), 0
}

// allowRedis implements the shared fixed window counter.
func (limiter *RateLimiter) allowRedis(request *http.Request, clientIP string) (bool, time.Duration) {
	ctx := request.Context()
	key := constants.RedisPrefixRateLimit + clientIP

	count, err := limiter.client.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not take the API down with it: fail open.
		limiter.logger.Warn("rate_limit_redis_unavailable", slog.Any("error", err))
		return true, 0
	}

	// First hit in the window owns the expiry.
	if count == 1 {
		if err := limiter.client.Expire(ctx, key, constants.RateLimitWindow).Err(); err != nil {
			limiter.logger.Warn("rate_limit_expire_failed", slog.Any("error", err))
		}
	}

	if count > int64(constants.RateLimitMaxRequests) {
		ttl, err := limiter.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = constants.RateLimitWindow
		}
		return false, ttl
	}

	return true, 0
}

// allowLocal implements the in-process token bucket fallback.
func (limiter *RateLimiter) allowLocal(clientIP string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	bucket, found := limiter.buckets[clientIP]
	if !found {
		perSecond := rate.Limit(float64(constants.RateLimitMaxRequests) / constants.RateLimitWindow.Seconds())
		bucket = &localBucket{
			limiter: rate.NewLimiter(perSecond, constants.RateLimitMaxRequests),
		}
		limiter.buckets[clientIP] = bucket
	}

	bucket.lastSeen = time.Now()
	return bucket.limiter.Allow()
}

// StartCleanup launches the background eviction loop for the local buckets.
// It returns immediately; the loop stops when done is closed.
func (limiter *RateLimiter) StartCleanup(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(localBucketCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.mu.Lock()
				for ip, bucket := range limiter.buckets {
					if time.Since(bucket.lastSeen) > localBucketTTL {
						delete(limiter.buckets, ip)
					}
				}
				limiter.mu.Unlock()
			case <-done:
				return
			}
		}
	}()
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs stack trace, and returns 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Defer a recovery function to catch any runtime exceptions
			defer func() {
				if err := recover(); err != nil {

					// Capture the runtime stack trace for diagnostics
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					// Retrieve the request-specific logger from context if available
					reqLogger := ctxutil.GetLogger(request.Context())

					// Log the incident to our structured logging system
					reqLogger.ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					// Return a safe, generic error to the client
					writeMessage(writer, http.StatusInternalServerError, "Đã xảy ra lỗi, vui lòng thử lại sau")
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// CORS handles Cross-Origin Resource Sharing based on application environment.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check the Origin header
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Check if the origin is allowed (strict in PROD, open in DEV)
			isAllowed := false
			if cfg.IsDevelopment() {
				isAllowed = true
			} else if strings.HasSuffix(origin, "truyenhay.vn") {
				isAllowed = true
			} else {
				for _, allowed := range cfg.AllowedOrigins() {
					if origin == allowed {
						isAllowed = true
						break
					}
				}
			}

			// 3. Inject standard CORS headers if authorized
			if isAllowed {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Api-Key, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
			}

			// 4. Handle pre-flight requests (OPTIONS)
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {

	// Check standard proxy headers first
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	// Fallback to the direct connection's address
	host, _, _ := net.SplitHostPort(request.RemoteAddr)
	return host
}

// writeMessage outputs the single-field JSON error payload.
func writeMessage(writer http.ResponseWriter, status int, message string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{"message": message})
}
