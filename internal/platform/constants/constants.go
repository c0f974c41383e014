// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: The fixed request window applied to /api routes.
  - Listing: The fixed page size of the public catalogue.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "truyenhay-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Request Limits

const (
	// MaxRequestBodyBytes caps request bodies at 20 MB. Chapter payloads can
	// carry long text or large image URL lists, but nothing should approach this.
	MaxRequestBodyBytes = 20 << 20

	// RateLimitWindow is the fixed window over which API requests are counted.
	RateLimitWindow = 15 * time.Minute

	// RateLimitMaxRequests is the number of requests one client may make per window.
	RateLimitMaxRequests = 300

	// RateLimitMessage is the plain-text body returned to throttled clients.
	RateLimitMessage = "Quá nhiều yêu cầu từ IP này, vui lòng thử lại sau 15 phút."
)

// # Authentication

const (
	// HeaderAPIKey is the request header carrying the shared admin secret.
	HeaderAPIKey = "x-api-key"

	// MsgInvalidAPIKey is returned verbatim when the admin secret is missing
	// or wrong. Existing admin tooling matches on this exact string.
	MsgInvalidAPIKey = "Unauthorized: Invalid API Key"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderContentType   = "Content-Type"

	// ContentTypeJSON is the media type for every API response body.
	ContentTypeJSON = "application/json; charset=utf-8"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixRateLimit = "ratelimit:ip:"
)
