// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

// Package middleware provides the HTTP middleware chain for the TruyenHay API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This file holds the admin gate:
// one shared static secret, no sessions, no per-admin identity.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ngocdq/truyenhay/internal/platform/apperr"
	"github.com/ngocdq/truyenhay/internal/platform/constants"
	"github.com/ngocdq/truyenhay/internal/platform/respond"
)

// RequireAPIKey blocks requests whose x-api-key header does not exactly match
// the configured admin secret.
//
// # Flow
//  1. Read the 'x-api-key' header.
//  2. Compare against the configured secret (case-sensitive, constant time).
//  3. On mismatch or absence, abort with HTTP 401 before any handler logic runs.
//
// # Parameters
//   - secret: The configured admin secret (never empty; config marks it required).
//
// # Returns
//   - An [http.Handler] middleware.
func RequireAPIKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			supplied := request.Header.Get(constants.HeaderAPIKey)

			// ── 1. Presence Check ─────────────────────────────────────────────
			if supplied == "" {
				respond.Error(writer, request, apperr.Unauthorized(constants.MsgInvalidAPIKey))
				return
			}

			// ── 2. Constant-Time Comparison ───────────────────────────────────
			// subtle avoids leaking how many leading characters matched.
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				respond.Error(writer, request, apperr.Unauthorized(constants.MsgInvalidAPIKey))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
