// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// The catalogue paginates with a fixed page size of 24 stories and pure
// skip/limit offsets. Offset paging shifts under concurrent inserts and
// deletes; that is an accepted property of the site contract, not a bug.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// PageSize is the fixed number of items per catalogue page.
	PageSize = 24
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page from a request's query string.
type Params struct {
	Page int
}

// Offset returns the SQL OFFSET value derived from [Params.Page].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * PageSize
}

// HasMore reports whether pages beyond [Params.Page] exist for the given total.
func (p Params) HasMore(total int) bool {
	return p.Page*PageSize < total
}

// FromRequest parses the "page" query parameter from an HTTP request.
//
// # Clamping
//
// Missing, invalid, or non-positive values fall back to [DefaultPage].
func FromRequest(r *http.Request) Params {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return Params{Page: DefaultPage}
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return Params{Page: DefaultPage}
	}

	return Params{Page: page}
}
