// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngocdq/truyenhay/pkg/pagination"
)

/*
TestFromRequest verifies page parsing and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected int
	}{
		{"missing_defaults_to_one", "/api/stories", 1},
		{"explicit_page", "/api/stories?page=3", 3},
		{"zero_clamped", "/api/stories?page=0", 1},
		{"negative_clamped", "/api/stories?page=-2", 1},
		{"garbage_clamped", "/api/stories?page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.expected, pagination.FromRequest(request).Page)
		})
	}
}

/*
TestOffset verifies the skip/limit arithmetic at the fixed page size.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1}.Offset())
	assert.Equal(t, 24, pagination.Params{Page: 2}.Offset())
	assert.Equal(t, 96, pagination.Params{Page: 5}.Offset())
}

/*
TestHasMore verifies hasMore is true iff page*24 < total.
*/
func TestHasMore(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		total   int
		hasMore bool
	}{
		{"empty_catalogue", 1, 0, false},
		{"exactly_one_page", 1, 24, false},
		{"one_over", 1, 25, true},
		{"middle_page", 2, 100, true},
		{"last_partial_page", 5, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasMore, pagination.Params{Page: tt.page}.HasMore(tt.total))
		})
	}
}
