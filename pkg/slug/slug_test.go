// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package slug_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngocdq/truyenhay/pkg/slug"
)

/*
TestFrom verifies the Unicode → ASCII transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"vietnamese_accents", "Kiếm Hiệp Truyện", "kiem-hiep-truyen"},
		{"vietnamese_d", "Đấu Phá Thương Khung", "dau-pha-thuong-khung"},
		{"mixed_case", "Solo Leveling", "solo-leveling"},
		{"punctuation", "Ta Là... Ai?!", "ta-la-ai"},
		{"consecutive_separators", "One  --  Piece", "one-piece"},
		{"leading_trailing", "  Tiên Nghịch  ", "tien-nghich"},
		{"digits_kept", "Mục Thần Ký 2", "muc-than-ky-2"},
		{"symbols_only_yields_empty", "!?!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

/*
TestUnique_NoCollision returns the base slug untouched when it is free.
*/
func TestUnique_NoCollision(t *testing.T) {
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return false, nil
	}

	result, err := slug.Unique(context.Background(), "Kiếm Hiệp Truyện", exists)
	require.NoError(t, err)
	assert.Equal(t, "kiem-hiep-truyen", result)
}

/*
TestUnique_SuffixSequence verifies the base, base-1, base-2, … progression.
*/
func TestUnique_SuffixSequence(t *testing.T) {
	taken := map[string]bool{}
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return taken[candidate], nil
	}

	expected := []string{"kiem-hiep-truyen", "kiem-hiep-truyen-1", "kiem-hiep-truyen-2"}
	for _, want := range expected {
		result, err := slug.Unique(context.Background(), "Kiếm Hiệp Truyện", exists)
		require.NoError(t, err)
		assert.Equal(t, want, result)
		taken[result] = true
	}
}

/*
TestUnique_FallbackBase verifies that a title yielding no ASCII still gets a
non-empty slug, with the normal suffix progression for collisions.
*/
func TestUnique_FallbackBase(t *testing.T) {
	taken := map[string]bool{}
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return taken[candidate], nil
	}

	for _, want := range []string{"truyen", "truyen-1"} {
		result, err := slug.Unique(context.Background(), "!?!", exists)
		require.NoError(t, err)
		assert.Equal(t, want, result)
		taken[result] = true
	}
}

/*
TestUnique_PropagatesStoreError surfaces lookup failures instead of guessing.
*/
func TestUnique_PropagatesStoreError(t *testing.T) {
	exists := func(ctx context.Context, candidate string) (bool, error) {
		return false, assert.AnError
	}

	_, err := slug.Unique(context.Background(), "Tiên Nghịch", exists)
	assert.ErrorIs(t, err, assert.AnError)
}
