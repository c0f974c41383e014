// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are the public identifiers of stories (e.g., "kiem-hiep-truyen").
// This package handles normalization, accent removal, character sanitization,
// and numeric-suffix disambiguation against an existing slug set.
package slug

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
	// vietnameseD maps the one Vietnamese letter NFD cannot decompose.
	vietnameseD = strings.NewReplacer("đ", "d", "Đ", "D")
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Replaces đ/Đ (a base letter, not an accented one — NFD leaves it intact).
// 2. Normalizes to NFD (decomposes accented chars: ế → e + combining marks).
// 3. Removes combining marks (accents).
// 4. Converts to lowercase.
// 5. Replaces non-alphanumeric characters with hyphens.
// 6. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	// 1. Vietnamese đ handling
	s = vietnameseD.Replace(s)

	// 2. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 3. Lowercase
	result = strings.ToLower(result)

	// 4. Replace whitespace and special chars with hyphens
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// 5. Clean up hyphenation
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// fallbackBase keys stories whose title yields no ASCII at all.
const fallbackBase = "truyen"

// Unique derives a slug from title and disambiguates collisions by appending
// an incrementing numeric suffix: base, base-1, base-2, …
//
// A title of only punctuation or symbols slugifies to the empty string; an
// empty slug would be unreachable through /{slug} routes, so such titles
// fall back to a generic base and disambiguate from there.
//
// # Concurrency
//
// The existence pre-check is best-effort only — two concurrent creates with
// the same title can both pass it. The storage layer's UNIQUE index on slug
// is the authoritative guard; the losing insert surfaces as a 400-class
// rejection through dberr.
func Unique(ctx context.Context, title string, exists ExistsFunc) (string, error) {
	base := From(title)
	if base == "" {
		base = fallbackBase
	}
	candidate := base

	for suffix := 1; ; suffix++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(suffix)
	}
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
