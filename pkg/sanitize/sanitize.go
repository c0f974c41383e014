// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

// Package sanitize strips untrusted HTML from free-text input before storage.
//
// # Policies
//
// Two bluemonday policies cover every text field in the system:
//
//   - Strict: no markup at all. Applied to story titles, author names,
//     descriptions, genre tags, and chapter titles.
//   - Chapter: the minimal rich-text subset readers need — paragraphs, line
//     breaks, and inline emphasis. Applied to text-chapter content only.
//
// URL fields (cover, chapter images) never pass through here; they are
// validated by scheme prefix instead.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy  = bluemonday.StrictPolicy()
	chapterPolicy = newChapterPolicy()
)

// newChapterPolicy builds the allow-list for text-chapter content.
func newChapterPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "b", "i", "u", "strong", "em")
	return policy
}

// Strict removes every HTML tag from s, returning trimmed plain text.
//
// The sanitizer entity-escapes the text nodes it keeps ("&" → "&amp;").
// Strict's output is stored and served as plain text, never re-rendered as
// HTML, so the escapes are reversed: "Hỏi & Đáp" must survive byte-for-byte.
// No markup remains at that point, which makes the unescape safe.
func Strict(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// ChapterContent removes all markup outside the reading allow-list
// (p, br, b, i, u, strong, em) and strips every attribute.
//
// Unlike [Strict], the output here is stored as HTML and rendered by the
// reader, so entity escapes in text nodes are kept.
func ChapterContent(s string) string {
	return strings.TrimSpace(chapterPolicy.Sanitize(s))
}
