// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package sanitize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngocdq/truyenhay/pkg/sanitize"
)

/*
TestStrict verifies that every tag is stripped from plain-text fields.
*/
func TestStrict(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain_text", "Kiếm Hiệp Truyện", "Kiếm Hiệp Truyện"},
		{"script_removed", `<script>alert(1)</script>Tiên Nghịch`, "Tiên Nghịch"},
		{"bold_stripped", "<b>Đấu Phá</b> Thương Khung", "Đấu Phá Thương Khung"},
		{"img_removed", `<img src="https://x/1.jpg">Tác giả`, "Tác giả"},
		{"whitespace_trimmed", "  Mục Thần Ký  ", "Mục Thần Ký"},
		{"ampersand_kept", "Hỏi & Đáp", "Hỏi & Đáp"},
		{"quotes_kept", `Biên "Thành" Lãng Tử`, `Biên "Thành" Lãng Tử`},
		{"apostrophe_kept", "Don't Starve", "Don't Starve"},
		{"comparison_signs_kept", "5 < 10 > 2", "5 < 10 > 2"},
		{"ampersand_next_to_tag", "Tom & <b>Jerry</b>", "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize.Strict(tt.input))
		})
	}
}

/*
TestChapterContent verifies the reading allow-list: p, br, b, i, u, strong, em
survive verbatim; everything else is removed.
*/
func TestChapterContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"allowed_tags_preserved",
			"<p>Chương mở đầu <b>rất</b> <i>hay</i> <u>thật</u> <strong>đấy</strong> <em>nhé</em></p>",
			"<p>Chương mở đầu <b>rất</b> <i>hay</i> <u>thật</u> <strong>đấy</strong> <em>nhé</em></p>",
		},
		{
			"line_breaks_preserved",
			"Dòng một<br>Dòng hai",
			"Dòng một<br>Dòng hai",
		},
		{
			"script_removed",
			"<p>Nội dung</p><script>document.cookie</script>",
			"<p>Nội dung</p>",
		},
		{
			"disallowed_tags_unwrapped",
			`<div><h1>Tiêu đề</h1><p>Nội dung</p></div>`,
			"Tiêu đề<p>Nội dung</p>",
		},
		{
			"attributes_stripped",
			`<p style="color:red" onclick="x()">Nội dung</p>`,
			"<p>Nội dung</p>",
		},
		{
			"anchor_removed",
			`<p>Đọc thêm tại <a href="https://spam.vn">đây</a></p>`,
			"<p>Đọc thêm tại đây</p>",
		},
		{
			// Chapter content is stored and rendered as HTML, so text-node
			// escaping stays in place — only plain-text fields are unescaped.
			"entities_stay_escaped",
			"<p>Hỏi & Đáp</p>",
			"<p>Hỏi &amp; Đáp</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize.ChapterContent(tt.input))
		})
	}
}
