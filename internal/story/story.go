// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

/*
Package story defines the core domain of TruyenHay: published works and the
chapters embedded in them.

It manages the lifecycle of stories (truyện) — metadata, chapter appends,
view counting — for both text serials and image-based comics.

Core Responsibility:

  - Catalogue: Story metadata, genre tags, and slug identity.
  - Content: Chapters owned exclusively by their story; a chapter has no
    lifecycle of its own (no update, no delete, no renumbering).
  - Metrics: The per-story view counter driven by detail reads.

This package acts as the source of truth for all content-related data models.
*/
package story

import "time"

// # Domain Enums

// ChapterType discriminates how a chapter carries its content.
type ChapterType string

const (
	// ChapterTypeText is prose content: sanitized rich text in Chapter.Content.
	ChapterTypeText ChapterType = "text"

	// ChapterTypeComic is image content: an ordered URL list in Chapter.Images.
	ChapterTypeComic ChapterType = "comic"
)

// IsValid reports whether t is a recognised [ChapterType] value.
func (t ChapterType) IsValid() bool {
	switch t {
	case ChapterTypeText, ChapterTypeComic:
		return true
	}
	return false
}

// # Defaults

const (
	// DefaultAuthor is stored when no author is supplied ("Updating").
	DefaultAuthor = "Đang cập nhật"

	// MaxTitleLen, MaxAuthorLen, MaxDescriptionLen, MaxGenreLen bound the
	// free-text fields at creation time.
	MaxTitleLen       = 200
	MaxAuthorLen      = 100
	MaxDescriptionLen = 2000
	MaxGenreLen       = 50
)

// # Core Entities

// Story is the central aggregate of the TruyenHay domain: one published work
// with its full chapter list embedded.
//
// A story row is always read and written as a whole — chapter appends, view
// increments, and deletes each touch exactly one row in one statement.
type Story struct {
	// ID is the internal surrogate key; the public identifier is Slug.
	ID int64 `json:"-"`

	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Cover       string   `json:"cover"` // empty or http(s) URL
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Slug        string   `json:"slug"` // lowercase, globally unique, immutable

	// Chapters is ordered by append time. Number uniqueness within one story
	// is enforced at the application layer before persistence, with a jsonb
	// containment guard in the append statement as the concurrency backstop.
	Chapters []Chapter `json:"chapters"`

	// Views counts detail reads. Each read bumps it by one and refreshes
	// UpdatedAt, so recently-read stories float to the top of the catalogue.
	Views int64 `json:"views"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Chapter is one installment of a [Story], either text-based or image-based.
//
// Exactly one of Content and Images is populated depending on the chapter
// type; the other serializes as its empty value so clients always see both keys.
type Chapter struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasChapter reports whether a chapter with the given number already exists.
func (s *Story) HasChapter(number int) bool {
	for _, chapter := range s.Chapters {
		if chapter.Number == number {
			return true
		}
	}
	return false
}

// # Catalogue Projections

// ListItem is the projection returned by the catalogue list endpoint.
//
// Chapter bodies are deliberately absent: shipping full chapter content for
// 24 stories per page defeats the projection; the detail endpoint is the
// documented way to read chapters.
type ListItem struct {
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Author       string    `json:"author"`
	Cover        string    `json:"cover"`
	Genres       []string  `json:"genres"`
	Views        int64     `json:"views"`
	ChapterCount int       `json:"chapterCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered catalogue query.
type Filter struct {
	// Search is a case-insensitive substring match against the title.
	Search string
	// Genre is an exact membership match against the genre list.
	Genre string
}
