// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package story

import (
	"context"
	"errors"
)

// ErrChapterExists is returned by [Repository.AppendChapter] when a chapter
// with the same number landed on the story first (the concurrency backstop
// behind the service-layer duplicate check).
var ErrChapterExists = errors.New("story: chapter number already exists")

// # Story Data Access

// Repository defines the data access contract for the story domain.
type Repository interface {

	/*
		List returns a filtered, paginated slice of catalogue projections
		and the total count matching the filter.

		Parameters:
		  - context: context.Context
		  - filter: Filter (title substring, genre membership)
		  - limit: int
		  - offset: int

		Returns:
		  - []*ListItem: Page of projections, most recently updated first
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*ListItem, int, error)

	/*
		FindBySlug returns the full story, chapters included, without side effects.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Story: The hydrated aggregate
		  - error: dberr.ErrNotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Story, error)

	/*
		IncrementViews atomically bumps the view counter and updated_at on the
		story and returns the resulting full document. This is the detail-read
		path: the increment is persisted before the response is built.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Story: The aggregate after the increment
		  - error: dberr.ErrNotFound if missing
	*/
	IncrementViews(context context.Context, slug string) (*Story, error)

	/*
		SlugExists reports whether a story with the given slug exists. Used by
		the slug generator's best-effort pre-check.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - bool: true if taken
		  - error: Database retrieval failures
	*/
	SlugExists(context context.Context, slug string) (bool, error)

	/*
		Create persists a new story. The UNIQUE index on slug is the
		authoritative uniqueness guard; a losing concurrent insert surfaces
		as a 400-class error via dberr.

		Parameters:
		  - context: context.Context
		  - story: *Story (ID and timestamps are filled in by the store)

		Returns:
		  - error: Constraint or storage failures
	*/
	Create(context context.Context, story *Story) error

	/*
		AppendChapter atomically appends one chapter to the story's embedded
		list and bumps updated_at, guarded against a concurrent append of the
		same chapter number.

		Parameters:
		  - context: context.Context
		  - slug: string
		  - chapter: Chapter

		Returns:
		  - error: ErrChapterExists if the number guard rejected the append;
		    dberr.ErrNotFound if the story no longer exists
	*/
	AppendChapter(context context.Context, slug string, chapter Chapter) error

	/*
		Delete removes the story row — and with it every embedded chapter —
		in a single statement.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - error: dberr.ErrNotFound if no row matched
	*/
	Delete(context context.Context, slug string) error
}
