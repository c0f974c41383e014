// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

/*
Package story provides the PostgreSQL implementation for the catalogue's data access.

Each story is stored as a single row with the chapter list in a jsonb column,
preserving the one-document-per-story atomicity of the original data model:

  - Appends: 'chapters || $n' concatenation with a '@>' containment guard,
    so a duplicate chapter number can never land even under concurrency.
  - View counts: one UPDATE ... RETURNING round-trip per detail read.
  - Deletes: removing the row removes every embedded chapter with it.
  - Slug identity: a UNIQUE index on slug is the authoritative guard behind
    the generator's best-effort pre-check.
*/
package story

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocdq/truyenhay/internal/platform/dberr"
)

// storyColumns is the full column list selected for aggregate reads.
const storyColumns = "id, title, author, cover, description, genres, slug, chapters, views, created_at, updated_at"

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed story store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// # Repository Implementation

/*
List returns a filtered, paginated slice of catalogue projections and the
total count.

Description: The count and the page run as two queries sharing one
dynamically built WHERE clause. Pagination is pure skip/limit, so the total
must come from its own COUNT — a window function would report zero for pages
past the end of the result set.

Parameters:
  - context: context.Context
  - filter: Filter (title substring, genre membership)
  - limit: int
  - offset: int

Returns:
  - []*ListItem: Page of projections
  - int: Total count matching the filter
  - error: Database execution errors
*/
func (repository *postgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*ListItem, int, error) {

	// Dynamic WHERE clause shared by both queries
	var whereBuilder strings.Builder
	var args []any
	argID := 1

	whereBuilder.WriteString(" WHERE TRUE")

	// Title substring search (case-insensitive). The search term is literal
	// text, so LIKE metacharacters in it are escaped: "100%" must not match
	// every title containing "100".
	if filter.Search != "" {
		whereBuilder.WriteString(fmt.Sprintf(" AND title ILIKE '%%' || $%d || '%%'", argID))
		args = append(args, escapeLikePattern(filter.Search))
		argID++
	}

	// Genre membership
	if filter.Genre != "" {
		whereBuilder.WriteString(fmt.Sprintf(" AND $%d = ANY(genres)", argID))
		args = append(args, filter.Genre)
		argID++
	}

	// 1. Total count for pagination metadata
	var total int
	countQuery := "SELECT COUNT(*) FROM stories" + whereBuilder.String()
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	// 2. Page query, most recently updated first. The id tie-break keeps
	// ordering deterministic when updated_at collides.
	pageQuery := fmt.Sprintf(`
		SELECT title, slug, author, cover, genres, views,
			jsonb_array_length(chapters) AS chapter_count, updated_at
		FROM stories%s
		ORDER BY updated_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, whereBuilder.String(), argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	items := make([]*ListItem, 0, limit)
	for rows.Next() {
		item := &ListItem{}
		if err := rows.Scan(
			&item.Title,
			&item.Slug,
			&item.Author,
			&item.Cover,
			&item.Genres,
			&item.Views,
			&item.ChapterCount,
			&item.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	return items, total, nil
}

/*
FindBySlug returns the full story aggregate without side effects.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Story: The hydrated aggregate
  - error: dberr.ErrNotFound if missing
*/
func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*Story, error) {
	query := "SELECT " + storyColumns + " FROM stories WHERE slug = $1"
	return repository.scanStory(repository.pool.QueryRow(context, query, slug))
}

/*
IncrementViews bumps views and updated_at in one statement and returns the
resulting aggregate.

Description: UPDATE ... RETURNING makes the detail-read side effect atomic;
the counter is persisted before the caller ever sees the document.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Story: The aggregate after the increment
  - error: dberr.ErrNotFound if missing
*/
func (repository *postgresRepository) IncrementViews(context context.Context, slug string) (*Story, error) {
	query := `
		UPDATE stories
		SET views = views + 1, updated_at = now()
		WHERE slug = $1
		RETURNING ` + storyColumns
	return repository.scanStory(repository.pool.QueryRow(context, query, slug))
}

/*
SlugExists reports whether the slug is already taken.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - bool: true if a story with this slug exists
  - error: Database execution errors
*/
func (repository *postgresRepository) SlugExists(context context.Context, slug string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM stories WHERE slug = $1)"
	if err := repository.pool.QueryRow(context, query, slug).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "")
	}
	return exists, nil
}

/*
Create inserts the story row and fills in its generated ID and timestamps.

Parameters:
  - context: context.Context
  - story: *Story

Returns:
  - error: 400-class via dberr on slug unique violation, otherwise storage failures
*/
func (repository *postgresRepository) Create(context context.Context, story *Story) error {
	chaptersJSON, err := json.Marshal(story.Chapters)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	query := `
		INSERT INTO stories (title, author, cover, description, genres, slug, chapters)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, views, created_at, updated_at`

	err = repository.pool.QueryRow(context, query,
		story.Title,
		story.Author,
		story.Cover,
		story.Description,
		story.Genres,
		story.Slug,
		chaptersJSON,
	).Scan(&story.ID, &story.Views, &story.CreatedAt, &story.UpdatedAt)

	return dberr.Wrap(err, "Truyện với đường dẫn này đã tồn tại")
}

/*
AppendChapter concatenates one chapter onto the embedded list and bumps
updated_at, in a single guarded statement.

Description: The '@>' containment predicate rejects the append when any
existing element already carries the same chapter number. The service layer
has already checked, so zero affected rows means either a concurrent writer
of the same number won, or the row itself was deleted since that check; the
two are told apart by re-probing existence.

Parameters:
  - context: context.Context
  - slug: string
  - chapter: Chapter

Returns:
  - error: ErrChapterExists when the number guard rejected the append;
    dberr.ErrNotFound when the story vanished underneath it
*/
func (repository *postgresRepository) AppendChapter(context context.Context, slug string, chapter Chapter) error {
	chapterJSON, err := json.Marshal(chapter)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	numberGuard, err := json.Marshal([]map[string]int{{"number": chapter.Number}})
	if err != nil {
		return dberr.Wrap(err, "")
	}

	query := `
		UPDATE stories
		SET chapters = chapters || jsonb_build_array($2::jsonb), updated_at = now()
		WHERE slug = $1 AND NOT (chapters @> $3::jsonb)`

	tag, err := repository.pool.Exec(context, query, slug, chapterJSON, numberGuard)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	if tag.RowsAffected() == 0 {
		exists, existsErr := repository.SlugExists(context, slug)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return dberr.ErrNotFound
		}
		return ErrChapterExists
	}

	return nil
}

/*
Delete removes the story row, cascading to every embedded chapter by virtue
of the single-row layout.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - error: dberr.ErrNotFound if no row matched
*/
func (repository *postgresRepository) Delete(context context.Context, slug string) error {
	tag, err := repository.pool.Exec(context, "DELETE FROM stories WHERE slug = $1", slug)
	if err != nil {
		return dberr.Wrap(err, "")
	}

	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// scanStory hydrates one full aggregate from a row selecting [storyColumns].
func (repository *postgresRepository) scanStory(row pgx.Row) (*Story, error) {
	story := &Story{}
	err := row.Scan(
		&story.ID,
		&story.Title,
		&story.Author,
		&story.Cover,
		&story.Description,
		&story.Genres,
		&story.Slug,
		&story.Chapters,
		&story.Views,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	// jsonb '[]' can scan to a nil slice; the API contract promises an array.
	if story.Chapters == nil {
		story.Chapters = []Chapter{}
	}
	if story.Genres == nil {
		story.Genres = []string{}
	}

	return story, nil
}

// likeReplacer escapes the LIKE/ILIKE pattern metacharacters. Backslash is
// PostgreSQL's default escape character for LIKE.
var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes pattern metacharacters in user-supplied
// search text so it matches as a literal substring.
func escapeLikePattern(search string) string {
	return likeReplacer.Replace(search)
}
