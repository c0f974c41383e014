// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ngocdq/truyenhay/internal/platform/apperr"
	"github.com/ngocdq/truyenhay/internal/platform/dberr"
	"github.com/ngocdq/truyenhay/internal/platform/validate"
	"github.com/ngocdq/truyenhay/pkg/pagination"
	"github.com/ngocdq/truyenhay/pkg/sanitize"
	"github.com/ngocdq/truyenhay/pkg/slug"
)

// # User-Facing Messages
//
// The reader site displays these verbatim; wording changes break existing
// frontends that match on message text.
const (
	msgStoryNotFound   = "Không tìm thấy truyện"
	msgMissingTitle    = "Tiêu đề không được để trống"
	msgMissingFields   = "Thiếu number, type hoặc data"
	msgCreateFailed    = "Không thể tạo truyện"
	msgAppendFailed    = "Không thể thêm chương"
	msgInvalidImageURL = "Ảnh chương phải là đường dẫn http hoặc https"
	msgInvalidContent  = "Nội dung chương không hợp lệ"
)

// # Service Layer

// Service orchestrates the business logic for the story catalogue.
// It is the only layer that sanitizes input and derives slugs.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Inputs

// CreateStoryInput is the decoded payload for story creation.
type CreateStoryInput struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Cover       string   `json:"cover"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
}

// AppendChapterInput is the decoded payload for a chapter append.
//
// Data is kept raw because its shape depends on Type: a string of rich text
// for "text" chapters, an array of image URLs for "comic" chapters.
type AppendChapterInput struct {
	Number int             `json:"number"`
	Title  string          `json:"title"`
	Type   ChapterType     `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// # Catalogue Reads

/*
ListStories retrieves one fixed-size catalogue page.

Parameters:
  - context: context.Context
  - filter: Filter (title substring, genre membership)
  - page: pagination.Params

Returns:
  - []*ListItem: At most [pagination.PageSize] projections, newest update first
  - int: Total count matching the filter
  - error: Repository level errors
*/
func (service *Service) ListStories(context context.Context, filter Filter, page pagination.Params) ([]*ListItem, int, error) {
	return service.repo.List(context, filter, pagination.PageSize, page.Offset())
}

/*
GetStory fetches one full story by slug and records the read.

Description: Detail reads are deliberately not idempotent — every call
increments the view counter and refreshes updated_at, persisted before the
document is returned.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Story: The aggregate after the view increment
  - error: 404-class if the slug is unknown
*/
func (service *Service) GetStory(context context.Context, storySlug string) (*Story, error) {
	story, err := service.repo.IncrementViews(context, storySlug)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound(msgStoryNotFound)
		}
		return nil, err
	}
	return story, nil
}

// # Story Management

/*
CreateStory validates, sanitizes, and persists a new story.

Description: All free-text fields pass through the strict sanitizer (no
markup survives); the cover URL is prefix-validated instead. The slug is
derived from the title with an incrementing-suffix retry loop against the
store; the UNIQUE index remains the authoritative guard, and a losing
concurrent insert surfaces as a 400-class error.

Parameters:
  - context: context.Context
  - input: CreateStoryInput

Returns:
  - *Story: The persisted aggregate (empty chapter list, zero views)
  - error: Validation or persistence errors (both 400-class on this path)
*/
func (service *Service) CreateStory(context context.Context, input CreateStoryInput) (*Story, error) {

	// Title is the one hard-required field
	title := sanitize.Strict(input.Title)
	if title == "" {
		return nil, apperr.BadRequest(msgMissingTitle)
	}

	// Optional fields: sanitize then default
	author := sanitize.Strict(input.Author)
	if author == "" {
		author = DefaultAuthor
	}
	description := sanitize.Strict(input.Description)
	cover := strings.TrimSpace(input.Cover)

	genres := make([]string, 0, len(input.Genres))
	for _, genre := range input.Genres {
		if cleaned := sanitize.Strict(genre); cleaned != "" {
			genres = append(genres, cleaned)
		}
	}

	// Length and URL constraints
	validator := &validate.Validator{}
	validator.MaxLen("title", title, MaxTitleLen)
	validator.MaxLen("author", author, MaxAuthorLen)
	validator.MaxLen("description", description, MaxDescriptionLen)
	validator.URL("cover", cover)
	for _, genre := range genres {
		validator.MaxLen("genre", genre, MaxGenreLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Slug derivation with uniqueness pre-check
	storySlug, err := slug.Unique(context, title, service.repo.SlugExists)
	if err != nil {
		return nil, apperr.BadRequestWithCause(msgCreateFailed, err)
	}

	story := &Story{
		Title:       title,
		Author:      author,
		Cover:       cover,
		Description: description,
		Genres:      genres,
		Slug:        storySlug,
		Chapters:    []Chapter{},
	}

	// Persistence. This mutation path reports storage failures as 400-class;
	// the dberr unique-violation mapping (slug race) already is.
	if err := service.repo.Create(context, story); err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusBadRequest {
			return nil, err
		}
		return nil, apperr.BadRequestWithCause(msgCreateFailed, err)
	}

	service.logger.Info("story_created",
		slog.String("slug", story.Slug),
		slog.String("title", story.Title),
	)

	return story, nil
}

/*
AppendChapter validates and appends one chapter to an existing story.

Description: The chapter number must be unused within the story. The check
runs against a fresh read of the aggregate, and the append statement carries
a containment guard so a concurrent writer of the same number cannot slip
through between check and write.

Parameters:
  - context: context.Context
  - storySlug: string
  - input: AppendChapterInput

Returns:
  - int: The appended chapter number (for the acknowledgment message)
  - error: 400-class validation/duplicate/persistence errors, 404-class unknown slug
*/
func (service *Service) AppendChapter(context context.Context, storySlug string, input AppendChapterInput) (int, error) {

	// Required fields: number, type, data
	if input.Number == 0 || input.Type == "" || len(input.Data) == 0 || string(input.Data) == "null" {
		return 0, apperr.BadRequest(msgMissingFields)
	}

	validator := &validate.Validator{}
	validator.Positive("number", input.Number)
	validator.OneOf("type", string(input.Type), string(ChapterTypeText), string(ChapterTypeComic))
	if err := validator.Err(); err != nil {
		return 0, err
	}

	// Interpret data per chapter type
	content, images, err := decodeChapterData(input.Type, input.Data)
	if err != nil {
		return 0, err
	}

	// The story must exist before anything is appended
	story, err := service.repo.FindBySlug(context, storySlug)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return 0, apperr.NotFound(msgStoryNotFound)
		}
		return 0, err
	}

	// Application-layer duplicate check
	if story.HasChapter(input.Number) {
		return 0, apperr.BadRequest(duplicateChapterMessage(input.Number))
	}

	title := sanitize.Strict(input.Title)
	if title == "" {
		title = fmt.Sprintf("Chương %d", input.Number)
	}

	chapter := Chapter{
		Number:    input.Number,
		Title:     title,
		Content:   content,
		Images:    images,
		CreatedAt: time.Now().UTC(),
	}

	if err := service.repo.AppendChapter(context, storySlug, chapter); err != nil {
		if errors.Is(err, ErrChapterExists) {
			return 0, apperr.BadRequest(duplicateChapterMessage(input.Number))
		}
		// The story can be deleted between the read above and the append.
		if errors.Is(err, dberr.ErrNotFound) {
			return 0, apperr.NotFound(msgStoryNotFound)
		}
		// This mutation path reports storage failures as 400-class.
		return 0, apperr.BadRequestWithCause(msgAppendFailed, err)
	}

	service.logger.Info("chapter_appended",
		slog.String("slug", storySlug),
		slog.Int("number", chapter.Number),
		slog.String("type", string(input.Type)),
	)

	return chapter.Number, nil
}

/*
DeleteStory removes a story and, with it, every embedded chapter.

Parameters:
  - context: context.Context
  - storySlug: string

Returns:
  - error: 404-class unknown slug; 500-class storage failures
*/
func (service *Service) DeleteStory(context context.Context, storySlug string) error {
	if err := service.repo.Delete(context, storySlug); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound(msgStoryNotFound)
		}
		return err
	}

	service.logger.Info("story_deleted", slog.String("slug", storySlug))
	return nil
}

// # Helpers

// decodeChapterData interprets the raw data payload according to the chapter
// type: sanitized rich text for text chapters, prefix-validated image URLs
// for comic chapters. Exactly one of the returns is populated.
func decodeChapterData(chapterType ChapterType, data json.RawMessage) (content string, images []string, err error) {
	switch chapterType {
	case ChapterTypeComic:
		if err := json.Unmarshal(data, &images); err != nil || len(images) == 0 {
			return "", nil, apperr.BadRequest(msgMissingFields)
		}
		for _, imageURL := range images {
			if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
				return "", nil, apperr.BadRequest(msgInvalidImageURL)
			}
		}
		return "", images, nil

	default: // ChapterTypeText — the validator already constrained the set
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return "", nil, apperr.BadRequest(msgInvalidContent)
		}
		content = sanitize.ChapterContent(raw)
		if content == "" {
			return "", nil, apperr.BadRequest(msgMissingFields)
		}
		return content, []string{}, nil
	}
}

// duplicateChapterMessage formats the duplicate-number rejection.
func duplicateChapterMessage(number int) string {
	return fmt.Sprintf("Chương %d đã tồn tại", number)
}
