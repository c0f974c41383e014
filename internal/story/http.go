// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package story

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngocdq/truyenhay/internal/platform/middleware"
	requestutil "github.com/ngocdq/truyenhay/internal/platform/request"
	"github.com/ngocdq/truyenhay/internal/platform/respond"
	"github.com/ngocdq/truyenhay/pkg/pagination"
)

// Handler implements the HTTP layer for the story catalogue.
type Handler struct {
	storyService *Service
	adminAPIKey  string
}

// NewHandler constructs a new story [Handler].
func NewHandler(service *Service, adminAPIKey string) *Handler {
	return &Handler{
		storyService: service,
		adminAPIKey:  adminAPIKey,
	}
}

// Routes returns a [chi.Router] configured with the story endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public catalogue
	router.Get("/", handler.listStories)
	router.Get("/{slug}", handler.getStory)

	// Admin publishing
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAPIKey(handler.adminAPIKey))

		admin.Post("/", handler.createStory)
		admin.Post("/{slug}/chapter", handler.appendChapter)
		admin.Delete("/{slug}", handler.deleteStory)
	})

	return router
}

// # Public Catalogue Endpoints

// listStoriesResponse is the paginated catalogue envelope.
type listStoriesResponse struct {
	Stories []*ListItem `json:"stories"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	HasMore bool        `json:"hasMore"`
}

/*
GET /api/stories.

Description: Retrieves one fixed-size page of story summaries, newest
update first. Supports title substring search and exact genre filtering.

Query:
  - page: positive integer, defaults to 1
  - search: title substring, case-insensitive
  - genre: exact genre name

Response:
  - 200: listStoriesResponse
*/
func (handler *Handler) listStories(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := Filter{
		Search: request.URL.Query().Get("search"),
		Genre:  request.URL.Query().Get("genre"),
	}

	stories, total, err := handler.storyService.ListStories(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listStoriesResponse{
		Stories: stories,
		Total:   total,
		Page:    page.Page,
		HasMore: page.HasMore(total),
	})
}

/*
GET /api/stories/{slug}.

Description: Retrieves one full story, chapters included. Every call counts
as a read: the view counter is incremented before the document is returned.

Response:
  - 200: Story
  - 404: Unknown slug
*/
func (handler *Handler) getStory(writer http.ResponseWriter, request *http.Request) {
	story, err := handler.storyService.GetStory(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, story)
}

// # Admin Publishing Endpoints

// createStoryResponse acknowledges a creation and echoes the stored record.
type createStoryResponse struct {
	Message string `json:"message"`
	Story   *Story `json:"story"`
}

/*
POST /api/stories.

Description: Creates a new story with an empty chapter list. The slug is
derived from the title server-side; clients never supply one.

Request:
  - body: CreateStoryInput
  - header: x-api-key

Response:
  - 201: createStoryResponse
  - 400: Validation or persistence failure
  - 401: Missing or wrong API key
*/
func (handler *Handler) createStory(writer http.ResponseWriter, request *http.Request) {
	var input CreateStoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	story, err := handler.storyService.CreateStory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, createStoryResponse{
		Message: "Tạo truyện thành công",
		Story:   story,
	})
}

/*
POST /api/stories/{slug}/chapter.

Description: Appends one chapter to an existing story. Chapter numbers are
unique within a story; clients choose them, the server only rejects reuse.

Request:
  - body: AppendChapterInput
  - header: x-api-key

Response:
  - 200: Acknowledgment naming the chapter number
  - 400: Validation, duplicate number, or persistence failure
  - 401: Missing or wrong API key
  - 404: Unknown slug
*/
func (handler *Handler) appendChapter(writer http.ResponseWriter, request *http.Request) {
	var input AppendChapterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	number, err := handler.storyService.AppendChapter(request.Context(), requestutil.Param(request, "slug"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, fmt.Sprintf("Đã thêm chương %d", number))
}

/*
DELETE /api/stories/{slug}.

Description: Removes a story and every chapter embedded in it.

Request:
  - header: x-api-key

Response:
  - 200: Acknowledgment
  - 401: Missing or wrong API key
  - 404: Unknown slug
  - 500: Persistence failure
*/
func (handler *Handler) deleteStory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.storyService.DeleteStory(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Đã xóa truyện")
}
