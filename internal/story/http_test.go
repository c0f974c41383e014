// Copyright (c) 2026 TruyenHay. All rights reserved.
// Author: ngocdq.dev@gmail.com

package story_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngocdq/truyenhay/internal/platform/constants"
	"github.com/ngocdq/truyenhay/internal/story"
)

const testAPIKey = "test-admin-key"

// newTestServer mounts the story routes the way the API server does and
// returns the repository for seeding and inspection.
func newTestServer(t *testing.T) (*httptest.Server, *fakeRepository, *story.Service) {
	t.Helper()

	repo := newFakeRepository()
	service := newTestService(repo)
	handler := story.NewHandler(service, testAPIKey)

	router := chi.NewRouter()
	router.Mount("/api/stories", handler.Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo, service
}

func doJSON(t *testing.T, method, url, apiKey string, payload any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	request, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	if apiKey != "" {
		request.Header.Set(constants.HeaderAPIKey, apiKey)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()
	require.NoError(t, json.NewDecoder(response.Body).Decode(target))
}

// # Admin Gate

/*
TestAdminGate verifies that every mutating endpoint rejects requests without
the exact shared key, and that read endpoints need none.
*/
func TestAdminGate(t *testing.T) {
	server, _, _ := newTestServer(t)

	testCases := []struct {
		name   string
		method string
		path   string
		apiKey string
	}{
		{name: "create without key", method: http.MethodPost, path: "/api/stories", apiKey: ""},
		{name: "create with wrong key", method: http.MethodPost, path: "/api/stories", apiKey: "wrong"},
		{name: "append without key", method: http.MethodPost, path: "/api/stories/x/chapter", apiKey: ""},
		{name: "delete without key", method: http.MethodDelete, path: "/api/stories/x", apiKey: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			response := doJSON(t, testCase.method, server.URL+testCase.path, testCase.apiKey, map[string]string{})

			assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
			var body map[string]string
			decodeBody(t, response, &body)
			assert.Equal(t, "Unauthorized: Invalid API Key", body["message"])
		})
	}

	// Public reads carry no key
	response, err := http.Get(server.URL + "/api/stories")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

// # Catalogue Endpoints

/*
TestListStories_EmptyCatalogue verifies the envelope of an empty first page:
stories serializes as an empty array, never null.
*/
func TestListStories_EmptyCatalogue(t *testing.T) {
	server, _, _ := newTestServer(t)

	response, err := http.Get(server.URL + "/api/stories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)

	var body struct {
		Stories json.RawMessage `json:"stories"`
		Total   int             `json:"total"`
		Page    int             `json:"page"`
		HasMore bool            `json:"hasMore"`
	}
	decodeBody(t, response, &body)

	assert.Equal(t, "[]", string(body.Stories))
	assert.Zero(t, body.Total)
	assert.Equal(t, 1, body.Page)
	assert.False(t, body.HasMore)
}

/*
TestListStories_Pagination verifies the fixed page size of 24 and the
hasMore arithmetic across page boundaries.
*/
func TestListStories_Pagination(t *testing.T) {
	server, _, service := newTestServer(t)

	for i := 1; i <= 25; i++ {
		_, err := service.CreateStory(context.Background(), story.CreateStoryInput{
			Title: fmt.Sprintf("Truyện Số %d", i),
		})
		require.NoError(t, err)
	}

	type listBody struct {
		Stories []story.ListItem `json:"stories"`
		Total   int              `json:"total"`
		Page    int              `json:"page"`
		HasMore bool             `json:"hasMore"`
	}

	// 1. First page is full and reports more
	response, err := http.Get(server.URL + "/api/stories?page=1")
	require.NoError(t, err)
	var first listBody
	decodeBody(t, response, &first)
	assert.Len(t, first.Stories, 24)
	assert.Equal(t, 25, first.Total)
	assert.True(t, first.HasMore)

	// 2. Second page holds the remainder
	response, err = http.Get(server.URL + "/api/stories?page=2")
	require.NoError(t, err)
	var second listBody
	decodeBody(t, response, &second)
	assert.Len(t, second.Stories, 1)
	assert.Equal(t, 2, second.Page)
	assert.False(t, second.HasMore)

	// 3. A page past the end is empty but still reports the total
	response, err = http.Get(server.URL + "/api/stories?page=9")
	require.NoError(t, err)
	var ninth listBody
	decodeBody(t, response, &ninth)
	assert.Empty(t, ninth.Stories)
	assert.Equal(t, 25, ninth.Total)
	assert.False(t, ninth.HasMore)
}

/*
TestGetStory_NotFoundBody verifies the single-field error envelope of a
detail miss.
*/
func TestGetStory_NotFoundBody(t *testing.T) {
	server, _, _ := newTestServer(t)

	response, err := http.Get(server.URL + "/api/stories/khong-ton-tai")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	var body map[string]string
	decodeBody(t, response, &body)
	assert.Equal(t, map[string]string{"message": "Không tìm thấy truyện"}, body)
}

// # Publishing Flow

/*
TestPublishingFlow exercises the full admin lifecycle over HTTP: create,
append a chapter, read it back, delete.
*/
func TestPublishingFlow(t *testing.T) {
	server, _, _ := newTestServer(t)

	// 1. Create
	response := doJSON(t, http.MethodPost, server.URL+"/api/stories", testAPIKey, map[string]any{
		"title":  "Kiếm Hiệp Truyện",
		"author": "Vô Danh",
		"cover":  "https://cdn.example.com/cover.jpg",
		"genres": []string{"Kiếm Hiệp"},
	})
	require.Equal(t, http.StatusCreated, response.StatusCode)

	var created struct {
		Message string      `json:"message"`
		Story   story.Story `json:"story"`
	}
	decodeBody(t, response, &created)
	assert.Equal(t, "Tạo truyện thành công", created.Message)
	assert.Equal(t, "kiem-hiep-truyen", created.Story.Slug)
	require.NotNil(t, created.Story.Chapters)
	assert.Empty(t, created.Story.Chapters)

	// 2. Append a chapter
	response = doJSON(t, http.MethodPost, server.URL+"/api/stories/kiem-hiep-truyen/chapter", testAPIKey, map[string]any{
		"number": 1,
		"type":   "text",
		"data":   "<p>Chương đầu tiên.</p>",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	var appended map[string]string
	decodeBody(t, response, &appended)
	assert.Equal(t, "Đã thêm chương 1", appended["message"])

	// 3. Read back: the chapter is attached and the read was counted
	response, err := http.Get(server.URL + "/api/stories/kiem-hiep-truyen")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)
	var fetched story.Story
	decodeBody(t, response, &fetched)
	require.Len(t, fetched.Chapters, 1)
	assert.Equal(t, 1, fetched.Chapters[0].Number)
	assert.Equal(t, int64(1), fetched.Views)

	// 4. Delete
	response = doJSON(t, http.MethodDelete, server.URL+"/api/stories/kiem-hiep-truyen", testAPIKey, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	var deleted map[string]string
	decodeBody(t, response, &deleted)
	assert.Equal(t, "Đã xóa truyện", deleted["message"])

	// 5. Gone
	response, err = http.Get(server.URL + "/api/stories/kiem-hiep-truyen")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

/*
TestCreateStory_MalformedJSON verifies the decode-failure envelope.
*/
func TestCreateStory_MalformedJSON(t *testing.T) {
	server, _, _ := newTestServer(t)

	request, err := http.NewRequest(http.MethodPost, server.URL+"/api/stories", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	request.Header.Set(constants.HeaderAPIKey, testAPIKey)

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	var body map[string]string
	decodeBody(t, response, &body)
	assert.Equal(t, "Dữ liệu gửi lên không hợp lệ", body["message"])
}

/*
TestAppendChapter_DuplicateOverHTTP verifies the duplicate-number rejection
end to end.
*/
func TestAppendChapter_DuplicateOverHTTP(t *testing.T) {
	server, _, service := newTestServer(t)

	created, err := service.CreateStory(context.Background(), story.CreateStoryInput{Title: "Truyện"})
	require.NoError(t, err)

	payload := map[string]any{"number": 7, "type": "text", "data": "nội dung"}
	response := doJSON(t, http.MethodPost, server.URL+"/api/stories/"+created.Slug+"/chapter", testAPIKey, payload)
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = doJSON(t, http.MethodPost, server.URL+"/api/stories/"+created.Slug+"/chapter", testAPIKey, payload)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)

	var body map[string]string
	decodeBody(t, response, &body)
	assert.Equal(t, "Chương 7 đã tồn tại", body["message"])
}
