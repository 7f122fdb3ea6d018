package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedMergesFollowedContent(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "alice@example.com", "s3cret-pass", true, false)
	createAccount(t, db, "bob@example.com", "s3cret-pass", true, false)
	createAccount(t, db, "carol@example.com", "s3cret-pass", true, false)
	aliceTok := login(t, app, "alice@example.com", "s3cret-pass")
	bobTok := login(t, app, "bob@example.com", "s3cret-pass")
	carolTok := login(t, app, "carol@example.com", "s3cret-pass")

	status, _ := doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/users/2/follow", nil), aliceTok))
	require.Equal(t, http.StatusCreated, status)

	// Bob publishes a post and a photo, Carol a post, Alice a post of her
	// own. Carol is not followed so her post stays out.
	status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
		"content": "from bob",
	}), bobTok))
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, authed(multipartRequest(t, http.MethodPost, "/api/photos", "walk.jpg",
		[]byte("jpg-bytes"), map[string]string{"caption": "evening walk"}), bobTok))
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
		"content": "from carol",
	}), carolTok))
	require.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
		"content": "from alice",
	}), aliceTok))
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodGet, "/api/feed", nil), aliceTok))
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]any)
	require.Len(t, items, 3)

	kinds := map[string]int{}
	for _, raw := range items {
		item := raw.(map[string]any)
		kinds[item["kind"].(string)]++
		assert.NotEqual(t, float64(3), item["author_id"], "unfollowed author leaked into feed")
	}
	assert.Equal(t, 2, kinds["post"])
	assert.Equal(t, 1, kinds["photo"])

	// Explicit page size paginates the merged stream.
	status, body = doJSON(t, app, authed(jsonRequest(t, http.MethodGet, "/api/feed?page=1&per_page=2", nil), aliceTok))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 2)
	page := body["page"].(map[string]any)
	assert.EqualValues(t, 3, page["total"])
	assert.Equal(t, true, page["has_next"])

	status, body = doJSON(t, app, authed(jsonRequest(t, http.MethodGet, "/api/feed?page=2&per_page=2", nil), aliceTok))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)
}

func TestFeedHonorsPostsPerPageSetting(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "admin@example.com", "s3cret-pass", true, true)
	adminTok := login(t, app, "admin@example.com", "s3cret-pass")

	status, _ := doJSON(t, app, authed(jsonRequest(t, http.MethodPut, "/api/admin/settings/posts_per_page", fiber.Map{
		"value":      "2",
		"value_type": "int",
	}), adminTok))
	require.Equal(t, http.StatusOK, status)

	for i := 0; i < 3; i++ {
		status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
			"content": "entry",
		}), adminTok))
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodGet, "/api/feed", nil), adminTok))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 2)
	page := body["page"].(map[string]any)
	assert.EqualValues(t, 2, page["per_page"])
	assert.EqualValues(t, 3, page["total"])
}
