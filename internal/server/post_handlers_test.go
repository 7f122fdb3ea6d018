package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gather/internal/models"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	_, app, _ := newTestServer(t)

	status, _ := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
		"content": "hello",
	}))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPostLifecycle(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "author@example.com", "s3cret-pass", true, false)
	tok := login(t, app, "author@example.com", "s3cret-pass")

	status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
		"content": "First post, hello everyone!",
		"tags":    "intro, Hello",
	}), tok))
	require.Equal(t, http.StatusCreated, status)
	postID := int(body["id"].(float64))
	require.Positive(t, postID)

	t.Run("visible anonymously once published", func(t *testing.T) {
		status, body := doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/posts/1", nil))
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "First post, hello everyone!", body["content"])
	})

	t.Run("listed under its tag", func(t *testing.T) {
		status, body := doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/posts/tag/intro", nil))
		require.Equal(t, http.StatusOK, status)
		items := body["items"].([]any)
		assert.Len(t, items, 1)
	})

	t.Run("edit by a stranger is forbidden", func(t *testing.T) {
		createAccount(t, db, "other@example.com", "s3cret-pass", true, false)
		otherTok := login(t, app, "other@example.com", "s3cret-pass")
		status, _ := doJSON(t, app, authed(jsonRequest(t, http.MethodPut, "/api/posts/1", fiber.Map{
			"content": "hijacked",
		}), otherTok))
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("delete by the author", func(t *testing.T) {
		status, _ := doJSON(t, app, authed(jsonRequest(t, http.MethodDelete, "/api/posts/1", nil), tok))
		require.Equal(t, http.StatusOK, status)
		status, _ = doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/posts/1", nil))
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestDraftIsHiddenFromStrangers(t *testing.T) {
	_, app, db := newTestServer(t)
	author := createAccount(t, db, "author@example.com", "s3cret-pass", true, false)
	draft := &models.Post{UserID: author.ID, Content: "unfinished thought"}
	require.NoError(t, db.Create(draft).Error)

	status, _ := doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/posts/1", nil))
	assert.Equal(t, http.StatusNotFound, status)

	tok := login(t, app, "author@example.com", "s3cret-pass")
	status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodGet, "/api/posts/1", nil), tok))
	assert.Equal(t, http.StatusOK, status)
}

func TestLikeAndCommentRoutes(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "author@example.com", "s3cret-pass", true, false)
	createAccount(t, db, "fan@example.com", "s3cret-pass", true, false)
	authorTok := login(t, app, "author@example.com", "s3cret-pass")
	fanTok := login(t, app, "fan@example.com", "s3cret-pass")

	status, _ := doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
		"content": "like me",
	}), authorTok))
	require.Equal(t, http.StatusCreated, status)

	t.Run("like then duplicate like", func(t *testing.T) {
		status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts/1/like", nil), fanTok))
		require.Equal(t, http.StatusCreated, status)
		assert.EqualValues(t, 1, body["likes_count"])

		status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts/1/like", nil), fanTok))
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("unlike", func(t *testing.T) {
		status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodDelete, "/api/posts/1/like", nil), fanTok))
		require.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 0, body["likes_count"])
	})

	t.Run("comment and reply", func(t *testing.T) {
		status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/posts/1/comments", fiber.Map{
			"body": "nice one",
		}), fanTok))
		require.Equal(t, http.StatusCreated, status)
		commentID := int(body["id"].(float64))

		status, _ = doJSON(t, app, authed(jsonRequest(t, http.MethodPost,
			"/api/comments/1/replies", fiber.Map{"body": "thanks!"}), authorTok))
		require.Equal(t, http.StatusCreated, status)

		status, body = doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/posts/1/comments", nil))
		require.Equal(t, http.StatusOK, status)
		items := body["items"].([]any)
		assert.Len(t, items, 2)
		_ = commentID
	})

	t.Run("notifications reached the author", func(t *testing.T) {
		status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodGet,
			"/api/notifications/unread-count", nil), authorTok))
		require.Equal(t, http.StatusOK, status)
		// One like was taken back, but its notification survives, plus the
		// comment notification.
		assert.EqualValues(t, 2, body["unread"])
	})
}
