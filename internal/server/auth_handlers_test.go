package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesPendingAccount(t *testing.T) {
	_, app, db := newTestServer(t)

	status, body := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":        "new@example.com",
		"display_name": "New Member",
		"password":     "s3cret-pass",
	}))
	require.Equal(t, http.StatusCreated, status)

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, user["is_active"])
	assert.Equal(t, false, user["is_approved"])

	// The pending account cannot log in yet.
	status, body = doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "new@example.com",
		"password": "s3cret-pass",
	}))
	assert.Equal(t, http.StatusForbidden, status)
	assert.NotEmpty(t, body["error"])

	var count int64
	require.NoError(t, db.Table("users").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidationErrors(t *testing.T) {
	_, app, _ := newTestServer(t)

	status, body := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email":        "not-an-email",
		"display_name": "",
		"password":     "x",
	}))
	require.Equal(t, http.StatusBadRequest, status)

	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "display_name")
	assert.Contains(t, fields, "password")
}

func TestLoginOutcomes(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "member@example.com", "s3cret-pass", true, false)

	t.Run("success returns a usable session token", func(t *testing.T) {
		tok := login(t, app, "member@example.com", "s3cret-pass")

		status, body := doJSON(t, app, authed(jsonRequest(t, http.MethodGet, "/api/users/me", nil), tok))
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "member@example.com", body["email"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status, _ := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"email":    "member@example.com",
			"password": "wrong",
		}))
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("unknown email", func(t *testing.T) {
		status, _ := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", fiber.Map{
			"email":    "ghost@example.com",
			"password": "whatever",
		}))
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestChangePasswordRoundTrip(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "member@example.com", "old-password1", true, false)
	tok := login(t, app, "member@example.com", "old-password1")

	status, _ := doJSON(t, app, authed(jsonRequest(t, http.MethodPost, "/api/auth/change-password", fiber.Map{
		"old_password": "old-password1",
		"new_password": "new-password2",
	}), tok))
	require.Equal(t, http.StatusOK, status)

	// Old password no longer works; new one does.
	status, _ = doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "member@example.com",
		"password": "old-password1",
	}))
	assert.Equal(t, http.StatusUnauthorized, status)
	login(t, app, "member@example.com", "new-password2")
}

func TestPasswordResetDoesNotLeakMembership(t *testing.T) {
	_, app, db := newTestServer(t)
	createAccount(t, db, "member@example.com", "s3cret-pass", true, false)

	statusKnown, _ := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/reset-request", fiber.Map{
		"email": "member@example.com",
	}))
	statusUnknown, _ := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/reset-request", fiber.Map{
		"email": "ghost@example.com",
	}))
	assert.Equal(t, http.StatusOK, statusKnown)
	assert.Equal(t, http.StatusOK, statusUnknown)
}

func TestResetConfirmRejectsBadToken(t *testing.T) {
	_, app, _ := newTestServer(t)

	status, _ := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/reset-confirm", fiber.Map{
		"token":        "not-a-token",
		"new_password": "new-password2",
	}))
	assert.Equal(t, http.StatusUnauthorized, status)
}
