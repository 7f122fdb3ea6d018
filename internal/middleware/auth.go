// Package middleware provides authentication, logging, metrics, and rate
// limiting middleware for the HTTP layer.
package middleware

import (
	"context"
	"strings"

	"gather/internal/models"
	"gather/internal/observability"
	"gather/internal/token"

	"github.com/gofiber/fiber/v2"
)

// UserLoader fetches the account behind an authenticated session.
type UserLoader func(ctx context.Context, id uint) (*models.User, error)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  models.CodeUnauthenticated,
	})
}

// resolveSession verifies the token and loads the account. Deactivated
// accounts do not get a session even with a valid token.
func resolveSession(c *fiber.Ctx, maker *token.Maker, load UserLoader, tok string) (*models.User, error) {
	userID, err := maker.VerifySession(tok)
	if err != nil {
		return nil, err
	}
	user, err := load(c.Context(), userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, token.ErrInvalid
	}
	return user, nil
}

// SessionAuth enforces a valid session token on every request it guards.
// The loaded account lands in c.Locals("user") and its id in c.Locals("userID").
func SessionAuth(maker *token.Maker, load UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, ok := BearerToken(c)
		if !ok {
			return unauthorized(c, "authorization required")
		}
		user, err := resolveSession(c, maker, load, tok)
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}
		storeSession(c, user)
		return c.Next()
	}
}

// OptionalSession resolves a session when a bearer token is present but lets
// anonymous requests through. Handlers see a nil viewer for those.
func OptionalSession(maker *token.Maker, load UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok, ok := BearerToken(c); ok {
			if user, err := resolveSession(c, maker, load, tok); err == nil {
				storeSession(c, user)
			}
		}
		return c.Next()
	}
}

// AdminRequired rejects non-admin sessions. Must run after SessionAuth.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, "authorization required")
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
				"code":  models.CodeForbidden,
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the account stored by SessionAuth/OptionalSession,
// or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals("user").(*models.User); ok {
		return u
	}
	return nil
}

func storeSession(c *fiber.Ctx, user *models.User) {
	c.Locals("user", user)
	c.Locals("userID", user.ID)
	c.SetUserContext(observability.WithUserID(c.UserContext(), user.ID))
}
