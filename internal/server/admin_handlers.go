package server

import (
	"gather/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPendingUsers handles GET /api/admin/users/pending.
func (s *Server) GetPendingUsers(c *fiber.Ctx) error {
	page, perPage := defaultedPage(c, 20)
	users, info, err := s.admin.PendingUsers(c.Context(), viewer(c), page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(users, info))
}

// ApproveUser handles POST /api/admin/users/:id/approve.
func (s *Server) ApproveUser(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	user, err := s.admin.ApproveUser(c.Context(), viewer(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// RejectUser handles POST /api/admin/users/:id/reject. The pending account
// and everything it uploaded are removed.
func (s *Server) RejectUser(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.admin.RejectUser(c.Context(), viewer(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "account rejected"})
}

// GetOpenFlags handles GET /api/admin/flags, oldest first.
func (s *Server) GetOpenFlags(c *fiber.Ctx) error {
	page, perPage := defaultedPage(c, 20)
	flags, info, err := s.admin.OpenFlags(c.Context(), viewer(c), page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(flags, info))
}

// ResolveFlag handles POST /api/admin/flags/:id/resolve.
func (s *Server) ResolveFlag(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	flag, err := s.moderation.ResolveFlag(c.Context(), viewer(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(flag)
}

// GetSettings handles GET /api/admin/settings.
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settings.All(c.Context(), viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateSetting handles PUT /api/admin/settings/:key.
func (s *Server) UpdateSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	var req struct {
		Value     string             `json:"value"`
		ValueType models.SettingType `json:"value_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if req.ValueType == "" {
		req.ValueType = models.SettingString
	}

	if err := s.settings.Set(c.Context(), viewer(c), key, req.Value, req.ValueType); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "setting updated"})
}
