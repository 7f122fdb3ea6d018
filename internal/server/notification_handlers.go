package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications. ?unread=true limits the
// listing to unread entries.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page, perPage := defaultedPage(c, 20)
	unreadOnly := c.QueryBool("unread", false)
	items, info, err := s.notifications.List(c.Context(), viewer(c).ID, unreadOnly, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(items, info))
}

// GetUnreadCount handles GET /api/notifications/unread-count.
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notifications.UnreadCount(c.Context(), viewer(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead handles POST /api/notifications/:id/read.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.notifications.MarkRead(c.Context(), viewer(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "read"})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	n, err := s.notifications.MarkAllRead(c.Context(), viewer(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"marked": n})
}

// GetActivities handles GET /api/activities, the viewer's own activity log.
func (s *Server) GetActivities(c *fiber.Ctx) error {
	page, perPage := defaultedPage(c, 20)
	items, info, err := s.notifications.Activities(c.Context(), viewer(c).ID, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(items, info))
}
