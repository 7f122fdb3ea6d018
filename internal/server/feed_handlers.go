package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed: posts and photos of the viewer and everyone
// they follow, newest first. per_page falls back to the posts_per_page
// setting when absent.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, perPage := parsePage(c)
	items, info, err := s.feed.Feed(c.Context(), viewer(c), page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(items, info))
}
