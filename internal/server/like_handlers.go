package server

import (
	"gather/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) like(c *fiber.Ctx, typ models.TargetType) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	target := models.TargetRef{Type: typ, ID: id}
	if err := s.likes.Like(c.Context(), viewer(c), target); err != nil {
		return respondError(c, err)
	}
	count, err := s.likes.Count(c.Context(), target)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"likes_count": count})
}

func (s *Server) unlike(c *fiber.Ctx, typ models.TargetType) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	target := models.TargetRef{Type: typ, ID: id}
	if err := s.likes.Unlike(c.Context(), viewer(c), target); err != nil {
		return respondError(c, err)
	}
	count, err := s.likes.Count(c.Context(), target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"likes_count": count})
}

// LikePost handles POST /api/posts/:id/like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.like(c, models.TargetPost)
}

// UnlikePost handles DELETE /api/posts/:id/like.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	return s.unlike(c, models.TargetPost)
}

// LikePhoto handles POST /api/photos/:id/like.
func (s *Server) LikePhoto(c *fiber.Ctx) error {
	return s.like(c, models.TargetPhoto)
}

// UnlikePhoto handles DELETE /api/photos/:id/like.
func (s *Server) UnlikePhoto(c *fiber.Ctx) error {
	return s.unlike(c, models.TargetPhoto)
}

// LikeComment handles POST /api/comments/:id/like.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	return s.like(c, models.TargetComment)
}

// UnlikeComment handles DELETE /api/comments/:id/like.
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	return s.unlike(c, models.TargetComment)
}
