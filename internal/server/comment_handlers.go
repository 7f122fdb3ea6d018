package server

import (
	"gather/internal/models"
	"gather/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentBody struct {
	Body     string `json:"body"`
	ParentID *uint  `json:"parent_id"`
}

// listComments serves the comment thread of one target, oldest first.
func (s *Server) listComments(c *fiber.Ctx, typ models.TargetType) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	page, perPage := defaultedPage(c, 20)
	target := models.TargetRef{Type: typ, ID: id}
	comments, info, err := s.comments.ListComments(c.Context(), viewer(c), target, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(comments, info))
}

// addComment creates a comment on one target, optionally as a reply.
func (s *Server) addComment(c *fiber.Ctx, typ models.TargetType) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.comments.AddComment(c.Context(), viewer(c), service.AddCommentInput{
		Target:   models.TargetRef{Type: typ, ID: id},
		Body:     req.Body,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetPostComments handles GET /api/posts/:id/comments.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	return s.listComments(c, models.TargetPost)
}

// CreatePostComment handles POST /api/posts/:id/comments.
func (s *Server) CreatePostComment(c *fiber.Ctx) error {
	return s.addComment(c, models.TargetPost)
}

// GetPhotoComments handles GET /api/photos/:id/comments.
func (s *Server) GetPhotoComments(c *fiber.Ctx) error {
	return s.listComments(c, models.TargetPhoto)
}

// CreatePhotoComment handles POST /api/photos/:id/comments.
func (s *Server) CreatePhotoComment(c *fiber.Ctx) error {
	return s.addComment(c, models.TargetPhoto)
}

// ReplyToComment handles POST /api/comments/:id/replies. The reply inherits
// the parent's target.
func (s *Server) ReplyToComment(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.comments.Reply(c.Context(), viewer(c), id, req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	var req commentBody
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.comments.EditComment(c.Context(), viewer(c), id, req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.comments.DeleteComment(c.Context(), viewer(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "comment deleted"})
}

// FlagComment handles POST /api/comments/:id/flag.
func (s *Server) FlagComment(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	flag, err := s.moderation.FlagComment(c.Context(), viewer(c), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(flag)
}
