package server

import (
	"gather/internal/models"
	"gather/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postBody struct {
	Content     string `json:"content"`
	Tags        string `json:"tags"`
	CategoryIDs []uint `json:"category_ids"`
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postBody
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	post, err := s.posts.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:    viewer(c).ID,
		Content:     req.Content,
		TagString:   req.Tags,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id. Drafts are not found for anyone but
// the author and admins.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	post, err := s.posts.GetPost(c.Context(), viewer(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	var req postBody
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	post, err := s.posts.UpdatePost(c.Context(), viewer(c), service.UpdatePostInput{
		PostID:      id,
		Content:     req.Content,
		TagString:   req.Tags,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.posts.DeletePost(c.Context(), viewer(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "post deleted"})
}

// GetPostsByTag handles GET /api/posts/tag/:slug.
func (s *Server) GetPostsByTag(c *fiber.Ctx) error {
	page, perPage := defaultedPage(c, s.settings.PostsPerPage(c.Context()))
	posts, info, err := s.posts.ListByTag(c.Context(), c.Params("slug"), page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(posts, info))
}

// GetPostsByCategory handles GET /api/posts/category/:slug.
func (s *Server) GetPostsByCategory(c *fiber.Ctx) error {
	page, perPage := defaultedPage(c, s.settings.PostsPerPage(c.Context()))
	posts, info, err := s.posts.ListByCategory(c.Context(), c.Params("slug"), page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(posts, info))
}
