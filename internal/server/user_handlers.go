package server

import (
	"time"

	"gather/internal/models"
	"gather/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(viewer(c))
}

// UpdateMyProfile handles PUT /api/users/me. Absent fields stay untouched.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName     *string    `json:"display_name"`
		Bio             *string    `json:"bio"`
		Website         *string    `json:"website"`
		Street          *string    `json:"street"`
		City            *string    `json:"city"`
		PostalCode      *string    `json:"postal_code"`
		Country         *string    `json:"country"`
		Phone           *string    `json:"phone"`
		Birthdate       *time.Time `json:"birthdate"`
		IsProfilePublic *bool      `json:"is_profile_public"`
		Theme           *string    `json:"theme"`
		Accent          *string    `json:"accent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	user, err := s.accounts.UpdateProfile(c.Context(), viewer(c).ID, service.UpdateProfileInput{
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Website:         req.Website,
		Street:          req.Street,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		Phone:           req.Phone,
		Birthdate:       req.Birthdate,
		IsProfilePublic: req.IsProfilePublic,
		Theme:           req.Theme,
		Accent:          req.Accent,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar handles PUT /api/users/me/avatar with a multipart "file" part.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return respondError(c, models.NewValidationError("a file part named 'file' is required"))
	}
	f, err := header.Open()
	if err != nil {
		return respondError(c, models.NewValidationError("unreadable upload"))
	}
	defer func() { _ = f.Close() }()

	user, err := s.photos.SetAvatar(c.Context(), viewer(c).ID, f, header.Filename)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	user, err := s.accounts.GetProfile(c.Context(), viewer(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts. Drafts show up only for the
// author and admins.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	page, perPage := defaultedPage(c, s.settings.PostsPerPage(c.Context()))
	posts, info, err := s.posts.ListByUser(c.Context(), viewer(c), id, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(posts, info))
}

// GetUserPhotos handles GET /api/users/:id/photos.
func (s *Server) GetUserPhotos(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	page, perPage := defaultedPage(c, s.settings.PostsPerPage(c.Context()))
	photos, info, err := s.photos.ListByUser(c.Context(), viewer(c), id, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(photos, info))
}

// GetFollowers handles GET /api/users/:id/followers.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	page, perPage := defaultedPage(c, 20)
	users, info, err := s.follows.Followers(c.Context(), id, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(users, info))
}

// GetFollowing handles GET /api/users/:id/following.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	page, perPage := defaultedPage(c, 20)
	users, info, err := s.follows.Following(c.Context(), id, page, perPage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pageResponse(users, info))
}

// FollowUser handles POST /api/users/:id/follow.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.follows.Follow(c.Context(), viewer(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "following"})
}

// UnfollowUser handles DELETE /api/users/:id/follow.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.follows.Unfollow(c.Context(), viewer(c).ID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "unfollowed"})
}
