package server

import (
	"gather/internal/models"
	"gather/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadPhoto handles POST /api/photos with a multipart "file" part and an
// optional "caption" field.
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return respondError(c, models.NewValidationError("a file part named 'file' is required"))
	}
	f, err := header.Open()
	if err != nil {
		return respondError(c, models.NewValidationError("unreadable upload"))
	}
	defer func() { _ = f.Close() }()

	photo, err := s.photos.UploadPhoto(c.Context(), service.UploadPhotoInput{
		OwnerID:      viewer(c).ID,
		File:         f,
		OriginalName: header.Filename,
		Caption:      c.FormValue("caption"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

// GetPhoto handles GET /api/photos/:id.
func (s *Server) GetPhoto(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	photo, err := s.photos.GetPhoto(c.Context(), viewer(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(photo)
}

// DeletePhoto handles DELETE /api/photos/:id.
func (s *Server) DeletePhoto(c *fiber.Ctx) error {
	id := parseID(c, "id")
	if id == 0 {
		return badID(c)
	}
	if err := s.photos.DeletePhoto(c.Context(), viewer(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "photo deleted"})
}
