package server

import (
	"errors"

	"gather/internal/middleware"
	"gather/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON body for every non-2xx outcome.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// statusFor maps a service outcome code onto an HTTP status.
func statusFor(code string) int {
	switch code {
	case models.CodeUnauthenticated, models.CodeBadCredentials, models.CodeInvalidToken:
		return fiber.StatusUnauthorized
	case models.CodeForbidden, models.CodeNotActive, models.CodeNotApproved,
		models.CodeRegistrationsDisabled:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeValidationFailed:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the error as a JSON response. Internal detail is never
// echoed back for storage failures.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal server error",
		})
	}

	status := statusFor(appErr.Code)
	resp := ErrorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Fields: appErr.Fields,
	}
	if status == fiber.StatusInternalServerError {
		resp.Error = "internal server error"
	}
	return c.Status(status).JSON(resp)
}

// parseID extracts a positive uint route parameter, or 0 when invalid.
func parseID(c *fiber.Ctx, param string) uint {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0
	}
	return uint(id)
}

// badID is the response for an unparseable id parameter.
func badID(c *fiber.Ctx) error {
	return respondError(c, models.NewValidationError("invalid id"))
}

// parsePage extracts 1-based page/per_page query parameters. per_page 0
// means "use the configured default" for endpoints that honor it; others
// treat it via models.NewPageInfo normalisation.
func parsePage(c *fiber.Ctx) (page, perPage int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage = c.QueryInt("per_page", 0)
	if perPage < 0 {
		perPage = 0
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// defaultedPage is parsePage with a fallback per_page for endpoints with no
// setting-driven default.
func defaultedPage(c *fiber.Ctx, def int) (int, int) {
	page, perPage := parsePage(c)
	if perPage == 0 {
		perPage = def
	}
	return page, perPage
}

func viewer(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}

// pageResponse is the envelope for paginated listings.
func pageResponse(items any, info models.PageInfo) fiber.Map {
	return fiber.Map{
		"items": items,
		"page":  info,
	}
}
