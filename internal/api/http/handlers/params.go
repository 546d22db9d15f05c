package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-services/internal/domain"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseID reads the numeric id path parameter.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("Invalid path parameter: id", nil)
	}
	return id, nil
}

// parseBody binds the JSON body and applies the declarative constraints.
func parseBody(c *fiber.Ctx, body any) error {
	if err := c.BodyParser(body); err != nil {
		return apperror.Validation("Invalid request payload", nil)
	}
	return validateBody(body)
}

// parsePageRequest reads page/size/sort query parameters. Page is zero-based
// and sort uses the "field,direction" form with id ascending as the default.
func parsePageRequest(c *fiber.Ctx) domain.PageRequest {
	page := queryInt(c, "page", 0)
	if page < 0 {
		page = 0
	}
	size := queryInt(c, "size", defaultPageSize)
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	req := domain.PageRequest{Page: page, Size: size, SortBy: "id"}
	if sort := c.Query("sort"); sort != "" {
		parts := strings.SplitN(sort, ",", 2)
		req.SortBy = strings.TrimSpace(parts[0])
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
			req.SortDesc = true
		}
	}
	return req
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
