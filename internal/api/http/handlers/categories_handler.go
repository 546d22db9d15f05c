package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/service"
)

// CategoriesHandler exposes the category endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs the handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// Create handles POST /api/v1/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.categories.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderLocation, c.Path()+"/"+strconv.FormatInt(resp.ID, 10))
	return c.Status(http.StatusCreated).JSON(resp)
}

// List handles GET /api/v1/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	resp, err := h.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetByID handles GET /api/v1/categories/:id.
func (h *CategoriesHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := h.categories.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Put handles PUT /api/v1/categories/:id.
func (h *CategoriesHandler) Put(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.categories.Put(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete handles DELETE /api/v1/categories/:id. Deletion is refused with a
// conflict while products still reference the category.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.categories.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
