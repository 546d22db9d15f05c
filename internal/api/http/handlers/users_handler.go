package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/service"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// UsersHandler exposes the user management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /api/v1/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.users.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderLocation, c.Path()+"/"+strconv.FormatInt(resp.ID, 10))
	return c.Status(http.StatusCreated).JSON(resp)
}

// List handles GET /api/v1/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := h.users.List(c.UserContext(), parsePageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page))
}

// GetByID handles GET /api/v1/users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SearchByUsername handles GET /api/v1/users/search-username.
func (h *UsersHandler) SearchByUsername(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return apperror.Validation("Missing required query parameter: username", nil)
	}

	resp, err := h.users.GetByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SearchByEmail handles GET /api/v1/users/search-email.
func (h *UsersHandler) SearchByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperror.Validation("Missing required query parameter: email", nil)
	}

	resp, err := h.users.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Put handles PUT /api/v1/users/:id.
func (h *UsersHandler) Put(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UserPutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.users.Put(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Patch handles PATCH /api/v1/users/:id.
func (h *UsersHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UserPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.users.Patch(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Login handles POST /api/v1/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.users.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
