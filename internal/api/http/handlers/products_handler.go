package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/service"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// ProductsHandler exposes the product catalog endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs the handler.
func NewProductsHandler(products *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// Create handles POST /api/v1/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.products.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderLocation, c.Path()+"/"+strconv.FormatInt(resp.ID, 10))
	return c.Status(http.StatusCreated).JSON(resp)
}

// List handles GET /api/v1/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page, err := h.products.List(c.UserContext(), parsePageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page))
}

// GetByID handles GET /api/v1/products/:id.
func (h *ProductsHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := h.products.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Search handles GET /api/v1/products/search with either a name keyword or
// an inclusive price range.
func (h *ProductsHandler) Search(c *fiber.Ctx) error {
	minPrice, err := queryFloat(c, "min_price")
	if err != nil {
		return err
	}
	maxPrice, err := queryFloat(c, "max_price")
	if err != nil {
		return err
	}

	resp, err := h.products.Search(c.UserContext(), c.Query("keyword"), minPrice, maxPrice)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Put handles PUT /api/v1/products/:id.
func (h *ProductsHandler) Put(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.products.Put(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateStock handles PATCH /api/v1/products/:id/stock.
func (h *ProductsHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ProductStockRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.products.UpdateStock(c.UserContext(), id, *req.Stock); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.Validation("Invalid query parameter: "+key, nil)
	}
	return &parsed, nil
}
