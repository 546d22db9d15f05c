package mapper

import (
	"time"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/domain"
)

// NewProductFromRequest builds a fresh entity from a creation request.
func NewProductFromRequest(req dto.ProductRequest, now time.Time) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyProductPut overwrites every mutable field from a replacement request.
func ApplyProductPut(product *domain.Product, req dto.ProductRequest, now time.Time) {
	product.Name = req.Name
	product.Description = req.Description
	product.Price = *req.Price
	product.Stock = *req.Stock
	product.CategoryID = req.CategoryID
	product.UpdatedAt = now
}

// ProductResponse projects the entity with its embedded category.
func ProductResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    CategoryResponse(&product.Category),
	}
}

// NewCategoryFromRequest builds a fresh category entity.
func NewCategoryFromRequest(req dto.CategoryRequest, now time.Time) *domain.Category {
	return &domain.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyCategoryPut overwrites the mutable category fields.
func ApplyCategoryPut(category *domain.Category, req dto.CategoryRequest, now time.Time) {
	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedAt = now
}

// CategoryResponse projects a category entity.
func CategoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}
