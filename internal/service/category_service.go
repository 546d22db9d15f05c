package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/mapper"
	"github.com/spec-kit/commerce-services/internal/repository"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// CategoryService manages product categories. Deletion is refused while any
// product still references the category, so the product-side invariant that
// every category reference resolves can never break.
type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	log        *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, products: products, log: logger}
}

// Create inserts a category.
func (s *CategoryService) Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	category := mapper.NewCategoryFromRequest(req, time.Now().UTC())
	if err := s.categories.Create(ctx, category); err != nil {
		return dto.CategoryResponse{}, err
	}
	s.log.Info("category created", zap.Int64("id", category.ID), zap.String("name", category.Name))
	return mapper.CategoryResponse(category), nil
}

// List returns all categories ordered by id.
func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	content := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		content = append(content, mapper.CategoryResponse(&categories[i]))
	}
	return content, nil
}

// GetByID returns one category projection.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (dto.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, s.notFound(err, id)
	}
	return mapper.CategoryResponse(category), nil
}

// Put replaces the mutable category fields.
func (s *CategoryService) Put(ctx context.Context, id int64, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return dto.CategoryResponse{}, s.notFound(err, id)
	}

	mapper.ApplyCategoryPut(category, req, time.Now().UTC())
	if err := s.categories.Update(ctx, category); err != nil {
		return dto.CategoryResponse{}, err
	}
	s.log.Info("category replaced", zap.Int64("id", id))
	return mapper.CategoryResponse(category), nil
}

// Delete removes a category unless products still reference it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return s.notFound(err, id)
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Warn("delete rejected, category still referenced",
			zap.String("log_code", logCategoryReferenced), zap.Int64("id", id), zap.Int64("products", count))
		return apperror.Conflict("Category is still referenced by products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return s.notFound(err, id)
	}
	s.log.Info("category deleted", zap.Int64("id", id))
	return nil
}

func (s *CategoryService) notFound(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn("category not found", zap.String("log_code", logCategoryNotFound), zap.Int64("id", id))
		return apperror.NotFound("Category not found with provided ID")
	}
	return err
}
