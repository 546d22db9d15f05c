package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-services/internal/api/dto"
	"github.com/spec-kit/commerce-services/internal/domain"
	"github.com/spec-kit/commerce-services/internal/mapper"
	"github.com/spec-kit/commerce-services/internal/repository"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

const (
	logProductNotFound    = "PRD-001"
	logCategoryNotFound   = "PRD-002"
	logProductNameTaken   = "PRD-100"
	logCategoryReferenced = "PRD-101"
)

// ProductService coordinates catalog writes: name uniqueness, category
// resolution and the single-column stock fast path.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	log        *zap.Logger
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, log: logger}
}

// Create inserts a product after verifying name uniqueness and that the
// category reference resolves.
func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (dto.ProductResponse, error) {
	s.log.Info("creating product", zap.String("name", req.Name), zap.Int64("category_id", req.CategoryID))

	taken, err := s.products.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	if taken {
		s.log.Warn("create rejected, product name exists",
			zap.String("log_code", logProductNameTaken), zap.String("name", req.Name))
		return dto.ProductResponse{}, apperror.Conflict("Product name already in use")
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return dto.ProductResponse{}, s.categoryErr(err, req.CategoryID)
	}

	product := mapper.NewProductFromRequest(req, time.Now().UTC())
	if err := s.products.Create(ctx, product); err != nil {
		return dto.ProductResponse{}, err
	}
	product.Category = *category

	s.log.Info("product created", zap.Int64("id", product.ID), zap.String("name", product.Name))
	return mapper.ProductResponse(product), nil
}

// List returns a page of products.
func (s *ProductService) List(ctx context.Context, page domain.PageRequest) (domain.Page[dto.ProductResponse], error) {
	products, total, err := s.products.List(ctx, page)
	if err != nil {
		return domain.Page[dto.ProductResponse]{}, err
	}
	return domain.NewPage(projectProducts(products), total, page), nil
}

// GetByID returns one product projection.
func (s *ProductService) GetByID(ctx context.Context, id int64) (dto.ProductResponse, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, s.productErr(err, id)
	}
	return mapper.ProductResponse(product), nil
}

// Search looks up products by name keyword or, when no keyword is given, by
// an inclusive price range.
func (s *ProductService) Search(ctx context.Context, keyword string, minPrice, maxPrice *float64) ([]dto.ProductResponse, error) {
	switch {
	case keyword != "":
		products, err := s.products.SearchByName(ctx, keyword)
		if err != nil {
			return nil, err
		}
		return projectProducts(products), nil
	case minPrice != nil && maxPrice != nil:
		if *minPrice > *maxPrice {
			return nil, apperror.Validation("min_price must not exceed max_price", nil)
		}
		products, err := s.products.FindByPriceBetween(ctx, *minPrice, *maxPrice)
		if err != nil {
			return nil, err
		}
		return projectProducts(products), nil
	default:
		return nil, apperror.Validation("Provide keyword or both min_price and max_price", nil)
	}
}

// Put replaces every mutable field, re-resolving the category and keeping
// the name unique (excluding the target row itself).
func (s *ProductService) Put(ctx context.Context, id int64, req dto.ProductRequest) (dto.ProductResponse, error) {
	s.log.Info("replacing product", zap.Int64("id", id), zap.String("name", req.Name))

	taken, err := s.products.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	if taken {
		s.log.Warn("put rejected, product name exists",
			zap.String("log_code", logProductNameTaken), zap.Int64("id", id), zap.String("name", req.Name))
		return dto.ProductResponse{}, apperror.Conflict("Product name already in use")
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return dto.ProductResponse{}, s.categoryErr(err, req.CategoryID)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, s.productErr(err, id)
	}

	mapper.ApplyProductPut(product, req, time.Now().UTC())
	if err := s.products.Update(ctx, product); err != nil {
		return dto.ProductResponse{}, err
	}
	product.Category = *category

	s.log.Info("product replaced", zap.Int64("id", id))
	return mapper.ProductResponse(product), nil
}

// UpdateStock writes the stock column directly without hydrating the entity.
// An unknown id is reported as not found rather than a silent no-op.
func (s *ProductService) UpdateStock(ctx context.Context, id int64, stock int) error {
	if err := s.products.UpdateStock(ctx, id, stock, time.Now().UTC()); err != nil {
		return s.productErr(err, id)
	}
	s.log.Info("stock updated", zap.Int64("id", id), zap.Int("stock", stock))
	return nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return s.productErr(err, id)
	}
	s.log.Info("product deleted", zap.Int64("id", id))
	return nil
}

func (s *ProductService) productErr(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn("product not found", zap.String("log_code", logProductNotFound), zap.Int64("id", id))
		return apperror.NotFound("Product not found with provided ID")
	}
	return err
}

func (s *ProductService) categoryErr(err error, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.log.Warn("category not found", zap.String("log_code", logCategoryNotFound), zap.Int64("category_id", id))
		return apperror.NotFound("Category not found with provided ID")
	}
	return err
}

func projectProducts(products []domain.Product) []dto.ProductResponse {
	content := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		content = append(content, mapper.ProductResponse(&products[i]))
	}
	return content
}
