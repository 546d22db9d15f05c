package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/commerce-services/internal/api/http"
	"github.com/spec-kit/commerce-services/internal/api/http/handlers"
	"github.com/spec-kit/commerce-services/internal/domain"
	"github.com/spec-kit/commerce-services/internal/observability"
	"github.com/spec-kit/commerce-services/internal/service"
)

type memoryCategoryRepo struct {
	seq        int64
	categories map[int64]*domain.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (r *memoryCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	r.seq++
	category.ID = r.seq
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memoryCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *memoryCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *memoryCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.categories))
	for id := int64(1); id <= r.seq; id++ {
		if category, ok := r.categories[id]; ok {
			out = append(out, *category)
		}
	}
	return out, nil
}

type memoryProductRepo struct {
	seq        int64
	products   map[int64]*domain.Product
	categories *memoryCategoryRepo
}

func newMemoryProductRepo(categories *memoryCategoryRepo) *memoryProductRepo {
	return &memoryProductRepo{products: make(map[int64]*domain.Product), categories: categories}
}

func (r *memoryProductRepo) hydrate(product domain.Product) domain.Product {
	if category, ok := r.categories.categories[product.CategoryID]; ok {
		product.Category = *category
	}
	return product
}

func (r *memoryProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.seq++
	product.ID = r.seq
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memoryProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	hydrated := r.hydrate(*product)
	return &hydrated, nil
}

func (r *memoryProductRepo) List(_ context.Context, page domain.PageRequest) ([]domain.Product, int64, error) {
	all := make([]domain.Product, 0, len(r.products))
	for id := int64(1); id <= r.seq; id++ {
		if product, ok := r.products[id]; ok {
			all = append(all, r.hydrate(*product))
		}
	}
	total := int64(len(all))
	offset := page.Offset()
	if offset >= len(all) {
		return []domain.Product{}, total, nil
	}
	end := offset + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memoryProductRepo) SearchByName(_ context.Context, keyword string) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for id := int64(1); id <= r.seq; id++ {
		product, ok := r.products[id]
		if ok && strings.Contains(strings.ToLower(product.Name), strings.ToLower(keyword)) {
			out = append(out, r.hydrate(*product))
		}
	}
	return out, nil
}

func (r *memoryProductRepo) FindByPriceBetween(_ context.Context, minPrice, maxPrice float64) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for id := int64(1); id <= r.seq; id++ {
		product, ok := r.products[id]
		if ok && product.Price >= minPrice && product.Price <= maxPrice {
			out = append(out, r.hydrate(*product))
		}
	}
	return out, nil
}

func (r *memoryProductRepo) UpdateStock(_ context.Context, id int64, stock int, now time.Time) error {
	product, ok := r.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	product.Stock = stock
	product.UpdatedAt = now
	return nil
}

func (r *memoryProductRepo) ExistsByName(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, product := range r.products {
		if product.Name == name && product.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryProductRepo) CountByCategory(_ context.Context, categoryID int64) (int64, error) {
	var count int64
	for _, product := range r.products {
		if product.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func newProductTestApp() *fiber.App {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	categoryRepo := newMemoryCategoryRepo()
	productRepo := newMemoryProductRepo(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: httptransport.NewErrorHandler("product-service", logger, metrics),
	})
	httptransport.RegisterProductRoutes(app, httptransport.ProductRouteConfig{
		Health:     handlers.NewHealthHandler("product-service", "test", nil, nil, metrics),
		Products:   handlers.NewProductsHandler(productService),
		Categories: handlers.NewCategoriesHandler(categoryService),
	})
	return app
}

func createCategory(t *testing.T, app *fiber.App, name string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/categories", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestProducts_CreateAndStockLifecycle(t *testing.T) {
	app := newProductTestApp()
	createCategory(t, app, "Electronics")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products",
		`{"name":"Keyboard","description":"Mechanical","price":99.9,"stock":5,"categoryId":1}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/v1/products/1", resp.Header.Get(fiber.HeaderLocation))

	body := decodeBody(t, resp)
	category, ok := body["category"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Electronics", category["name"])

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/1/stock", `{"stock":0}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(0), body["stock"])

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/999/stock", `{"stock":3}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_ValidationRejectsNonPositivePrice(t *testing.T) {
	app := newProductTestApp()
	createCategory(t, app, "Electronics")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products",
		`{"name":"Keyboard","price":0,"stock":5,"categoryId":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	problem := decodeBody(t, resp)
	fields, ok := problem["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "price")
}

func TestProducts_UnknownCategoryOnCreate(t *testing.T) {
	app := newProductTestApp()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products",
		`{"name":"Keyboard","price":99.9,"stock":5,"categoryId":42}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	problem := decodeBody(t, resp)
	assert.Equal(t, "Category not found with provided ID", problem["detail"])
}

func TestProducts_SearchByKeywordAndPriceRange(t *testing.T) {
	app := newProductTestApp()
	createCategory(t, app, "Electronics")

	payloads := []string{
		`{"name":"Keyboard","price":99.9,"stock":5,"categoryId":1}`,
		`{"name":"Mouse","price":25.0,"stock":9,"categoryId":1}`,
	}
	for _, payload := range payloads {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/products", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/search?keyword=key", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/search?min_price=10&max_price=50", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/search", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/search?min_price=abc&max_price=50", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategories_DeleteReferencedConflicts(t *testing.T) {
	app := newProductTestApp()
	createCategory(t, app, "Electronics")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products",
		`{"name":"Keyboard","price":99.9,"stock":5,"categoryId":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	problem := decodeBody(t, resp)
	assert.Equal(t, "Category is still referenced by products", problem["detail"])

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
