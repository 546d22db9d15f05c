package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/commerce-services/internal/domain"
	"github.com/spec-kit/commerce-services/pkg/apperror"
)

// ProductRepository defines persistence access for catalog products.
// UpdateStock writes the stock column directly without hydrating the entity.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error)
	SearchByName(ctx context.Context, keyword string) ([]domain.Product, error)
	FindByPriceBetween(ctx context.Context, minPrice, maxPrice float64) ([]domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int, now time.Time) error
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productSelect = `
        SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id,
               c.name, c.description, p.created_at, p.updated_at
        FROM products p
        JOIN categories c ON c.id = p.category_id`

var productSortable = map[string]string{
	"id":        "p.id",
	"name":      "p.name",
	"price":     "p.price",
	"stock":     "p.stock",
	"createdAt": "p.created_at",
	"updatedAt": "p.updated_at",
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, price, stock, category_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
	return translateProductUnique(err)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products
        SET name=$1, description=$2, price=$3, stock=$4, category_id=$5, updated_at=$6
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return translateProductUnique(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, productSelect+` WHERE p.id=$1`, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, page domain.PageRequest) ([]domain.Product, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := productSelect + ` ` + orderClause(productSortable, page, "p.id") + ` LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) SearchByName(ctx context.Context, keyword string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+` WHERE p.name ILIKE '%' || $1 || '%' ORDER BY p.name`, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) FindByPriceBetween(ctx context.Context, minPrice, maxPrice float64) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+` WHERE p.price BETWEEN $1 AND $2 ORDER BY p.price`, minPrice, maxPrice)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// UpdateStock issues a direct single-column update so a stock change never
// pays for full entity hydration. Zero rows affected means the id is unknown.
func (r *productRepository) UpdateStock(ctx context.Context, id int64, stock int, now time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET stock=$1, updated_at=$2 WHERE id=$3`, stock, now, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE name=$1 AND id<>$2)`, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id=$1`, categoryID).Scan(&count)
	return count, err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CategoryID,
		&product.Category.Name,
		&product.Category.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	product.Category.ID = product.CategoryID
	return &product, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func translateProductUnique(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	if constraint == "products_name_key" {
		return apperror.Conflict("Product name already in use")
	}
	return apperror.Conflict("Duplicate value violates a uniqueness constraint")
}
