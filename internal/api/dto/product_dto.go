package dto

// ProductRequest is the payload for product creation and full replacement.
// Price and Stock are pointers so zero values survive the required check.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required,max=150"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	Stock       *int     `json:"stock" validate:"required,min=0"`
	CategoryID  int64    `json:"categoryId" validate:"required"`
}

// ProductStockRequest is the single-column fast-path update payload.
type ProductStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

// ProductResponse carries no timestamps; the category comes embedded.
type ProductResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       float64          `json:"price"`
	Stock       int              `json:"stock"`
	Category    CategoryResponse `json:"category"`
}
