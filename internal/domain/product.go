package domain

import "time"

// Product is the persisted catalog record. Category is hydrated by the
// repository on reads; CategoryID is the authoritative reference.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  int64
	Category    Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
