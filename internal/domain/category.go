package domain

import "time"

// Category groups products. A category referenced by at least one product
// cannot be deleted.
type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
