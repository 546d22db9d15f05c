package dto

import "github.com/spec-kit/commerce-services/internal/domain"

// PageResponse is the wire shape of a paginated collection.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// NewPageResponse projects a domain page onto the wire shape. Content is
// never null, even for out-of-range pages.
func NewPageResponse[T any](page domain.Page[T]) PageResponse[T] {
	content := page.Content
	if content == nil {
		content = []T{}
	}
	return PageResponse[T]{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Number:        page.Number,
		Size:          page.Size,
	}
}
