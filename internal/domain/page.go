package domain

// PageRequest carries caller-supplied pagination and sorting. Page is
// zero-based. Values are passed through to the repository untouched; an
// out-of-range page yields an empty content list, never an error.
type PageRequest struct {
	Page     int
	Size     int
	SortBy   string
	SortDesc bool
}

// Offset returns the row offset for the request.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return p.Page * p.Size
}

// Page is the paginated container returned by collection lookups: content
// plus totals.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	TotalPages    int
	Number        int
	Size          int
}

// NewPage assembles a Page, deriving TotalPages from the true dataset size.
func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        req.Page,
		Size:          req.Size,
	}
}
