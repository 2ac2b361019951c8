package ports

// PageRequest carries 1-based pagination parameters shared by all list
// endpoints.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the parameters to sane bounds: page >= 1, size in
// [1, 100] with a default of 10.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = 10
	} else if p.Size > 100 {
		p.Size = 100
	}
}

// Offset returns the number of rows to skip for the current page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// PagedResult is the generic page envelope returned by list operations.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPagedResult assembles a page envelope, deriving TotalPages from the
// total count and page size.
func NewPagedResult[T any](items []T, total int64, page PageRequest) PagedResult[T] {
	pages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return PagedResult[T]{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: total,
		TotalPages: pages,
	}
}
