package shared

import (
	"slices"
	"strings"
)

// Paging limits for list queries
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter carries paging, ordering and free-text search for list queries
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns the first page, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Offset returns the number of records to skip for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Sort resolves OrderBy against allowed, using fallback for anything else.
// Ordering is descending unless OrderDir is "asc" in any case.
func (f Filter) Sort(allowed []string, fallback string) (field string, desc bool) {
	field = strings.TrimSpace(f.OrderBy)
	if !slices.Contains(allowed, field) {
		field = fallback
	}
	return field, !strings.EqualFold(strings.TrimSpace(f.OrderDir), "asc")
}

// Paginated is one page of a list result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps items with the page counts for total matches
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	p := Paginated[T]{Items: items, Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}
