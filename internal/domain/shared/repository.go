package shared

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter carries the paging, ordering and free-text search common to every list query.
// Context-specific filters embed it.
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

// NewFilter builds a Filter from query parameters. Zero values keep the
// defaults and the page size is capped at MaxPageSize.
func NewFilter(page, pageSize int, orderBy, orderDir, search string) Filter {
	f := DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	switch {
	case pageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	case pageSize > 0:
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	f.Search = search
	return f
}

// Offset is the number of rows skipped before the current page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of a list result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps items with their paging metadata
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	size := pageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}
