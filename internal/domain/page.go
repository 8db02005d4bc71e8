package domain

// Page size limits applied by NewPaginationParams.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams selects one page of the route history. Page starts at 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds PaginationParams from optional query values.
// Missing or non-positive values fall back to page 1 and DefaultPageLimit;
// the limit is clamped to MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Paginate returns the window of items that p selects. A page past the end
// yields an empty, non-nil slice. The result shares items' backing array.
func Paginate[T any](items []T, p PaginationParams) []T {
	start := min((p.Page-1)*p.Limit, len(items))
	end := min(start+p.Limit, len(items))
	if start == end {
		return []T{}
	}
	return items[start:end:end]
}
