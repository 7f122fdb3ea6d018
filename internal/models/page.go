package models

// PageInfo describes one page of a 1-based paginated listing.
type PageInfo struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// NewPageInfo normalises page/perPage and derives the navigation booleans.
func NewPageInfo(page, perPage int, total int64) PageInfo {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return PageInfo{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasNext: int64(page)*int64(perPage) < total,
		HasPrev: page > 1,
	}
}

// Offset returns the row offset for the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}
