package pagination

import "gorm.io/gorm"

type Pagination struct {
	Page  int `form:"page,default=1" validate:"gte=1"`
	Limit int `form:"limit,default=10" validate:"gte=1,lte=100"` // Min 1, Max 100
}

type PageInfo struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

// Normalize clamps page and limit to sane values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Apply adds LIMIT/OFFSET to a statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Offset(p.Offset()).Limit(p.Limit)
}

// BuildPageInfo derives the response page metadata from a total row count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PageInfo{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}
