package model

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// NewPage нормализует номер страницы (с 1) и размер страницы.
// Номер, при котором смещение не помещается в int, отклоняется.
func NewPage(page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if page > math.MaxInt/limit {
		return Page{}, ValidationError("page is too large")
	}
	return Page{Page: page, Limit: limit}, nil
}

// Offset смещение для SQL
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Paginate собирает мета-информацию о странице
func (p Page) Paginate(total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}
